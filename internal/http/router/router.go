package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dispatch-admin/internal/http/handlers"
	"dispatch-admin/internal/http/middleware"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/session"
)

func base(logger logx.Logger, h *handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}

// NewAdmin constructs the operator console routes.
func NewAdmin(
	logger logx.Logger,
	sess *session.Store,
	h *handlers.Handlers,
	create *handlers.CreateHandler,
	orders *handlers.OrdersHandler,
) http.Handler {
	r := base(logger, h)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sess, session.RoleAdmin))

		r.Route("/create", func(r chi.Router) {
			r.Get("/state", create.State)
			r.Get("/refs", create.Refs)
			r.Post("/courier", create.SelectCourier)
			r.Post("/merchant", create.SelectMerchant)
			r.Post("/draft", create.Draft)
			r.Post("/submit", create.Submit)
			r.Post("/close", create.CloseModal)
			r.Post("/reset", create.Reset)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/today", orders.Today)
			r.Get("/history", orders.History)
			r.Patch("/{id}/estado", orders.ChangeStatus)
		})
	})

	return r
}

// NewAgent constructs the courier agent routes.
func NewAgent(
	logger logx.Logger,
	sess *session.Store,
	h *handlers.Handlers,
	courier *handlers.CourierHandler,
) http.Handler {
	r := base(logger, h)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(sess, session.RoleCourier))

		r.Get("/current-delivery", courier.CurrentDelivery)
		r.Get("/notifications/active", courier.ActiveAlert)
		r.Post("/notifications/dismiss", courier.DismissAlert)
	})

	return r
}
