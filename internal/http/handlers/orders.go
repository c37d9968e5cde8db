package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// OrdersHandler serves the operator's order screens.
type OrdersHandler struct {
	usecase ordersUsecase
	logger  logx.Logger
}

// NewOrdersHandler creates an OrdersHandler.
func NewOrdersHandler(logger logx.Logger, uc ordersUsecase) *OrdersHandler {
	return &OrdersHandler{usecase: uc, logger: logger}
}

type changeStatusRequest struct {
	Estado string `json:"estado" validate:"required,oneof=EN_PROCESO HECHO CANCELADO"`
}

// Today handles GET /orders/today, grouped by courier.
func (h *OrdersHandler) Today(w http.ResponseWriter, r *http.Request) {
	groups, err := h.usecase.Today(r.Context())
	if err != nil {
		writeDomainError(h.logger, w, r, err, "could not load today's orders")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, groups)
}

// History handles GET /orders/history?date=YYYY-MM-DD.
func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	view, err := h.usecase.History(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(h.logger, w, r, err, "could not load the order history")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, view)
}

// ChangeStatus handles PATCH /orders/{id}/estado.
func (h *OrdersHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req changeStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	updated, err := h.usecase.ChangeStatus(r.Context(), orderID, domain.OrderStatus(req.Estado))
	if err != nil {
		writeDomainError(h.logger, w, r, err, "could not change the order status")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, updated)
}
