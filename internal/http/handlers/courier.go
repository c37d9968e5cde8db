package handlers

import (
	"net/http"

	"dispatch-admin/internal/logx"
)

// CourierHandler serves the courier agent's screens: the current-delivery
// view and the in-app alert banner.
type CourierHandler struct {
	current currentDeliveryUsecase
	alerts  alertsUsecase
	logger  logx.Logger
}

// NewCourierHandler creates a CourierHandler.
func NewCourierHandler(logger logx.Logger, current currentDeliveryUsecase, alerts alertsUsecase) *CourierHandler {
	return &CourierHandler{current: current, alerts: alerts, logger: logger}
}

// CurrentDelivery handles GET /current-delivery. The view carries its own
// error state; the route always answers 200.
func (h *CourierHandler) CurrentDelivery(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.current.CurrentDelivery(r.Context()))
}

type activeAlertResponse struct {
	Alert any  `json:"alert,omitempty"`
	Found bool `json:"found"`
}

// ActiveAlert handles GET /notifications/active.
func (h *CourierHandler) ActiveAlert(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.alerts.Active()
	if !ok {
		writeJSON(h.logger, w, r, http.StatusOK, activeAlertResponse{Found: false})
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, activeAlertResponse{Alert: alert, Found: true})
}

// DismissAlert handles POST /notifications/dismiss.
func (h *CourierHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	h.alerts.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
