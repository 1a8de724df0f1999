package handler

import (
	"net/http"

	"github.com/notifyhub/callqueue/internal/service"
)

// AlertHandler exposes the manual sound and vibration checks.
type AlertHandler struct {
	svc *service.QueueService
}

func NewAlertHandler(svc *service.QueueService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// TestSound handles POST /api/v1/alerts/test-sound
func (h *AlertHandler) TestSound(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TestSound(r.Context()); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestVibration handles POST /api/v1/alerts/test-vibration
func (h *AlertHandler) TestVibration(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TestVibration(r.Context()); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stop handles DELETE /api/v1/alerts
func (h *AlertHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.svc.StopAlert()
	w.WriteHeader(http.StatusNoContent)
}
