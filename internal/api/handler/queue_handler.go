package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/service"
)

// QueueHandler serves the staff queue and the accept action.
type QueueHandler struct {
	svc *service.QueueService
}

func NewQueueHandler(svc *service.QueueService) *QueueHandler {
	return &QueueHandler{svc: svc}
}

// List handles GET /api/v1/queue
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.View())
}

// Accept handles POST /api/v1/queue/{id}/accept
//
// Answers 204 for any well-formed id: a failed remote acknowledgement is
// logged by the service and the item reappears on the next poll.
func (h *QueueHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, domain.ErrInvalidItemID)
		return
	}
	if err := h.svc.Acknowledge(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
