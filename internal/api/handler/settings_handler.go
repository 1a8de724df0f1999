package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/notifyhub/callqueue/internal/api/middleware"
	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/service"
)

// SettingsResponse never carries the full API key.
type SettingsResponse struct {
	APIKey     string `json:"apiKey"`
	ServerName string `json:"serverName"`
	Configured bool   `json:"configured"`
}

// SettingsRequest is the PUT body. An omitted field keeps its current value,
// an empty string removes it.
type SettingsRequest struct {
	APIKey     *string `json:"apiKey,omitempty"`
	ServerName *string `json:"serverName,omitempty"`
}

type SettingsHandler struct {
	svc    *service.QueueService
	logger *zap.Logger
}

func NewSettingsHandler(svc *service.QueueService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, logger: logger}
}

func toSettingsResponse(s domain.Settings) SettingsResponse {
	return SettingsResponse{
		APIKey:     s.MaskedAPIKey(),
		ServerName: s.ServerName,
		Configured: s.Configured(),
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSettingsResponse(h.svc.Settings()))
}

// Put handles PUT /api/v1/settings
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	next := h.svc.Settings()
	if req.APIKey != nil {
		next.APIKey = *req.APIKey
	}
	if req.ServerName != nil {
		next.ServerName = *req.ServerName
	}

	saved, err := h.svc.SaveSettings(r.Context(), next)
	if err != nil {
		apimw.Logger(r.Context(), h.logger).Error("save settings failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSettingsResponse(saved))
}
