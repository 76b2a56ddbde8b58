package handler

import (
	"net/http"
	"strconv"

	"github.com/durar-app/rental-api/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler exposes the audit trail
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, logger: logger}
}

// List handles GET /activity. It returns the latest entries, newest first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	entries, err := h.activityService.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list activity", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
