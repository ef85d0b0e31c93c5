package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"questline/internal/flow"
	"questline/internal/service"
	"questline/internal/transport/rest/middleware"
)

// ProgressHandler handles the aggregate progress list endpoint
type ProgressHandler struct {
	progressSvc *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressSvc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// Get handles GET /api/progress/{userId}
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	result, err := h.progressSvc.GetProgress(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses: unknown
// clusters are 404, validation problems are 400, persistence failures
// are 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClusterNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, flow.ErrUnknownQuestion),
		errors.Is(err, flow.ErrUnknownPage),
		errors.Is(err, flow.ErrValueShape):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
