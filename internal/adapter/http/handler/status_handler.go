package handler

import (
	"net/http"
	"time"

	"github.com/iho/minibank/internal/adapter/http/dto"
)

// StatusHandler reports service identity and version.
type StatusHandler struct {
	version string
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(version string) *StatusHandler {
	return &StatusHandler{version: version}
}

// Status returns the service status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.StatusResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	})
}
