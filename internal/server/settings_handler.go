package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mnemo-app/mnemo/internal/scheduler"
	"github.com/mnemo-app/mnemo/internal/settings"
)

// SettingsHandler serves per-user scheduler settings.
type SettingsHandler struct {
	userSettings settings.Repository
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(userSettings settings.Repository) *SettingsHandler {
	return &SettingsHandler{userSettings: userSettings}
}

// Get returns the user's effective settings, defaults included.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userSettings, err := h.userSettings.Get(r.Context(), requestUserID(r))
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, userSettings)
}

// Put replaces the user's settings. Invalid settings are rejected before
// anything is stored.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req scheduler.Settings
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.userSettings.Put(r.Context(), requestUserID(r), req)
	if errors.Is(err, scheduler.ErrInvalidSettings) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to save settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, req)
}
