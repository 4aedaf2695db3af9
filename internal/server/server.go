// Package server provides the HTTP JSON API handlers.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/review"
	"github.com/mnemo-app/mnemo/internal/settings"
)

// defaultUserID is used when a request carries no X-User-ID header.
// Authentication is out of scope; the surrounding deployment supplies
// identity.
const defaultUserID = "default"

// NewMux builds the API routing table.
func NewMux(
	cards card.Repository,
	items review.ItemRepository,
	history review.HistoryRepository,
	userSettings settings.Repository,
) *http.ServeMux {
	validate := validator.New()

	reviewHandler := NewReviewHandler(items, history, userSettings, validate)
	cardHandler := NewCardHandler(cards, validate)
	settingsHandler := NewSettingsHandler(userSettings)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/reviews", reviewHandler.SubmitGrade)
	mux.HandleFunc("GET /api/v1/queue", reviewHandler.GetQueue)
	mux.HandleFunc("POST /api/v1/cards", cardHandler.Create)
	mux.HandleFunc("GET /api/v1/cards", cardHandler.List)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", cardHandler.Delete)
	mux.HandleFunc("POST /api/v1/categories/rename", cardHandler.RenameCategory)
	mux.HandleFunc("GET /api/v1/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/v1/settings", settingsHandler.Put)
	return mux
}

func requestUserID(r *http.Request) string {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return userID
	}
	return defaultUserID
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
