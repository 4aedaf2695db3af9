package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mnemo-app/mnemo/internal/card"
)

// CardHandler serves card CRUD and category management.
type CardHandler struct {
	cards    card.Repository
	validate *validator.Validate
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards card.Repository, validate *validator.Validate) *CardHandler {
	return &CardHandler{cards: cards, validate: validate}
}

type createCardRequest struct {
	Front    string `json:"front" validate:"required"`
	Back     string `json:"back" validate:"required"`
	Category string `json:"category"`
}

type cardResponse struct {
	ID        string    `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Create stores a new card. The card's forward and reverse review items
// are created with it.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newCard := &card.Card{
		UserID:   requestUserID(r),
		Front:    req.Front,
		Back:     req.Back,
		Category: req.Category,
	}
	if err := h.cards.Create(r.Context(), newCard); err != nil {
		slog.Error("failed to create card", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create card")
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(*newCard))
}

// List returns the user's cards in creation order.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.FindAllByUser(r.Context(), requestUserID(r))
	if err != nil {
		slog.Error("failed to list cards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	responses := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		responses = append(responses, toCardResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string][]cardResponse{"cards": responses})
}

// Delete removes a card together with its review items and history.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.cards.Delete(r.Context(), requestUserID(r), id)
	if errors.Is(err, card.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("card %s not found", id))
		return
	}
	if err != nil {
		slog.Error("failed to delete card", "card", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renameCategoryRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// RenameCategory moves all cards of one category into another.
func (h *CardHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.cards.RenameCategory(r.Context(), requestUserID(r), req.From, req.To)
	if err != nil {
		slog.Error("failed to rename category", "from", req.From, "to", req.To, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func toCardResponse(c card.Card) cardResponse {
	return cardResponse{
		ID:        c.ID,
		Front:     c.Front,
		Back:      c.Back,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
	}
}
