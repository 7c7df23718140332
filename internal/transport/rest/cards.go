package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study"
)

// cardService defines the card management operations needed by
// CardsHandler.
type cardService interface {
	AddCard(ctx context.Context, code string, in study.AddCardInput) (*domain.Card, error)
	ListCards(ctx context.Context, code string) ([]*domain.Card, error)
	SetSuspended(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error
	SetFlagged(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error
	ImportCards(ctx context.Context, code string, records []study.CardRecord) (study.ImportResult, error)
	ExportCards(ctx context.Context, code string) ([]study.CardRecord, error)
}

// CardsHandler serves card management REST endpoints.
type CardsHandler struct {
	svc cardService
	log *slog.Logger
}

// NewCardsHandler creates a CardsHandler.
func NewCardsHandler(svc cardService, logger *slog.Logger) *CardsHandler {
	return &CardsHandler{svc: svc, log: logger.With("handler", "cards")}
}

type addCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Deck  string `json:"deck"`
}

type cardFlagsRequest struct {
	Suspended *bool `json:"suspended"`
	Flagged   *bool `json:"flagged"`
}

type cardResponse struct {
	ID           string    `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Deck         string    `json:"deck,omitempty"`
	EaseFactor   float64   `json:"easeFactor"`
	Reps         int       `json:"reps"`
	IntervalDays int       `json:"intervalDays"`
	Due          time.Time `json:"due"`
	Learning     bool      `json:"learning"`
	Suspended    bool      `json:"suspended"`
	Flagged      bool      `json:"flagged"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toCardResponse(c *domain.Card) cardResponse {
	return cardResponse{
		ID:           c.ID.String(),
		Front:        c.Front,
		Back:         c.Back,
		Deck:         c.Deck,
		EaseFactor:   c.EaseFactor,
		Reps:         c.Reps,
		IntervalDays: c.IntervalDays,
		Due:          c.Due,
		Learning:     c.Learning,
		Suspended:    c.Suspended,
		Flagged:      c.Flagged,
		CreatedAt:    c.CreatedAt,
	}
}

// List handles GET /api/cards.
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	cards, err := h.svc.ListCards(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}

	writeJSON(w, http.StatusOK, out)
}

// Add handles POST /api/cards.
func (h *CardsHandler) Add(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var req addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.svc.AddCard(r.Context(), code, study.AddCardInput{
		Front: req.Front,
		Back:  req.Back,
		Deck:  req.Deck,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(card))
}

// Update handles PATCH /api/cards/{id}. Only the suspended and flagged
// markers are mutable this way.
func (h *CardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req cardFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Suspended == nil && req.Flagged == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Suspended != nil {
		if err := h.svc.SetSuspended(r.Context(), code, cardID, *req.Suspended); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	if req.Flagged != nil {
		if err := h.svc.SetFlagged(r.Context(), code, cardID, *req.Flagged); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Import handles POST /api/cards/import. The body is a JSON array of card
// records, the same shape Export produces.
func (h *CardsHandler) Import(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var records []study.CardRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.ImportCards(r.Context(), code, records)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Export handles GET /api/cards/export.
func (h *CardsHandler) Export(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	records, err := h.svc.ExportCards(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
