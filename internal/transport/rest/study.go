package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study"
)

// studyService defines the session and dashboard operations needed by
// StudyHandler.
type studyService interface {
	StartSession(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error)
	Reveal(ctx context.Context, code string) (study.SessionView, error)
	Grade(ctx context.Context, code string, grade domain.ReviewGrade) (study.SessionView, error)
	SessionSummary(ctx context.Context, code string) (study.SessionView, error)
	EndSession(ctx context.Context, code string)
	Summary(ctx context.Context, code string) (study.StudySummary, error)
	SyncDecks(ctx context.Context, code string) (study.SyncResult, error)
}

// StudyHandler serves session and dashboard REST endpoints.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

type startSessionRequest struct {
	Deck string `json:"deck"`
}

type gradeRequest struct {
	Grade int `json:"grade"`
}

type sessionResponse struct {
	State     string               `json:"state"`
	CardID    string               `json:"cardId,omitempty"`
	Front     string               `json:"front,omitempty"`
	Back      string               `json:"back,omitempty"`
	Practice  bool                 `json:"practice,omitempty"`
	Remaining int                  `json:"remaining"`
	Counters  domain.DailyCounters `json:"counters"`
}

func toSessionResponse(v study.SessionView) sessionResponse {
	return sessionResponse{
		State:     string(v.State),
		CardID:    v.CardID,
		Front:     v.Front,
		Back:      v.Back,
		Practice:  v.Practice,
		Remaining: v.Remaining,
		Counters:  v.Counters,
	}
}

// StartSession handles POST /api/study/start. The optional deck field narrows
// the session to one deck; "ALL" or empty covers everything.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var req startSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	view, err := h.svc.StartSession(r.Context(), code, domain.DeckFilter(req.Deck))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// Reveal handles POST /api/study/reveal.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Reveal(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// Grade handles POST /api/study/grade.
func (h *StudyHandler) Grade(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.Grade(r.Context(), code, domain.ReviewGrade(req.Grade))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// Session handles GET /api/study/session. Returns the current session snapshot.
func (h *StudyHandler) Session(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	view, err := h.svc.SessionSummary(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// EndSession handles DELETE /api/study/session.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	h.svc.EndSession(r.Context(), code)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Summary handles GET /api/study/summary.
func (h *StudyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Summary(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// SyncDecks handles POST /api/decks/sync.
func (h *StudyHandler) SyncDecks(w http.ResponseWriter, r *http.Request) {
	code, ok := requireStudent(w, r)
	if !ok {
		return
	}

	result, err := h.svc.SyncDecks(r.Context(), code)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
