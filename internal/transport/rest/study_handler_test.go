package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study"
	"github.com/mandarin-cards/studyd/pkg/ctxutil"
)

type studyServiceMock struct {
	StartSessionFunc   func(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error)
	RevealFunc         func(ctx context.Context, code string) (study.SessionView, error)
	GradeFunc          func(ctx context.Context, code string, grade domain.ReviewGrade) (study.SessionView, error)
	SessionSummaryFunc func(ctx context.Context, code string) (study.SessionView, error)
	EndSessionFunc     func(ctx context.Context, code string)
	SummaryFunc        func(ctx context.Context, code string) (study.StudySummary, error)
	SyncDecksFunc      func(ctx context.Context, code string) (study.SyncResult, error)
}

func (m *studyServiceMock) StartSession(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error) {
	return m.StartSessionFunc(ctx, code, deck)
}

func (m *studyServiceMock) Reveal(ctx context.Context, code string) (study.SessionView, error) {
	return m.RevealFunc(ctx, code)
}

func (m *studyServiceMock) Grade(ctx context.Context, code string, grade domain.ReviewGrade) (study.SessionView, error) {
	return m.GradeFunc(ctx, code, grade)
}

func (m *studyServiceMock) SessionSummary(ctx context.Context, code string) (study.SessionView, error) {
	return m.SessionSummaryFunc(ctx, code)
}

func (m *studyServiceMock) EndSession(ctx context.Context, code string) {
	if m.EndSessionFunc != nil {
		m.EndSessionFunc(ctx, code)
	}
}

func (m *studyServiceMock) Summary(ctx context.Context, code string) (study.StudySummary, error) {
	return m.SummaryFunc(ctx, code)
}

func (m *studyServiceMock) SyncDecks(ctx context.Context, code string) (study.SyncResult, error) {
	return m.SyncDecksFunc(ctx, code)
}

func withCode(r *http.Request, code string) *http.Request {
	return r.WithContext(ctxutil.WithStudentCode(r.Context(), code))
}

func TestStartSession_DeckFilter(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		StartSessionFunc: func(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error) {
			if code != "Mand0042" {
				t.Errorf("expected code Mand0042, got %q", code)
			}
			if deck != domain.DeckFilter("HSK2") {
				t.Errorf("expected deck HSK2, got %q", deck)
			}
			return study.SessionView{
				State:     study.StateAwaitingReveal,
				CardID:    "abc",
				Front:     "你好",
				Remaining: 3,
			}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader([]byte(`{"deck":"HSK2"}`)))
	req = withCode(req, "Mand0042")
	rec := httptest.NewRecorder()

	h.StartSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.State != "AWAITING_REVEAL" {
		t.Errorf("expected state AWAITING_REVEAL, got %q", resp.State)
	}
	if resp.Front != "你好" {
		t.Errorf("expected front 你好, got %q", resp.Front)
	}
	if resp.Back != "" {
		t.Errorf("back must stay hidden before reveal, got %q", resp.Back)
	}
	if resp.Remaining != 3 {
		t.Errorf("expected remaining 3, got %d", resp.Remaining)
	}
}

func TestStartSession_EmptyBody(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		StartSessionFunc: func(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error) {
			if deck != "" {
				t.Errorf("expected empty deck filter, got %q", deck)
			}
			return study.SessionView{State: study.StateEmpty}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req = withCode(req, "Mand0042")
	rec := httptest.NewRecorder()

	h.StartSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestStartSession_Anonymous(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		StartSessionFunc: func(ctx context.Context, code string, deck domain.DeckFilter) (study.SessionView, error) {
			t.Error("service should not be called for anonymous request")
			return study.SessionView{}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	rec := httptest.NewRecorder()

	h.StartSession(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestGrade_StateConflict(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		GradeFunc: func(ctx context.Context, code string, grade domain.ReviewGrade) (study.SessionView, error) {
			return study.SessionView{}, domain.ErrConflict
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/session/grade", bytes.NewReader([]byte(`{"grade":4}`)))
	req = withCode(req, "Mand0042")
	rec := httptest.NewRecorder()

	h.Grade(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestGrade_PassesGradeThrough(t *testing.T) {
	t.Parallel()

	var got domain.ReviewGrade
	svc := &studyServiceMock{
		GradeFunc: func(ctx context.Context, code string, grade domain.ReviewGrade) (study.SessionView, error) {
			got = grade
			return study.SessionView{State: study.StateAwaitingReveal}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/session/grade", bytes.NewReader([]byte(`{"grade":5}`)))
	req = withCode(req, "Mand0042")
	rec := httptest.NewRecorder()

	h.Grade(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got != domain.GradeEasy {
		t.Errorf("expected grade EASY, got %v", got)
	}
}

func TestSummary_OK(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		SummaryFunc: func(ctx context.Context, code string) (study.StudySummary, error) {
			return study.StudySummary{
				TotalCards: 42,
				DueNow:     7,
				Target:     100,
			}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := withCode(httptest.NewRequest(http.MethodGet, "/summary", nil), "Mand0042")
	rec := httptest.NewRecorder()

	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["totalCards"] != float64(42) {
		t.Errorf("expected totalCards 42, got %v", resp["totalCards"])
	}
}

func TestSyncDecks_OK(t *testing.T) {
	t.Parallel()

	svc := &studyServiceMock{
		SyncDecksFunc: func(ctx context.Context, code string) (study.SyncResult, error) {
			return study.SyncResult{Decks: []string{"HSK2-extra"}, Cards: 12}, nil
		},
	}
	h := NewStudyHandler(svc, discardLogger())

	req := withCode(httptest.NewRequest(http.MethodPost, "/decks/sync", nil), "Mand0042")
	rec := httptest.NewRecorder()

	h.SyncDecks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp study.SyncResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Cards != 12 {
		t.Errorf("expected 12 cards, got %d", resp.Cards)
	}
}
