package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study/sm2"
)

// SessionState is the runner's position in the reveal/grade cycle.
type SessionState string

const (
	// StateAwaitingReveal: a card front is showing, waiting for the
	// student to flip it.
	StateAwaitingReveal SessionState = "AWAITING_REVEAL"
	// StateAwaitingGrade: the back is showing, waiting for a grade.
	StateAwaitingGrade SessionState = "AWAITING_GRADE"
	// StateEmpty: nothing due and no practice fill applies.
	StateEmpty SessionState = "EMPTY"
)

// Session holds one student's in-flight study pass. Sessions are
// ephemeral: they live in process memory and vanish on restart, which
// is safe because every grade is persisted the moment it happens.
type Session struct {
	Code  string
	Deck  domain.DeckFilter
	State SessionState

	queue    []Entry
	seen     []*domain.Card
	counters domain.DailyCounters
}

func (s *Session) current() *Entry {
	if len(s.queue) == 0 {
		return nil
	}
	return &s.queue[0]
}

// SessionView is the client-facing snapshot of a session after an
// operation. Back is empty until the card has been revealed.
type SessionView struct {
	State     SessionState
	CardID    string
	Front     string
	Back      string
	Practice  bool
	Remaining int
	Counters  domain.DailyCounters
}

func (s *Service) view(sess *Session) SessionView {
	v := SessionView{
		State:     sess.State,
		Remaining: len(sess.queue),
		Counters:  sess.counters,
	}
	if cur := sess.current(); cur != nil {
		v.CardID = cur.Card.ID.String()
		v.Front = cur.Card.Front
		v.Practice = cur.Practice
		if sess.State == StateAwaitingGrade {
			v.Back = cur.Card.Back
		}
	}
	return v
}

// StartSession builds a fresh queue for the student and replaces any
// session they already had. An empty queue yields the EMPTY state
// rather than an error.
func (s *Service) StartSession(ctx context.Context, code string, deck domain.DeckFilter) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, counters, err := s.buildQueue(ctx, code, deck, nil)
	if err != nil {
		return SessionView{}, err
	}

	sess := &Session{
		Code:     code,
		Deck:     deck,
		State:    StateAwaitingReveal,
		queue:    queue,
		counters: counters,
	}
	if len(queue) == 0 {
		sess.State = StateEmpty
	}
	s.sessions[code] = sess

	s.log.InfoContext(ctx, "session started",
		slog.String("code", code),
		slog.String("deck", string(deck)),
		slog.Int("queued", len(queue)),
	)
	return s.view(sess), nil
}

// Reveal flips the current card, exposing its back.
func (s *Service) Reveal(ctx context.Context, code string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[code]
	if !ok {
		return SessionView{}, fmt.Errorf("%w: no active session", domain.ErrNotFound)
	}
	if sess.State != StateAwaitingReveal {
		return SessionView{}, fmt.Errorf("%w: reveal in state %s", domain.ErrConflict, sess.State)
	}
	sess.State = StateAwaitingGrade
	return s.view(sess), nil
}

// Grade scores the revealed card and advances the session.
//
// For a scheduled entry the new SRS state, the review log row and the
// quota counters commit in a single transaction; if that fails the
// session stays in AWAITING_GRADE so the student can retry the same
// grade. Practice entries skip the scheduler and quota entirely.
func (s *Service) Grade(ctx context.Context, code string, grade domain.ReviewGrade) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[code]
	if !ok {
		return SessionView{}, fmt.Errorf("%w: no active session", domain.ErrNotFound)
	}
	if sess.State != StateAwaitingGrade {
		return SessionView{}, fmt.Errorf("%w: grade in state %s", domain.ErrConflict, sess.State)
	}
	if !grade.IsValid() {
		return SessionView{}, domain.NewValidationError("grade", "must be 1, 3, 4 or 5")
	}

	entry := sess.current()
	if entry == nil {
		return SessionView{}, fmt.Errorf("%w: session has no current card", domain.ErrConflict)
	}

	if !entry.Practice {
		if err := s.commitGrade(ctx, sess, entry.Card, grade); err != nil {
			// Stay in AWAITING_GRADE; nothing was persisted.
			return SessionView{}, fmt.Errorf("commit grade: %w", err)
		}
	}

	s.advance(ctx, sess, entry)
	return s.view(sess), nil
}

// commitGrade runs the scheduler and persists card state, review log
// and counters atomically.
func (s *Service) commitGrade(ctx context.Context, sess *Session, card *domain.Card, grade domain.ReviewGrade) error {
	now := s.clock.Now()
	wasNew := card.IsNew()

	next := sm2.Schedule(toSchedulerState(card), mapGrade(grade), now, s.opts.Scheduler)
	upd := toSRSUpdate(next)

	// A midnight crossing mid-session resets the counters before the
	// interaction is counted against the new day.
	counters, _ := LoadOrReset(sess.counters, DayKey(now, s.opts.Timezone))
	counters = RecordInteraction(counters, wasNew)

	rl := domain.NewReviewLog(card.ID, sess.Code, grade, wasNew, now)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cards.UpdateSRS(ctx, sess.Code, card.ID, upd); err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		if err := s.reviews.Create(ctx, rl); err != nil {
			return fmt.Errorf("write review log: %w", err)
		}
		if err := s.accounts.UpdateCounters(ctx, sess.Code, counters); err != nil {
			return fmt.Errorf("update counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	applySRSUpdate(card, upd)
	sess.counters = counters
	return nil
}

// advance pops the graded entry and decides what shows next. A failed
// scheduled grade puts the card back in the learning ladder, so the
// queue is rebuilt to let it resurface when its step elapses; an
// exhausted queue triggers one rebuild to pick up practice fill.
func (s *Service) advance(ctx context.Context, sess *Session, entry *Entry) {
	if !entry.Practice {
		sess.seen = append(sess.seen, entry.Card)
	}
	sess.queue = sess.queue[1:]

	if len(sess.queue) == 0 {
		queue, counters, err := s.buildQueue(ctx, sess.Code, sess.Deck, sess.seen)
		if err != nil {
			// The grade itself is committed; an empty session beats
			// surfacing a refill error to the student.
			s.log.WarnContext(ctx, "queue refill failed", slog.String("code", sess.Code), slog.Any("error", err))
			sess.State = StateEmpty
			return
		}
		sess.queue = queue
		sess.counters = counters
	}

	if len(sess.queue) == 0 {
		sess.State = StateEmpty
		return
	}
	sess.State = StateAwaitingReveal
}

// SessionSummary reports the running session without mutating it.
func (s *Service) SessionSummary(ctx context.Context, code string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[code]
	if !ok {
		return SessionView{}, fmt.Errorf("%w: no active session", domain.ErrNotFound)
	}
	return s.view(sess), nil
}

// EndSession drops the in-memory session. Already-persisted grades are
// unaffected.
func (s *Service) EndSession(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
}
