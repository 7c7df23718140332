package study

import (
	"context"
	"fmt"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// StudySummary is the per-student snapshot shown on the home screen.
type StudySummary struct {
	TotalCards   int                  `json:"totalCards"`
	DueNow       int                  `json:"dueNow"`
	Counters     domain.DailyCounters `json:"counters"`
	Remaining    domain.Remaining     `json:"remaining"`
	Target       int                  `json:"target"`
	SessionState SessionState         `json:"sessionState,omitempty"`
}

// Summary reports today's progress for one student: collection size,
// cards currently due, quota usage against the mode's caps, and the
// state of any running session. Counter resets found here are
// persisted the same as at session start.
func (s *Service) Summary(ctx context.Context, code string) (StudySummary, error) {
	now := s.clock.Now()
	today := DayKey(now, s.opts.Timezone)

	account, err := s.accounts.Get(ctx, code)
	if err != nil {
		return StudySummary{}, fmt.Errorf("load account: %w", err)
	}
	counters, reset := LoadOrReset(account.Counters, today)
	if reset {
		if err := s.accounts.UpdateCounters(ctx, code, counters); err != nil {
			return StudySummary{}, fmt.Errorf("persist counter reset: %w", err)
		}
	}

	total, err := s.cards.CountAll(ctx, code)
	if err != nil {
		return StudySummary{}, fmt.Errorf("count cards: %w", err)
	}
	due, err := s.cards.CountDue(ctx, code, now)
	if err != nil {
		return StudySummary{}, fmt.Errorf("count due: %w", err)
	}

	caps := s.opts.Mode.Caps()
	summary := StudySummary{
		TotalCards: total,
		DueNow:     due,
		Counters:   counters,
		Remaining:  RemainingAllowance(counters, caps),
		Target:     caps.TargetInteractions,
	}

	s.mu.Lock()
	if sess, ok := s.sessions[code]; ok {
		summary.SessionState = sess.State
	}
	s.mu.Unlock()

	return summary, nil
}
