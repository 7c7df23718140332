package study

import "github.com/mandarin-cards/studyd/internal/domain"

// The quota tracker is a set of pure functions over DailyCounters; the
// service loads, transforms, and persists around them.

// LoadOrReset returns usable counters for today. A record stamped with
// any other day comes back zeroed and restamped; the second return
// value tells the caller the reset must be persisted. The reset is
// lazy (there is no rollover timer) and idempotent within a day.
func LoadOrReset(c domain.DailyCounters, today string) (domain.DailyCounters, bool) {
	if c.Stale(today) {
		return domain.ResetFor(today), true
	}
	return c, false
}

// RecordInteraction increments the counters for one graded review.
// wasNew must be captured at the moment of grading: a card counts as
// new only on first-ever exposure, not on learning-step repetitions.
func RecordInteraction(c domain.DailyCounters, wasNew bool) domain.DailyCounters {
	c.Interactions++
	if wasNew {
		c.NewUsed++
	} else {
		c.ReviewUsed++
	}
	return c
}

// RemainingAllowance returns how much of each cap is left, floored at zero.
func RemainingAllowance(c domain.DailyCounters, caps domain.Caps) domain.Remaining {
	return domain.Remaining{
		NewLeft:    capLeft(caps.NewCap, c.NewUsed),
		ReviewLeft: capLeft(caps.ReviewCap, c.ReviewUsed),
	}
}

func capLeft(cap, used int) int {
	if left := cap - used; left > 0 {
		return left
	}
	return 0
}
