// Package sm2 implements the SM-2 spaced-repetition calculation with an
// optional short-term learning-step ladder layered on top. Everything here
// is pure: no clock, no I/O, no logger. Callers pass the current time and
// persist the result.
package sm2

import (
	"math"
	"time"
)

// Grade is the user's recall quality on the 1..5 SM-2 scale. The four
// buttons map to 1/3/4/5; grade 2 is unreachable by construction.
type Grade int

const (
	Again Grade = 1
	Hard  Grade = 3
	Good  Grade = 4
	Easy  Grade = 5
)

// Config holds the scheduling parameters. Zero value is not usable;
// start from Default().
type Config struct {
	// WithLearningSteps selects the two-tier regime: new and lapsed
	// cards climb the ladder below before entering the review tier.
	// When false, plain SM-2 is used and lapses wait a full day.
	WithLearningSteps bool

	// LearningSteps is the ladder of waits for the learning tier.
	LearningSteps []time.Duration

	// HardWait is the delay when "Hard" is answered on a learning card.
	HardWait time.Duration

	// EasyBoost is added to the ease factor when a learning card
	// graduates via "Easy", before the review-regime ease update.
	EasyBoost float64

	// MinEase is the floor the ease factor can never drop below.
	MinEase float64
}

// Default returns the configuration the app has always shipped with:
// a two-step ladder of 1 and 10 minutes, a 5 minute "Hard" wait.
func Default() Config {
	return Config{
		WithLearningSteps: true,
		LearningSteps:     []time.Duration{1 * time.Minute, 10 * time.Minute},
		HardWait:          5 * time.Minute,
		EasyBoost:         0.15,
		MinEase:           1.3,
	}
}

// State is the scheduling state of one card. Step and LearningDue are
// meaningful only while Learning is true.
type State struct {
	EaseFactor   float64
	Reps         int
	IntervalDays int
	Due          time.Time
	Learning     bool
	Step         int
	LearningDue  time.Time
}

// Schedule maps a card's state and a grade to its next state.
//
// With learning steps enabled, new cards (Reps == 0) and cards already in
// the ladder go through the learning regime; everything else is plain SM-2.
// Guarantees: EaseFactor >= cfg.MinEase, IntervalDays >= 1 once out of the
// learning tier, and Due/LearningDue are never before now.
func Schedule(s State, g Grade, now time.Time, cfg Config) State {
	if cfg.WithLearningSteps && (s.Learning || s.Reps == 0) {
		return scheduleLearning(s, g, now, cfg)
	}
	return scheduleReview(s, g, now, cfg)
}

// scheduleReview applies the SM-2 update for an established review card.
func scheduleReview(s State, g Grade, now time.Time, cfg Config) State {
	out := s
	out.EaseFactor = easeAfter(s.EaseFactor, g, cfg.MinEase)

	if g < Hard {
		// Lapse: progress resets and the card is shown again soon.
		out.Reps = 0
		out.IntervalDays = 1
		if cfg.WithLearningSteps {
			out.Learning = true
			out.Step = 0
			out.LearningDue = now.Add(firstStep(cfg))
			out.Due = out.LearningDue
		} else {
			out.Learning = false
			out.Step = 0
			out.LearningDue = time.Time{}
			out.Due = now.Add(24 * time.Hour)
		}
		return out
	}

	out.Reps = s.Reps + 1
	out.IntervalDays = nextInterval(out.Reps, s.IntervalDays, out.EaseFactor)
	out.Due = now.Add(time.Duration(out.IntervalDays) * 24 * time.Hour)
	out.Learning = false
	out.Step = 0
	out.LearningDue = time.Time{}
	return out
}

// scheduleLearning walks the short-term ladder for new and lapsed cards.
func scheduleLearning(s State, g Grade, now time.Time, cfg Config) State {
	out := s
	out.Learning = true

	switch {
	case g == Again:
		out.Step = 0
		out.LearningDue = now.Add(firstStep(cfg))

	case g == Hard:
		// Stay on the current step.
		out.LearningDue = now.Add(cfg.HardWait)

	case g == Good:
		next := s.Step + 1
		if next < len(cfg.LearningSteps) {
			out.Step = next
			out.LearningDue = now.Add(cfg.LearningSteps[next])
		} else {
			return graduate(s, Good, now, cfg)
		}

	case g == Easy:
		boosted := s
		boosted.EaseFactor = s.EaseFactor + cfg.EasyBoost
		return graduate(boosted, Easy, now, cfg)
	}

	return out
}

// graduate moves a learning card into the review tier. The review-regime
// ease update runs with the actual grade; reps are clamped up to 1 so the
// first graduation always lands on the one-day interval, never beyond.
func graduate(s State, g Grade, now time.Time, cfg Config) State {
	out := s
	out.EaseFactor = easeAfter(s.EaseFactor, g, cfg.MinEase)
	out.Reps = s.Reps
	if out.Reps < 1 {
		out.Reps = 1
	}
	out.IntervalDays = nextInterval(out.Reps, s.IntervalDays, out.EaseFactor)
	out.Due = now.Add(time.Duration(out.IntervalDays) * 24 * time.Hour)
	out.Learning = false
	out.Step = 0
	out.LearningDue = time.Time{}
	return out
}

// easeAfter applies the SM-2 easiness delta for the grade, floored at min.
func easeAfter(ease float64, g Grade, min float64) float64 {
	q := float64(g)
	delta := 0.1 - (5-q)*(0.08+(5-q)*0.02)
	ease += delta
	if ease < min {
		ease = min
	}
	return ease
}

// nextInterval is the SM-2 interval ladder: 1 day, 6 days, then the
// previous interval scaled by the ease factor, never below one day.
func nextInterval(reps, prevDays int, ease float64) int {
	switch reps {
	case 1:
		return 1
	case 2:
		return 6
	default:
		days := int(math.Round(float64(prevDays) * ease))
		if days < 1 {
			days = 1
		}
		return days
	}
}

// firstStep returns the first ladder wait, with a one-minute fallback so
// a misconfigured empty ladder never schedules a card in the past.
func firstStep(cfg Config) time.Duration {
	if len(cfg.LearningSteps) == 0 {
		return 1 * time.Minute
	}
	return cfg.LearningSteps[0]
}
