package study

import (
	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study/sm2"
)

// toSchedulerState projects a card's scheduling fields into the pure
// calculator's state type.
func toSchedulerState(c *domain.Card) sm2.State {
	return sm2.State{
		EaseFactor:   c.EaseFactor,
		Reps:         c.Reps,
		IntervalDays: c.IntervalDays,
		Due:          c.Due,
		Learning:     c.Learning,
		Step:         c.LearningStep,
		LearningDue:  c.LearningDue,
	}
}

// toSRSUpdate converts a computed scheduler state into the partial
// update written back to the card store.
func toSRSUpdate(s sm2.State) domain.SRSUpdate {
	return domain.SRSUpdate{
		EaseFactor:   s.EaseFactor,
		Reps:         s.Reps,
		IntervalDays: s.IntervalDays,
		Due:          s.Due,
		Learning:     s.Learning,
		LearningStep: s.Step,
		LearningDue:  s.LearningDue,
	}
}

// applySRSUpdate mutates the in-memory card to match a persisted update.
func applySRSUpdate(c *domain.Card, u domain.SRSUpdate) {
	c.EaseFactor = u.EaseFactor
	c.Reps = u.Reps
	c.IntervalDays = u.IntervalDays
	c.Due = u.Due
	c.Learning = u.Learning
	c.LearningStep = u.LearningStep
	c.LearningDue = u.LearningDue
}

// mapGrade maps the domain grade to the scheduler's grade scale.
func mapGrade(g domain.ReviewGrade) sm2.Grade {
	switch g {
	case domain.GradeAgain:
		return sm2.Again
	case domain.GradeHard:
		return sm2.Hard
	case domain.GradeGood:
		return sm2.Good
	case domain.GradeEasy:
		return sm2.Easy
	default:
		return sm2.Good
	}
}
