package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDeck is the deck tag assumed for cards stored without one.
// Inherited default from the first class rollout; changing it would
// silently re-file every untagged card.
const DefaultDeck = "HSK2"

// DefaultEaseFactor is the SM-2 easiness factor assigned to new cards.
const DefaultEaseFactor = 2.5

// Card is one unit of study material owned by a single student account.
// Front and Back are opaque text; the scheduler never interprets them.
type Card struct {
	ID          uuid.UUID
	StudentCode string
	Front       string
	Back        string
	Deck        string

	// SM-2 review-tier state.
	EaseFactor   float64
	Reps         int
	IntervalDays int
	Due          time.Time

	// Learning-tier state; Step and LearningDue are meaningful only
	// while Learning is true.
	Learning     bool
	LearningStep int
	LearningDue  time.Time

	Suspended bool
	Flagged   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCard returns a card with the "new card" defaults: due immediately,
// never reviewed, not in the learning tier.
func NewCard(studentCode, front, back, deck string, now time.Time) Card {
	return Card{
		ID:          uuid.New(),
		StudentCode: studentCode,
		Front:       front,
		Back:        back,
		Deck:        deck,
		EaseFactor:  DefaultEaseFactor,
		Due:         now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EffectiveDeck returns the card's deck tag, substituting DefaultDeck
// when none is stored.
func (c *Card) EffectiveDeck() string {
	if c.Deck == "" {
		return DefaultDeck
	}
	return c.Deck
}

// IsNew reports whether grading this card counts against the daily
// new-card quota: first-ever exposure, not a learning-step repetition.
func (c *Card) IsNew() bool {
	return c.Reps == 0 && !c.Learning
}

// DueInLearning reports whether the card is selectable for the
// learning tier at the given time.
func (c *Card) DueInLearning(now time.Time) bool {
	return c.Learning && !c.LearningDue.After(now)
}

// DueInReview reports whether the card is selectable for the review
// tier at the given time.
func (c *Card) DueInReview(now time.Time) bool {
	return c.Reps > 0 && !c.Learning && !c.Due.After(now)
}

// SRSUpdate holds the scheduling fields written back after a graded
// review. Applied as a partial update; front/back/deck are untouched.
type SRSUpdate struct {
	EaseFactor   float64
	Reps         int
	IntervalDays int
	Due          time.Time
	Learning     bool
	LearningStep int
	LearningDue  time.Time
}

// ReviewLog records a single graded review. Practice-only replays are
// never logged; they do not alter schedule or quota.
type ReviewLog struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	StudentCode string
	Grade       ReviewGrade
	WasNew      bool
	ReviewedAt  time.Time
}

// NewReviewLog builds a log row for a just-graded review.
func NewReviewLog(cardID uuid.UUID, studentCode string, grade ReviewGrade, wasNew bool, reviewedAt time.Time) *ReviewLog {
	return &ReviewLog{
		ID:          uuid.New(),
		CardID:      cardID,
		StudentCode: studentCode,
		Grade:       grade,
		WasNew:      wasNew,
		ReviewedAt:  reviewedAt,
	}
}
