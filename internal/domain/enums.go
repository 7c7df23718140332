package domain

import "strings"

// ReviewGrade is the user's self-assessed recall quality on the SM-2
// 1..5 scale. Grade 2 is never produced: the four buttons map to
// 1 (Again), 3 (Hard), 4 (Good), 5 (Easy). The gap is inherited from
// the original grade scale and kept as-is.
type ReviewGrade int

const (
	GradeAgain ReviewGrade = 1
	GradeHard  ReviewGrade = 3
	GradeGood  ReviewGrade = 4
	GradeEasy  ReviewGrade = 5
)

func (g ReviewGrade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

func (g ReviewGrade) String() string {
	switch g {
	case GradeAgain:
		return "AGAIN"
	case GradeHard:
		return "HARD"
	case GradeGood:
		return "GOOD"
	case GradeEasy:
		return "EASY"
	}
	return "UNKNOWN"
}

// StudyMode selects the daily-cap profile.
type StudyMode string

const (
	// ModeA allows more reviews and fills the session with practice
	// replays until the interaction target is met.
	ModeA StudyMode = "A"
	// ModeB uses tighter caps and never practice-fills.
	ModeB StudyMode = "B"
)

func (m StudyMode) IsValid() bool {
	return m == ModeA || m == ModeB
}

// Caps are the per-day ceilings derived from the study mode. They are
// never persisted.
type Caps struct {
	NewCap             int
	ReviewCap          int
	TargetInteractions int
}

// Caps returns the cap profile for the mode. Unknown modes fall back
// to Mode B's conservative profile.
func (m StudyMode) Caps() Caps {
	if m == ModeA {
		return Caps{NewCap: 20, ReviewCap: 50, TargetInteractions: 100}
	}
	return Caps{NewCap: 20, ReviewCap: 30, TargetInteractions: 50}
}

// PracticeFills reports whether exhausted queues are refilled with
// already-seen cards until the interaction target is reached.
func (m StudyMode) PracticeFills() bool {
	return m == ModeA
}

// DeckFilter selects which decks a study session draws from.
// The values "ALL" and "FULL" both match every card; any other value
// matches cards whose effective deck equals it.
type DeckFilter string

const (
	DeckAll  DeckFilter = "ALL"
	DeckFull DeckFilter = "FULL"
)

// MatchesAll reports whether the filter admits every deck.
func (f DeckFilter) MatchesAll() bool {
	s := strings.ToUpper(string(f))
	return s == string(DeckAll) || s == string(DeckFull) || s == ""
}

// Matches reports whether a card with the given effective deck passes
// the filter.
func (f DeckFilter) Matches(deck string) bool {
	return f.MatchesAll() || string(f) == deck
}

// SchedulerVariant selects between the two scheduling regimes the app
// shipped with across revisions.
type SchedulerVariant string

const (
	// VariantLearningSteps layers Anki-style short-term learning steps
	// on top of SM-2; lapses re-enter the learning ladder.
	VariantLearningSteps SchedulerVariant = "learning-steps"
	// VariantPlainSM2 schedules with bare SM-2; lapses go straight to
	// a one-day interval.
	VariantPlainSM2 SchedulerVariant = "plain-sm2"
)

func (v SchedulerVariant) IsValid() bool {
	return v == VariantLearningSteps || v == VariantPlainSM2
}
