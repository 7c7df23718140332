package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the durable record behind one class code. It carries the
// daily counters and the set of shared decks already copied in.
type Account struct {
	Code        string
	IsTeacher   bool
	Counters    DailyCounters
	SyncedDecks []string
	LastLoginAt time.Time
	CreatedAt   time.Time
}

// DailyCounters tracks per-day study activity for one account. The
// record is valid only for the calendar day in Date; a read on a stale
// record must reset all three counters before use.
type DailyCounters struct {
	Date         string `json:"date"` // local calendar day, "2006-01-02"
	NewUsed      int    `json:"newUsed"`
	ReviewUsed   int    `json:"reviewUsed"`
	Interactions int    `json:"interactions"`
}

// ResetFor returns zeroed counters stamped with the given day.
func ResetFor(day string) DailyCounters {
	return DailyCounters{Date: day}
}

// Stale reports whether the counters belong to a day other than today.
func (c DailyCounters) Stale(today string) bool {
	return c.Date != today
}

// Remaining holds how much of each daily cap is still unused.
type Remaining struct {
	NewLeft    int `json:"newLeft"`
	ReviewLeft int `json:"reviewLeft"`
}

// Deck is a named card collection published by a teacher and copied
// into student accounts on sync.
type Deck struct {
	ID          uuid.UUID
	Name        string
	PublishedBy string
	Published   bool
	CreatedAt   time.Time
}

// DeckCard is the source material of a published deck. On sync each
// row becomes a fresh student card with new-card defaults.
type DeckCard struct {
	ID     uuid.UUID
	DeckID uuid.UUID
	Front  string
	Back   string
}

// StudentProgress is one row of the teacher overview.
type StudentProgress struct {
	Code         string
	TotalCards   int
	DueNow       int
	NewToday     int
	ReviewsToday int
	Interactions int
	LastLoginAt  time.Time
}

// ClassCode is one row of the enrolment whitelist. Only whitelisted
// codes can log in; the teacher flag carries over to the account on
// first login.
type ClassCode struct {
	Code      string
	IsTeacher bool
	CreatedAt time.Time
}
