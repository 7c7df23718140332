package study

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// CardRecord is the portable JSON shape of one card. Timestamps travel
// as Unix milliseconds; zero means unset.
type CardRecord struct {
	Front        string  `json:"front"`
	Back         string  `json:"back"`
	Deck         string  `json:"deck,omitempty"`
	EaseFactor   float64 `json:"easeFactor,omitempty"`
	Reps         int     `json:"reps,omitempty"`
	IntervalDays int     `json:"interval,omitempty"`
	Due          int64   `json:"due,omitempty"`
	Learning     bool    `json:"learning,omitempty"`
	LearningStep int     `json:"learningStep,omitempty"`
	LearningDue  int64   `json:"learningDue,omitempty"`
	Suspended    bool    `json:"suspended,omitempty"`
	Flagged      bool    `json:"flagged,omitempty"`
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCards stores the records as cards owned by the student.
// Scheduling state in a record is honoured, so a backup restores
// mid-stream; records missing front or back are skipped, not fatal.
// All inserts commit atomically.
func (s *Service) ImportCards(ctx context.Context, code string, records []CardRecord) (ImportResult, error) {
	now := s.clock.Now()

	var res ImportResult
	cards := make([]*domain.Card, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.Front) == "" || strings.TrimSpace(rec.Back) == "" {
			res.Skipped++
			continue
		}
		cards = append(cards, cardFromRecord(code, rec, now))
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, c := range cards {
			if err := s.cards.Insert(ctx, c); err != nil {
				return fmt.Errorf("insert %q: %w", c.Front, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import cards: %w", err)
	}

	res.Imported = len(cards)
	s.log.InfoContext(ctx, "cards imported",
		slog.String("code", code),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// ExportCards returns the student's full collection, scheduling state
// included, in the import format.
func (s *Service) ExportCards(ctx context.Context, code string) ([]CardRecord, error) {
	cards, err := s.cards.ListAll(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("export cards: %w", err)
	}

	records := make([]CardRecord, 0, len(cards))
	for _, c := range cards {
		records = append(records, recordFromCard(c))
	}
	return records, nil
}

func cardFromRecord(code string, rec CardRecord, now time.Time) *domain.Card {
	c := domain.NewCard(code, rec.Front, rec.Back, rec.Deck, now)
	if rec.EaseFactor > 0 {
		c.EaseFactor = rec.EaseFactor
	}
	c.Reps = rec.Reps
	c.IntervalDays = rec.IntervalDays
	if rec.Due > 0 {
		c.Due = time.UnixMilli(rec.Due)
	}
	c.Learning = rec.Learning
	c.LearningStep = rec.LearningStep
	if rec.LearningDue > 0 {
		c.LearningDue = time.UnixMilli(rec.LearningDue)
	}
	c.Suspended = rec.Suspended
	c.Flagged = rec.Flagged
	return &c
}

func recordFromCard(c *domain.Card) CardRecord {
	rec := CardRecord{
		Front:        c.Front,
		Back:         c.Back,
		Deck:         c.Deck,
		EaseFactor:   c.EaseFactor,
		Reps:         c.Reps,
		IntervalDays: c.IntervalDays,
		Learning:     c.Learning,
		LearningStep: c.LearningStep,
		Suspended:    c.Suspended,
		Flagged:      c.Flagged,
	}
	if !c.Due.IsZero() {
		rec.Due = c.Due.UnixMilli()
	}
	if !c.LearningDue.IsZero() {
		rec.LearningDue = c.LearningDue.UnixMilli()
	}
	return rec
}
