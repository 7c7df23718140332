package testhelper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/domain"
)

var codeSeq atomic.Int64

// uniqueCode returns a fresh class code so tests never collide on the
// shared database.
func uniqueCode() string {
	return fmt.Sprintf("Mand%04d", codeSeq.Add(1))
}

// SeedAccount creates a whitelisted class code plus its account and
// returns the account. Counters start zeroed for today (UTC).
func SeedAccount(t *testing.T, pool *pgxpool.Pool, isTeacher bool) domain.Account {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		Code:        uniqueCode(),
		IsTeacher:   isTeacher,
		Counters:    domain.ResetFor(now.Format("2006-01-02")),
		SyncedDecks: []string{},
		LastLoginAt: now,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO class_codes (code, is_teacher, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO NOTHING`,
		account.Code, account.IsTeacher, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert class_code: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO accounts (code, is_teacher, counter_date, new_used, review_used, interactions, synced_decks, last_login_at, created_at)
		 VALUES ($1, $2, $3, 0, 0, 0, $4, $5, $5)`,
		account.Code, account.IsTeacher, account.Counters.Date, account.SyncedDecks, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert account: %v", err)
	}

	return account
}

// SeedCard inserts a card for the account and returns it. The mutate
// callback adjusts the card before insertion.
func SeedCard(t *testing.T, pool *pgxpool.Pool, code string, mutate func(*domain.Card)) domain.Card {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	card := domain.NewCard(code, "front-"+uuid.New().String()[:8], "back", "", now)
	if mutate != nil {
		mutate(&card)
	}

	var learningDue *time.Time
	if !card.LearningDue.IsZero() {
		learningDue = &card.LearningDue
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO cards (id, student_code, front, back, deck, ease_factor, reps, interval_days,
		                    due, learning, learning_step, learning_due, suspended, flagged, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		card.ID, card.StudentCode, card.Front, card.Back, card.Deck,
		card.EaseFactor, card.Reps, card.IntervalDays, card.Due,
		card.Learning, card.LearningStep, learningDue,
		card.Suspended, card.Flagged, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCard insert card: %v", err)
	}

	return card
}

// SeedDeck creates a deck with the given cards, published by the given
// teacher account.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, publishedBy, name string, published bool, fronts ...string) domain.Deck {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	deck := domain.Deck{
		ID:          uuid.New(),
		Name:        name,
		PublishedBy: publishedBy,
		Published:   published,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO decks (id, name, published_by, published, created_at) VALUES ($1, $2, $3, $4, $5)`,
		deck.ID, deck.Name, deck.PublishedBy, deck.Published, deck.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck insert deck: %v", err)
	}

	for i, front := range fronts {
		_, err := pool.Exec(ctx,
			`INSERT INTO deck_cards (id, deck_id, front, back, position) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), deck.ID, front, front+"-back", i,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedDeck insert deck_card[%d]: %v", i, err)
		}
	}

	return deck
}
