package card_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres/card"
	"github.com/mandarin-cards/studyd/internal/adapter/postgres/testhelper"
	"github.com/mandarin-cards/studyd/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*card.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return card.New(pool), pool
}

func TestRepo_Insert_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.NewCard(account.Code, "你好", "hello", "", now)

	if err := repo.Insert(ctx, &c); err != nil {
		t.Fatalf("Insert: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, account.Code, c.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Front != "你好" || got.Back != "hello" {
		t.Errorf("content mismatch: got %q/%q", got.Front, got.Back)
	}
	if got.EaseFactor != domain.DefaultEaseFactor {
		t.Errorf("EaseFactor mismatch: got %f, want %f", got.EaseFactor, domain.DefaultEaseFactor)
	}
	if !got.IsNew() {
		t.Error("expected a new card")
	}
	if got.LearningDue.IsZero() != true {
		t.Errorf("LearningDue should be zero, got %v", got.LearningDue)
	}
}

func TestRepo_GetByID_WrongOwner(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := testhelper.SeedAccount(t, pool, false)
	other := testhelper.SeedAccount(t, pool, false)
	c := testhelper.SeedCard(t, pool, owner.Code, nil)

	if _, err := repo.GetByID(ctx, other.Code, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign card, got %v", err)
	}
}

func TestRepo_UpdateSRS_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)
	c := testhelper.SeedCard(t, pool, account.Code, nil)

	due := time.Now().UTC().Add(6 * 24 * time.Hour).Truncate(time.Microsecond)
	upd := domain.SRSUpdate{
		EaseFactor:   2.36,
		Reps:         2,
		IntervalDays: 6,
		Due:          due,
	}
	if err := repo.UpdateSRS(ctx, account.Code, c.ID, upd); err != nil {
		t.Fatalf("UpdateSRS: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, account.Code, c.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.EaseFactor != 2.36 || got.Reps != 2 || got.IntervalDays != 6 {
		t.Errorf("SRS mismatch: got ef=%f reps=%d interval=%d", got.EaseFactor, got.Reps, got.IntervalDays)
	}
	if !got.Due.Equal(due) {
		t.Errorf("Due mismatch: got %v, want %v", got.Due, due)
	}

	if err := repo.UpdateSRS(ctx, account.Code, uuid.New(), upd); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown card, got %v", err)
	}
}

func TestRepo_Tiers(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)
	now := time.Now().UTC().Truncate(time.Microsecond)

	// One card per tier, plus a suspended one that must never surface.
	learning := testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Learning = true
		c.LearningDue = now.Add(-time.Minute)
	})
	review := testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Reps = 3
		c.IntervalDays = 6
		c.Due = now.Add(-time.Hour)
	})
	fresh := testhelper.SeedCard(t, pool, account.Code, nil)
	testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Suspended = true
	})

	gotLearning, err := repo.DueLearning(ctx, account.Code, domain.DeckAll, now, 10)
	if err != nil {
		t.Fatalf("DueLearning: %v", err)
	}
	if len(gotLearning) != 1 || gotLearning[0].ID != learning.ID {
		t.Errorf("DueLearning: got %d cards, want the learning card", len(gotLearning))
	}

	gotReview, err := repo.DueReview(ctx, account.Code, domain.DeckAll, now, 10)
	if err != nil {
		t.Fatalf("DueReview: %v", err)
	}
	if len(gotReview) != 1 || gotReview[0].ID != review.ID {
		t.Errorf("DueReview: got %d cards, want the review card", len(gotReview))
	}

	gotNew, err := repo.NewCards(ctx, account.Code, domain.DeckAll, 10)
	if err != nil {
		t.Fatalf("NewCards: %v", err)
	}
	if len(gotNew) != 1 || gotNew[0].ID != fresh.ID {
		t.Errorf("NewCards: got %d cards, want the fresh card", len(gotNew))
	}

	count, err := repo.CountDue(ctx, account.Code, now)
	if err != nil {
		t.Fatalf("CountDue: %v", err)
	}
	if count != 2 {
		t.Errorf("CountDue: got %d, want 2 (learning + review)", count)
	}

	total, err := repo.CountAll(ctx, account.Code)
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 4 {
		t.Errorf("CountAll: got %d, want 4", total)
	}
}

func TestRepo_DeckFilter(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)

	// An untagged card counts as the default deck.
	untagged := testhelper.SeedCard(t, pool, account.Code, nil)
	tagged := testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Deck = "HSK3"
	})

	all, err := repo.NewCards(ctx, account.Code, domain.DeckAll, 10)
	if err != nil {
		t.Fatalf("NewCards ALL: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ALL filter: got %d cards, want 2", len(all))
	}

	hsk2, err := repo.NewCards(ctx, account.Code, domain.DeckFilter(domain.DefaultDeck), 10)
	if err != nil {
		t.Fatalf("NewCards HSK2: %v", err)
	}
	if len(hsk2) != 1 || hsk2[0].ID != untagged.ID {
		t.Errorf("default-deck filter: got %d cards, want the untagged card", len(hsk2))
	}

	hsk3, err := repo.NewCards(ctx, account.Code, domain.DeckFilter("HSK3"), 10)
	if err != nil {
		t.Fatalf("NewCards HSK3: %v", err)
	}
	if len(hsk3) != 1 || hsk3[0].ID != tagged.ID {
		t.Errorf("HSK3 filter: got %d cards, want the tagged card", len(hsk3))
	}
}

func TestRepo_LearningOrder(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)
	now := time.Now().UTC().Truncate(time.Microsecond)

	second := testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Learning = true
		c.LearningDue = now.Add(-time.Minute)
	})
	first := testhelper.SeedCard(t, pool, account.Code, func(c *domain.Card) {
		c.Learning = true
		c.LearningDue = now.Add(-10 * time.Minute)
	})

	got, err := repo.DueLearning(ctx, account.Code, domain.DeckAll, now, 10)
	if err != nil {
		t.Fatalf("DueLearning: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d cards, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Error("learning cards not ordered by learning_due ascending")
	}
}

func TestRepo_SetSuspended(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	account := testhelper.SeedAccount(t, pool, false)
	c := testhelper.SeedCard(t, pool, account.Code, nil)

	if err := repo.SetSuspended(ctx, account.Code, c.ID, true); err != nil {
		t.Fatalf("SetSuspended: %v", err)
	}

	got, err := repo.GetByID(ctx, account.Code, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Suspended {
		t.Error("card should be suspended")
	}

	fresh, err := repo.NewCards(ctx, account.Code, domain.DeckAll, 10)
	if err != nil {
		t.Fatalf("NewCards: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("suspended card surfaced in new tier: %d cards", len(fresh))
	}
}
