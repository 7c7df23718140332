package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// Hand-rolled mocks in the moq shape: one Func field per method,
// recorded calls behind a mutex.

type cardRepoMock struct {
	mu sync.Mutex

	InsertFunc       func(ctx context.Context, card *domain.Card) error
	UpdateSRSFunc    func(ctx context.Context, code string, cardID uuid.UUID, upd domain.SRSUpdate) error
	SetSuspendedFunc func(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error
	SetFlaggedFunc   func(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error
	DueLearningFunc  func(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error)
	DueReviewFunc    func(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error)
	NewCardsFunc     func(ctx context.Context, code string, deck domain.DeckFilter, limit int) ([]*domain.Card, error)
	ListAllFunc      func(ctx context.Context, code string) ([]*domain.Card, error)
	CountAllFunc     func(ctx context.Context, code string) (int, error)
	CountDueFunc     func(ctx context.Context, code string, now time.Time) (int, error)

	insertCalls    []*domain.Card
	updateSRSCalls []struct {
		CardID uuid.UUID
		Upd    domain.SRSUpdate
	}
	dueReviewLimits []int
	newCardsLimits  []int
}

func (m *cardRepoMock) Insert(ctx context.Context, card *domain.Card) error {
	m.mu.Lock()
	m.insertCalls = append(m.insertCalls, card)
	m.mu.Unlock()
	if m.InsertFunc == nil {
		return nil
	}
	return m.InsertFunc(ctx, card)
}

func (m *cardRepoMock) InsertCalls() []*domain.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

func (m *cardRepoMock) UpdateSRS(ctx context.Context, code string, cardID uuid.UUID, upd domain.SRSUpdate) error {
	m.mu.Lock()
	m.updateSRSCalls = append(m.updateSRSCalls, struct {
		CardID uuid.UUID
		Upd    domain.SRSUpdate
	}{cardID, upd})
	m.mu.Unlock()
	if m.UpdateSRSFunc == nil {
		return nil
	}
	return m.UpdateSRSFunc(ctx, code, cardID, upd)
}

func (m *cardRepoMock) UpdateSRSCalls() []struct {
	CardID uuid.UUID
	Upd    domain.SRSUpdate
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateSRSCalls
}

func (m *cardRepoMock) SetSuspended(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error {
	return m.SetSuspendedFunc(ctx, code, cardID, suspended)
}

func (m *cardRepoMock) SetFlagged(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error {
	return m.SetFlaggedFunc(ctx, code, cardID, flagged)
}

func (m *cardRepoMock) DueLearning(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error) {
	if m.DueLearningFunc == nil {
		return nil, nil
	}
	return m.DueLearningFunc(ctx, code, deck, now, limit)
}

func (m *cardRepoMock) DueReview(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error) {
	m.mu.Lock()
	m.dueReviewLimits = append(m.dueReviewLimits, limit)
	m.mu.Unlock()
	if m.DueReviewFunc == nil {
		return nil, nil
	}
	return m.DueReviewFunc(ctx, code, deck, now, limit)
}

func (m *cardRepoMock) DueReviewLimits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dueReviewLimits
}

func (m *cardRepoMock) NewCards(ctx context.Context, code string, deck domain.DeckFilter, limit int) ([]*domain.Card, error) {
	m.mu.Lock()
	m.newCardsLimits = append(m.newCardsLimits, limit)
	m.mu.Unlock()
	if m.NewCardsFunc == nil {
		return nil, nil
	}
	return m.NewCardsFunc(ctx, code, deck, limit)
}

func (m *cardRepoMock) NewCardsLimits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newCardsLimits
}

func (m *cardRepoMock) ListAll(ctx context.Context, code string) ([]*domain.Card, error) {
	return m.ListAllFunc(ctx, code)
}

func (m *cardRepoMock) CountAll(ctx context.Context, code string) (int, error) {
	return m.CountAllFunc(ctx, code)
}

func (m *cardRepoMock) CountDue(ctx context.Context, code string, now time.Time) (int, error) {
	return m.CountDueFunc(ctx, code, now)
}

type accountRepoMock struct {
	mu sync.Mutex

	GetFunc            func(ctx context.Context, code string) (*domain.Account, error)
	UpdateCountersFunc func(ctx context.Context, code string, counters domain.DailyCounters) error
	MarkDeckSyncedFunc func(ctx context.Context, code string, deckName string) error

	updateCountersCalls []domain.DailyCounters
	markSyncedCalls     []string
}

func (m *accountRepoMock) Get(ctx context.Context, code string) (*domain.Account, error) {
	return m.GetFunc(ctx, code)
}

func (m *accountRepoMock) UpdateCounters(ctx context.Context, code string, counters domain.DailyCounters) error {
	m.mu.Lock()
	m.updateCountersCalls = append(m.updateCountersCalls, counters)
	m.mu.Unlock()
	if m.UpdateCountersFunc == nil {
		return nil
	}
	return m.UpdateCountersFunc(ctx, code, counters)
}

func (m *accountRepoMock) UpdateCountersCalls() []domain.DailyCounters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCountersCalls
}

func (m *accountRepoMock) MarkDeckSynced(ctx context.Context, code string, deckName string) error {
	m.mu.Lock()
	m.markSyncedCalls = append(m.markSyncedCalls, deckName)
	m.mu.Unlock()
	if m.MarkDeckSyncedFunc == nil {
		return nil
	}
	return m.MarkDeckSyncedFunc(ctx, code, deckName)
}

func (m *accountRepoMock) MarkDeckSyncedCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markSyncedCalls
}

type reviewLogRepoMock struct {
	mu sync.Mutex

	CreateFunc func(ctx context.Context, log *domain.ReviewLog) error

	createCalls []*domain.ReviewLog
}

func (m *reviewLogRepoMock) Create(ctx context.Context, log *domain.ReviewLog) error {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, log)
	m.mu.Unlock()
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, log)
}

func (m *reviewLogRepoMock) CreateCalls() []*domain.ReviewLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

type deckRepoMock struct {
	ListPublishedFunc func(ctx context.Context) ([]*domain.Deck, error)
	CardsFunc         func(ctx context.Context, deckID uuid.UUID) ([]*domain.DeckCard, error)
}

func (m *deckRepoMock) ListPublished(ctx context.Context) ([]*domain.Deck, error) {
	return m.ListPublishedFunc(ctx)
}

func (m *deckRepoMock) Cards(ctx context.Context, deckID uuid.UUID) ([]*domain.DeckCard, error) {
	return m.CardsFunc(ctx, deckID)
}

// txManagerMock runs the function inline, or fails every transaction
// when Err is set.
type txManagerMock struct {
	Err error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
