package study

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/internal/service/study/sm2"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	Insert(ctx context.Context, card *domain.Card) error
	UpdateSRS(ctx context.Context, code string, cardID uuid.UUID, upd domain.SRSUpdate) error
	SetSuspended(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error
	SetFlagged(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error
	DueLearning(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error)
	DueReview(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error)
	NewCards(ctx context.Context, code string, deck domain.DeckFilter, limit int) ([]*domain.Card, error)
	ListAll(ctx context.Context, code string) ([]*domain.Card, error)
	CountAll(ctx context.Context, code string) (int, error)
	CountDue(ctx context.Context, code string, now time.Time) (int, error)
}

type accountRepo interface {
	Get(ctx context.Context, code string) (*domain.Account, error)
	UpdateCounters(ctx context.Context, code string, counters domain.DailyCounters) error
	MarkDeckSynced(ctx context.Context, code string, deckName string) error
}

type reviewLogRepo interface {
	Create(ctx context.Context, log *domain.ReviewLog) error
}

type deckRepo interface {
	ListPublished(ctx context.Context) ([]*domain.Deck, error)
	Cards(ctx context.Context, deckID uuid.UUID) ([]*domain.DeckCard, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Options holds the study policy knobs resolved from configuration.
type Options struct {
	Scheduler sm2.Config
	Mode      domain.StudyMode
	Timezone  *time.Location

	// FetchCeiling bounds every tier query; learning-tier cards are
	// exempt from daily caps but not from this.
	FetchCeiling int
}

// Service implements the study business logic: queue building, the
// session state machine, grading, quota tracking, deck sync, and
// bulk import/export.
type Service struct {
	cards    cardRepo
	accounts accountRepo
	reviews  reviewLogRepo
	decks    deckRepo
	tx       txManager
	log      *slog.Logger
	clock    clockwork.Clock
	opts     Options

	// shuffle permutes the review+new tail of a queue. Swappable so
	// tests can pin the order.
	shuffle func(n int, swap func(i, j int))

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a new study service.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	accounts accountRepo,
	reviews reviewLogRepo,
	decks deckRepo,
	tx txManager,
	clock clockwork.Clock,
	opts Options,
) *Service {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.FetchCeiling <= 0 {
		opts.FetchCeiling = 100
	}
	return &Service{
		cards:    cards,
		accounts: accounts,
		reviews:  reviews,
		decks:    decks,
		tx:       tx,
		log:      log.With("service", "study"),
		clock:    clock,
		opts:     opts,
		shuffle:  rand.Shuffle,
		sessions: make(map[string]*Session),
	}
}
