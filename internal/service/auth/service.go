package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// accountRepo defines the account repository interface needed by the
// auth service.
type accountRepo interface {
	Get(ctx context.Context, code string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	TouchLogin(ctx context.Context, code string, at time.Time) error
}

// codeRepo checks class codes against the enrolment whitelist.
type codeRepo interface {
	Lookup(ctx context.Context, code string) (*domain.ClassCode, error)
}

// tokenManager issues session tokens after a successful login.
type tokenManager interface {
	Generate(code string, role string) (string, error)
}

// Service implements class-code authentication: whitelist check,
// lazy account provisioning, session token issue.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	codes    codeRepo
	tokens   tokenManager
	clock    clockwork.Clock
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	codes codeRepo,
	tokens tokenManager,
	clock clockwork.Clock,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		accounts: accounts,
		codes:    codes,
		tokens:   tokens,
		clock:    clock,
	}
}
