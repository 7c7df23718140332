package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalauth "github.com/mandarin-cards/studyd/internal/auth"
	"github.com/mandarin-cards/studyd/internal/domain"
)

// AuthResult is what a successful login returns.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

// Login authenticates a class code against the whitelist and returns a
// session token. The first login for a code provisions its account;
// later logins just refresh the last-login stamp. Malformed codes fail
// validation before the whitelist is consulted; unknown codes come back
// as ErrUnauthorized.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	code, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	entry, err := s.codes.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown class code", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.Login lookup code: %w", err)
	}

	now := s.clock.Now()

	account, err := s.accounts.Get(ctx, code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		account = &domain.Account{
			Code:        code,
			IsTeacher:   entry.IsTeacher,
			Counters:    domain.ResetFor(now.UTC().Format("2006-01-02")),
			LastLoginAt: now,
			CreatedAt:   now,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("auth.Login create account: %w", err)
		}
		s.log.InfoContext(ctx, "account provisioned", slog.String("code", code))
	case err != nil:
		return nil, fmt.Errorf("auth.Login get account: %w", err)
	default:
		if err := s.accounts.TouchLogin(ctx, code, now); err != nil {
			return nil, fmt.Errorf("auth.Login touch login: %w", err)
		}
		account.LastLoginAt = now
	}

	role := internalauth.RoleStudent
	if account.IsTeacher {
		role = internalauth.RoleTeacher
	}
	token, err := s.tokens.Generate(code, role)
	if err != nil {
		return nil, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "logged in",
		slog.String("code", code),
		slog.Bool("teacher", account.IsTeacher))

	return &AuthResult{Token: token, Account: account}, nil
}
