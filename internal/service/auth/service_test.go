package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandarin-cards/studyd/internal/domain"
)

type accountRepoMock struct {
	GetFunc        func(ctx context.Context, code string) (*domain.Account, error)
	CreateFunc     func(ctx context.Context, account *domain.Account) error
	TouchLoginFunc func(ctx context.Context, code string, at time.Time) error

	createCalls []*domain.Account
	touchCalls  []string
}

func (m *accountRepoMock) Get(ctx context.Context, code string) (*domain.Account, error) {
	return m.GetFunc(ctx, code)
}

func (m *accountRepoMock) Create(ctx context.Context, account *domain.Account) error {
	m.createCalls = append(m.createCalls, account)
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, account)
}

func (m *accountRepoMock) TouchLogin(ctx context.Context, code string, at time.Time) error {
	m.touchCalls = append(m.touchCalls, code)
	if m.TouchLoginFunc == nil {
		return nil
	}
	return m.TouchLoginFunc(ctx, code, at)
}

type codeRepoMock struct {
	LookupFunc func(ctx context.Context, code string) (*domain.ClassCode, error)
}

func (m *codeRepoMock) Lookup(ctx context.Context, code string) (*domain.ClassCode, error) {
	return m.LookupFunc(ctx, code)
}

type tokenManagerMock struct {
	GenerateFunc func(code string, role string) (string, error)
}

func (m *tokenManagerMock) Generate(code string, role string) (string, error) {
	if m.GenerateFunc == nil {
		return "token-" + code + "-" + role, nil
	}
	return m.GenerateFunc(code, role)
}

func newService(accounts *accountRepoMock, codes *codeRepoMock) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	return NewService(log, accounts, codes, &tokenManagerMock{}, clock)
}

func whitelisted(teacher bool) *codeRepoMock {
	return &codeRepoMock{
		LookupFunc: func(ctx context.Context, code string) (*domain.ClassCode, error) {
			return &domain.ClassCode{Code: code, IsTeacher: teacher}, nil
		},
	}
}

func TestLogin_FirstLoginProvisionsAccount(t *testing.T) {
	t.Parallel()

	accounts := &accountRepoMock{
		GetFunc: func(ctx context.Context, code string) (*domain.Account, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newService(accounts, whitelisted(false))

	res, err := svc.Login(context.Background(), LoginInput{Code: "mand0042"})
	require.NoError(t, err)

	assert.Equal(t, "token-Mand0042-student", res.Token)
	require.Len(t, accounts.createCalls, 1)
	created := accounts.createCalls[0]
	assert.Equal(t, "Mand0042", created.Code)
	assert.False(t, created.IsTeacher)
	assert.Equal(t, "2024-03-15", created.Counters.Date)
	assert.Empty(t, accounts.touchCalls)
}

func TestLogin_ReturningAccount(t *testing.T) {
	t.Parallel()

	accounts := &accountRepoMock{
		GetFunc: func(ctx context.Context, code string) (*domain.Account, error) {
			return &domain.Account{Code: code, IsTeacher: true}, nil
		},
	}
	svc := newService(accounts, whitelisted(true))

	res, err := svc.Login(context.Background(), LoginInput{Code: "MAND0001"})
	require.NoError(t, err)

	assert.Equal(t, "token-Mand0001-teacher", res.Token)
	assert.Empty(t, accounts.createCalls)
	assert.Equal(t, []string{"Mand0001"}, accounts.touchCalls)
	assert.False(t, res.Account.LastLoginAt.IsZero())
}

func TestLogin_UnknownCode(t *testing.T) {
	t.Parallel()

	codes := &codeRepoMock{
		LookupFunc: func(ctx context.Context, code string) (*domain.ClassCode, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newService(&accountRepoMock{}, codes)

	_, err := svc.Login(context.Background(), LoginInput{Code: "Mand9999"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_MalformedCodes(t *testing.T) {
	t.Parallel()

	codes := &codeRepoMock{
		LookupFunc: func(ctx context.Context, code string) (*domain.ClassCode, error) {
			t.Fatal("whitelist must not be consulted for malformed codes")
			return nil, nil
		},
	}
	svc := newService(&accountRepoMock{}, codes)

	for _, code := range []string{"", "Mand123", "Mand12345", "Span0042", "Mandabcd", "0042"} {
		_, err := svc.Login(context.Background(), LoginInput{Code: code})
		assert.ErrorIs(t, err, domain.ErrValidation, "code %q", code)
	}
}

func TestLogin_WhitelistFailure(t *testing.T) {
	t.Parallel()

	codes := &codeRepoMock{
		LookupFunc: func(ctx context.Context, code string) (*domain.ClassCode, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newService(&accountRepoMock{}, codes)

	_, err := svc.Login(context.Background(), LoginInput{Code: "Mand0042"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Mand0042", want: "Mand0042"},
		{in: "mand0042", want: "Mand0042"},
		{in: "MAND0042", want: "Mand0042"},
		{in: "  Mand0042  ", want: "Mand0042"},
		{in: "Mand004", wantErr: true},
		{in: "Mand00421", wantErr: true},
		{in: "mand 0042", wantErr: true},
	}
	for _, tt := range tests {
		got, err := LoginInput{Code: tt.in}.Normalize()
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
