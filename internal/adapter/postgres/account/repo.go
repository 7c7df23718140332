// Package account implements the account and class-code whitelist
// repositories using PostgreSQL.
package account

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres"
	"github.com/mandarin-cards/studyd/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the account behind a class code.
func (r *Repo) Get(ctx context.Context, code string) (*domain.Account, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select(
		"code", "is_teacher",
		"counter_date", "new_used", "review_used", "interactions",
		"synced_decks", "last_login_at", "created_at",
	).From("accounts").
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get account: %w", err)
	}

	var a domain.Account
	err = querier.QueryRow(ctx, query, args...).Scan(
		&a.Code, &a.IsTeacher,
		&a.Counters.Date, &a.Counters.NewUsed, &a.Counters.ReviewUsed, &a.Counters.Interactions,
		&a.SyncedDecks, &a.LastLoginAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "account", code)
	}
	return &a, nil
}

// Create stores a freshly provisioned account.
func (r *Repo) Create(ctx context.Context, account *domain.Account) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Insert("accounts").
		Columns("code", "is_teacher",
			"counter_date", "new_used", "review_used", "interactions",
			"synced_decks", "last_login_at", "created_at").
		Values(account.Code, account.IsTeacher,
			account.Counters.Date, account.Counters.NewUsed, account.Counters.ReviewUsed, account.Counters.Interactions,
			account.SyncedDecks, account.LastLoginAt, account.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create account: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "account", account.Code)
	}
	return nil
}

// UpdateCounters overwrites the daily counters.
func (r *Repo) UpdateCounters(ctx context.Context, code string, counters domain.DailyCounters) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("accounts").
		Set("counter_date", counters.Date).
		Set("new_used", counters.NewUsed).
		Set("review_used", counters.ReviewUsed).
		Set("interactions", counters.Interactions).
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update counters: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "account", code)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", code, domain.ErrNotFound)
	}
	return nil
}

// TouchLogin stamps the last successful login.
func (r *Repo) TouchLogin(ctx context.Context, code string, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("accounts").
		Set("last_login_at", at).
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch login: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "account", code)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", code, domain.ErrNotFound)
	}
	return nil
}

// MarkDeckSynced appends a deck name to the account's synced set.
// Appending the same deck twice is a no-op.
func (r *Repo) MarkDeckSynced(ctx context.Context, code string, deckName string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	// array_append with a containment guard keeps the set semantics
	// inside a single statement.
	const query = `
UPDATE accounts
SET synced_decks = array_append(synced_decks, $2)
WHERE code = $1 AND NOT ($2 = ANY(synced_decks))`

	if _, err := querier.Exec(ctx, query, code, deckName); err != nil {
		return postgres.MapError(err, "account", code)
	}
	return nil
}

// Lookup checks a class code against the enrolment whitelist.
func (r *Repo) Lookup(ctx context.Context, code string) (*domain.ClassCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("code", "is_teacher", "created_at").
		From("class_codes").
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lookup code: %w", err)
	}

	var cc domain.ClassCode
	if err := querier.QueryRow(ctx, query, args...).Scan(&cc.Code, &cc.IsTeacher, &cc.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "class code", code)
	}
	return &cc, nil
}

// ListProgress aggregates the teacher overview in one query: per
// student account, collection size, cards actionable now, and today's
// counters (zeroed when stale, same as the lazy rollover would).
func (r *Repo) ListProgress(ctx context.Context, now time.Time, today string) ([]*domain.StudentProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const query = `
SELECT a.code,
       count(c.id) AS total_cards,
       count(c.id) FILTER (
           WHERE NOT c.suspended AND (
               (c.learning AND c.learning_due <= $1) OR
               (NOT c.learning AND c.reps > 0 AND c.due <= $1)
           )
       ) AS due_now,
       CASE WHEN a.counter_date = $2 THEN a.new_used ELSE 0 END,
       CASE WHEN a.counter_date = $2 THEN a.review_used ELSE 0 END,
       CASE WHEN a.counter_date = $2 THEN a.interactions ELSE 0 END,
       a.last_login_at
FROM accounts a
LEFT JOIN cards c ON c.student_code = a.code
WHERE NOT a.is_teacher
GROUP BY a.code, a.counter_date, a.new_used, a.review_used, a.interactions, a.last_login_at
ORDER BY a.code`

	rows, err := querier.Query(ctx, query, now, today)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.StudentProgress
	for rows.Next() {
		var p domain.StudentProgress
		err := rows.Scan(&p.Code, &p.TotalCards, &p.DueNow,
			&p.NewToday, &p.ReviewsToday, &p.Interactions, &p.LastLoginAt)
		if err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}
