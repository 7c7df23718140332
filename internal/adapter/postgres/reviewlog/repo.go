// Package reviewlog implements the review history repository using
// PostgreSQL. Rows are append-only.
package reviewlog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres"
	"github.com/mandarin-cards/studyd/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides review-log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create appends one graded review.
func (r *Repo) Create(ctx context.Context, log *domain.ReviewLog) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Insert("review_logs").
		Columns("id", "card_id", "student_code", "grade", "was_new", "reviewed_at").
		Values(log.ID, log.CardID, log.StudentCode, int(log.Grade), log.WasNew, log.ReviewedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create review log: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "review log", log.ID.String())
	}
	return nil
}
