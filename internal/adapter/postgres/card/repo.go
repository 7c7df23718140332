// Package card implements the card repository using PostgreSQL.
// Queries are built with squirrel; tier selection encodes the same
// predicates the domain methods DueInLearning/DueInReview/IsNew use.
package card

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres"
	"github.com/mandarin-cards/studyd/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func selectCards() sq.SelectBuilder {
	return psql.Select(
		"id", "student_code", "front", "back", "deck",
		"ease_factor", "reps", "interval_days", "due",
		"learning", "learning_step", "learning_due",
		"suspended", "flagged", "created_at", "updated_at",
	).From("cards")
}

// deckPredicate narrows a query to the filter's deck. Cards stored
// with an empty deck count as the default deck, same as
// domain.Card.EffectiveDeck.
func deckPredicate(b sq.SelectBuilder, deck domain.DeckFilter) sq.SelectBuilder {
	if deck.MatchesAll() {
		return b
	}
	return b.Where(sq.Expr("COALESCE(NULLIF(deck, ''), ?) = ?", domain.DefaultDeck, string(deck)))
}

// GetByID returns a card by primary key filtered by owner.
func (r *Repo) GetByID(ctx context.Context, code string, cardID uuid.UUID) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := selectCards().
		Where(sq.Eq{"id": cardID, "student_code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get card: %w", err)
	}

	card, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "card", cardID.String())
	}
	return card, nil
}

// Insert stores a new card.
func (r *Repo) Insert(ctx context.Context, card *domain.Card) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Insert("cards").
		Columns("id", "student_code", "front", "back", "deck",
			"ease_factor", "reps", "interval_days", "due",
			"learning", "learning_step", "learning_due",
			"suspended", "flagged", "created_at", "updated_at").
		Values(card.ID, card.StudentCode, card.Front, card.Back, card.Deck,
			card.EaseFactor, card.Reps, card.IntervalDays, card.Due,
			card.Learning, card.LearningStep, nullTime(card.LearningDue),
			card.Suspended, card.Flagged, card.CreatedAt, card.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert card: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "card", card.ID.String())
	}
	return nil
}

// UpdateSRS writes back the scheduling fields after a graded review.
func (r *Repo) UpdateSRS(ctx context.Context, code string, cardID uuid.UUID, upd domain.SRSUpdate) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("cards").
		Set("ease_factor", upd.EaseFactor).
		Set("reps", upd.Reps).
		Set("interval_days", upd.IntervalDays).
		Set("due", upd.Due).
		Set("learning", upd.Learning).
		Set("learning_step", upd.LearningStep).
		Set("learning_due", nullTime(upd.LearningDue)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": cardID, "student_code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update srs: %w", err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "card", cardID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	return nil
}

// SetSuspended toggles the suspended flag.
func (r *Repo) SetSuspended(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error {
	return r.setFlag(ctx, code, cardID, "suspended", suspended)
}

// SetFlagged toggles the attention flag.
func (r *Repo) SetFlagged(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error {
	return r.setFlag(ctx, code, cardID, "flagged", flagged)
}

func (r *Repo) setFlag(ctx context.Context, code string, cardID uuid.UUID, column string, value bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("cards").
		Set(column, value).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": cardID, "student_code": code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set %s: %w", column, err)
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "card", cardID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	return nil
}

// DueLearning returns in-ladder cards whose step wait has elapsed,
// oldest wait first.
func (r *Repo) DueLearning(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error) {
	b := selectCards().
		Where(sq.Eq{"student_code": code, "learning": true, "suspended": false}).
		Where(sq.LtOrEq{"learning_due": now}).
		OrderBy("learning_due ASC").
		Limit(uint64(limit))
	return r.list(ctx, deckPredicate(b, deck), "due learning")
}

// DueReview returns review-tier cards past their due date, most
// overdue first.
func (r *Repo) DueReview(ctx context.Context, code string, deck domain.DeckFilter, now time.Time, limit int) ([]*domain.Card, error) {
	b := selectCards().
		Where(sq.Eq{"student_code": code, "learning": false, "suspended": false}).
		Where(sq.Gt{"reps": 0}).
		Where(sq.LtOrEq{"due": now}).
		OrderBy("due ASC").
		Limit(uint64(limit))
	return r.list(ctx, deckPredicate(b, deck), "due review")
}

// NewCards returns never-reviewed cards in creation order.
func (r *Repo) NewCards(ctx context.Context, code string, deck domain.DeckFilter, limit int) ([]*domain.Card, error) {
	b := selectCards().
		Where(sq.Eq{"student_code": code, "learning": false, "reps": 0, "suspended": false}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))
	return r.list(ctx, deckPredicate(b, deck), "new cards")
}

// ListAll returns every card the student owns, suspended included.
func (r *Repo) ListAll(ctx context.Context, code string) ([]*domain.Card, error) {
	b := selectCards().
		Where(sq.Eq{"student_code": code}).
		OrderBy("created_at ASC")
	return r.list(ctx, b, "list cards")
}

// CountAll returns the size of the student's collection.
func (r *Repo) CountAll(ctx context.Context, code string) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("count(*)").From("cards").
		Where(sq.Eq{"student_code": code}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count cards: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

// CountDue returns how many unsuspended cards are actionable right
// now, learning and review tiers combined.
func (r *Repo) CountDue(ctx context.Context, code string, now time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("count(*)").From("cards").
		Where(sq.Eq{"student_code": code, "suspended": false}).
		Where(sq.Or{
			sq.And{sq.Eq{"learning": true}, sq.LtOrEq{"learning_due": now}},
			sq.And{sq.Eq{"learning": false}, sq.Gt{"reps": 0}, sq.LtOrEq{"due": now}},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count due: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return count, nil
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder, op string) ([]*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		c           domain.Card
		learningDue *time.Time
	)
	err := row.Scan(
		&c.ID, &c.StudentCode, &c.Front, &c.Back, &c.Deck,
		&c.EaseFactor, &c.Reps, &c.IntervalDays, &c.Due,
		&c.Learning, &c.LearningStep, &learningDue,
		&c.Suspended, &c.Flagged, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if learningDue != nil {
		c.LearningDue = *learningDue
	}
	return &c, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
