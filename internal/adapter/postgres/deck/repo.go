// Package deck implements the shared class-deck repository using
// PostgreSQL.
package deck

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mandarin-cards/studyd/internal/adapter/postgres"
	"github.com/mandarin-cards/studyd/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides deck persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new deck repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListPublished returns the decks currently visible to students.
func (r *Repo) ListPublished(ctx context.Context) ([]*domain.Deck, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("id", "name", "published_by", "published", "created_at").
		From("decks").
		Where(sq.Eq{"published": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list decks: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []*domain.Deck
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.PublishedBy, &d.Published, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("list decks: %w", err)
		}
		decks = append(decks, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// Cards returns the source material of one deck in insertion order.
func (r *Repo) Cards(ctx context.Context, deckID uuid.UUID) ([]*domain.DeckCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("id", "deck_id", "front", "back").
		From("deck_cards").
		Where(sq.Eq{"deck_id": deckID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deck cards: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deck cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.DeckCard
	for rows.Next() {
		var c domain.DeckCard
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back); err != nil {
			return nil, fmt.Errorf("deck cards: %w", err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deck cards: %w", err)
	}
	return cards, nil
}
