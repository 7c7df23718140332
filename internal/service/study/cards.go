package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// AddCard validates and stores a new card owned by the student.
func (s *Service) AddCard(ctx context.Context, code string, in AddCardInput) (*domain.Card, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	card := domain.NewCard(code, in.Front, in.Back, in.Deck, s.clock.Now())
	if err := s.cards.Insert(ctx, &card); err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}

	s.log.InfoContext(ctx, "card added",
		slog.String("code", code),
		slog.String("card_id", card.ID.String()),
		slog.String("deck", card.EffectiveDeck()),
	)
	return &card, nil
}

// ListCards returns every card the student owns, suspended included.
func (s *Service) ListCards(ctx context.Context, code string) ([]*domain.Card, error) {
	cards, err := s.cards.ListAll(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// SetSuspended toggles a card in or out of every queue tier.
func (s *Service) SetSuspended(ctx context.Context, code string, cardID uuid.UUID, suspended bool) error {
	if err := s.cards.SetSuspended(ctx, code, cardID, suspended); err != nil {
		return fmt.Errorf("set suspended: %w", err)
	}
	s.log.InfoContext(ctx, "card suspension changed",
		slog.String("code", code),
		slog.String("card_id", cardID.String()),
		slog.Bool("suspended", suspended),
	)
	return nil
}

// SetFlagged marks a card for later attention. Flagging has no effect
// on scheduling.
func (s *Service) SetFlagged(ctx context.Context, code string, cardID uuid.UUID, flagged bool) error {
	if err := s.cards.SetFlagged(ctx, code, cardID, flagged); err != nil {
		return fmt.Errorf("set flagged: %w", err)
	}
	return nil
}
