package study

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// SyncResult reports what a deck sync pull brought in.
type SyncResult struct {
	Decks []string `json:"decks"`
	Cards int      `json:"cards"`
}

// SyncDecks copies every published class deck the student has not yet
// received into their collection as fresh cards. Each deck is pulled
// exactly once per account; later edits to a published deck never
// touch cards already handed out. Each deck commits atomically with
// its synced marker, so a crash mid-sync cannot duplicate cards.
func (s *Service) SyncDecks(ctx context.Context, code string) (SyncResult, error) {
	account, err := s.accounts.Get(ctx, code)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load account: %w", err)
	}

	published, err := s.decks.ListPublished(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list published decks: %w", err)
	}

	now := s.clock.Now()
	var res SyncResult
	for _, deck := range published {
		if slices.Contains(account.SyncedDecks, deck.Name) {
			continue
		}

		deckCards, err := s.decks.Cards(ctx, deck.ID)
		if err != nil {
			return res, fmt.Errorf("load deck %q: %w", deck.Name, err)
		}

		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, dc := range deckCards {
				card := domain.NewCard(code, dc.Front, dc.Back, deck.Name, now)
				if err := s.cards.Insert(ctx, &card); err != nil {
					return fmt.Errorf("insert card: %w", err)
				}
			}
			return s.accounts.MarkDeckSynced(ctx, code, deck.Name)
		})
		if err != nil {
			return res, fmt.Errorf("sync deck %q: %w", deck.Name, err)
		}

		res.Decks = append(res.Decks, deck.Name)
		res.Cards += len(deckCards)
	}

	if len(res.Decks) > 0 {
		s.log.InfoContext(ctx, "decks synced",
			slog.String("code", code),
			slog.Any("decks", res.Decks),
			slog.Int("cards", res.Cards),
		)
	}
	return res, nil
}
