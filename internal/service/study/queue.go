package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// Entry is one position in a session queue.
type Entry struct {
	Card *domain.Card
	// Practice marks a post-cap replay of an already-seen card.
	// Grading a practice entry never touches the scheduler or the
	// quota tracker; it exists for extra repetition only.
	Practice bool
}

// buildQueue assembles the ordered queue for one session pass and
// returns it together with today's (possibly just reset) counters.
//
// Tiers, in strict priority order:
//  1. learning: in-ladder cards past LearningDue, oldest first;
//     exempt from daily caps, they are short-term retention;
//  2. review: due review-tier cards, truncated to the review cap left;
//  3. new: never-seen cards in creation order, truncated to the new
//     cap left.
//
// The learning head keeps its time order; only the review+new tail is
// shuffled. An empty result with mode-A practice fill available comes
// back as a shuffled replay of seen cards, marked practice-only.
func (s *Service) buildQueue(ctx context.Context, code string, deck domain.DeckFilter, seen []*domain.Card) ([]Entry, domain.DailyCounters, error) {
	now := s.clock.Now()
	today := DayKey(now, s.opts.Timezone)

	account, err := s.accounts.Get(ctx, code)
	if err != nil {
		return nil, domain.DailyCounters{}, fmt.Errorf("load account: %w", err)
	}

	counters, reset := LoadOrReset(account.Counters, today)
	if reset {
		if err := s.accounts.UpdateCounters(ctx, code, counters); err != nil {
			return nil, domain.DailyCounters{}, fmt.Errorf("persist counter reset: %w", err)
		}
	}

	caps := s.opts.Mode.Caps()
	left := RemainingAllowance(counters, caps)

	var learning []*domain.Card
	if s.opts.Scheduler.WithLearningSteps {
		learning, err = s.cards.DueLearning(ctx, code, deck, now, s.opts.FetchCeiling)
		if err != nil {
			return nil, counters, fmt.Errorf("load learning tier: %w", err)
		}
	}

	var review []*domain.Card
	if left.ReviewLeft > 0 {
		review, err = s.cards.DueReview(ctx, code, deck, now, minInt(left.ReviewLeft, s.opts.FetchCeiling))
		if err != nil {
			return nil, counters, fmt.Errorf("load review tier: %w", err)
		}
	}

	var fresh []*domain.Card
	if left.NewLeft > 0 {
		fresh, err = s.cards.NewCards(ctx, code, deck, minInt(left.NewLeft, s.opts.FetchCeiling))
		if err != nil {
			return nil, counters, fmt.Errorf("load new tier: %w", err)
		}
	}

	tail := make([]*domain.Card, 0, len(review)+len(fresh))
	tail = append(tail, review...)
	tail = append(tail, fresh...)
	s.shuffle(len(tail), func(i, j int) { tail[i], tail[j] = tail[j], tail[i] })

	queue := make([]Entry, 0, len(learning)+len(tail))
	for _, c := range learning {
		queue = append(queue, Entry{Card: c})
	}
	for _, c := range tail {
		queue = append(queue, Entry{Card: c})
	}

	if len(queue) == 0 && s.practiceFillWanted(counters, caps, seen) {
		queue = practiceEntries(seen)
		s.shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	}

	s.log.InfoContext(ctx, "queue built",
		slog.String("code", code),
		slog.String("deck", string(deck)),
		slog.Int("learning", len(learning)),
		slog.Int("review", len(review)),
		slog.Int("new", len(fresh)),
		slog.Int("total", len(queue)),
	)

	return queue, counters, nil
}

// practiceFillWanted reports whether an exhausted queue should be
// refilled with already-seen cards: mode A only, target not yet met,
// and at least one card seen this session.
func (s *Service) practiceFillWanted(counters domain.DailyCounters, caps domain.Caps, seen []*domain.Card) bool {
	return s.opts.Mode.PracticeFills() &&
		counters.Interactions < caps.TargetInteractions &&
		len(seen) > 0
}

func practiceEntries(seen []*domain.Card) []Entry {
	entries := make([]Entry, 0, len(seen))
	for _, c := range seen {
		entries = append(entries, Entry{Card: c, Practice: true})
	}
	return entries
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
