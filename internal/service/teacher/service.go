package teacher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mandarin-cards/studyd/internal/domain"
	"github.com/mandarin-cards/studyd/pkg/ctxutil"
)

// progressRepo supplies the aggregated per-student numbers. The
// aggregation lives in SQL; one round-trip per overview.
type progressRepo interface {
	ListProgress(ctx context.Context, now time.Time, today string) ([]*domain.StudentProgress, error)
}

// Service implements the class overview shown to teachers.
type Service struct {
	log      *slog.Logger
	progress progressRepo
	clock    clockwork.Clock
	tz       *time.Location
}

// NewService creates a new teacher service instance.
func NewService(logger *slog.Logger, progress progressRepo, clock clockwork.Clock, tz *time.Location) *Service {
	if tz == nil {
		tz = time.UTC
	}
	return &Service{
		log:      logger.With("service", "teacher"),
		progress: progress,
		clock:    clock,
		tz:       tz,
	}
}

// Overview returns one row per student account: collection size, cards
// due right now, and today's counter usage. Teacher accounts are not
// listed. The transport layer gates the route, but the role is checked
// here too so no future caller can skip it.
func (s *Service) Overview(ctx context.Context) ([]*domain.StudentProgress, error) {
	if !ctxutil.IsTeacherFromCtx(ctx) {
		return nil, fmt.Errorf("%w: teacher role required", domain.ErrForbidden)
	}

	now := s.clock.Now()
	today := now.In(s.tz).Format("2006-01-02")

	rows, err := s.progress.ListProgress(ctx, now, today)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	s.log.InfoContext(ctx, "overview served", slog.Int("students", len(rows)))
	return rows, nil
}
