package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// teacherService defines the dashboard operations needed by
// TeacherHandler.
type teacherService interface {
	Overview(ctx context.Context) ([]*domain.StudentProgress, error)
}

// TeacherHandler serves the teacher dashboard REST endpoints.
type TeacherHandler struct {
	svc teacherService
	log *slog.Logger
}

// NewTeacherHandler creates a TeacherHandler.
func NewTeacherHandler(svc teacherService, logger *slog.Logger) *TeacherHandler {
	return &TeacherHandler{svc: svc, log: logger.With("handler", "teacher")}
}

type progressResponse struct {
	Code         string    `json:"code"`
	TotalCards   int       `json:"totalCards"`
	DueNow       int       `json:"dueNow"`
	NewToday     int       `json:"newToday"`
	ReviewsToday int       `json:"reviewsToday"`
	Interactions int       `json:"interactions"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// Overview handles GET /api/teacher/overview. The service rejects
// non-teacher callers.
func (h *TeacherHandler) Overview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Overview(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]progressResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, progressResponse{
			Code:         p.Code,
			TotalCards:   p.TotalCards,
			DueNow:       p.DueNow,
			NewToday:     p.NewToday,
			ReviewsToday: p.ReviewsToday,
			Interactions: p.Interactions,
			LastLoginAt:  p.LastLoginAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
