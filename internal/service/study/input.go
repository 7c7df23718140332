package study

import (
	"strings"

	"github.com/mandarin-cards/studyd/internal/domain"
)

const (
	maxFrontLen = 512
	maxBackLen  = 2048
	maxDeckLen  = 64
)

// AddCardInput carries a new card submission.
type AddCardInput struct {
	Front string
	Back  string
	Deck  string
}

func (in *AddCardInput) Validate() error {
	var fields []domain.FieldError
	if strings.TrimSpace(in.Front) == "" {
		fields = append(fields, domain.FieldError{Field: "front", Message: "must not be empty"})
	}
	if len(in.Front) > maxFrontLen {
		fields = append(fields, domain.FieldError{Field: "front", Message: "too long"})
	}
	if strings.TrimSpace(in.Back) == "" {
		fields = append(fields, domain.FieldError{Field: "back", Message: "must not be empty"})
	}
	if len(in.Back) > maxBackLen {
		fields = append(fields, domain.FieldError{Field: "back", Message: "too long"})
	}
	if len(in.Deck) > maxDeckLen {
		fields = append(fields, domain.FieldError{Field: "deck", Message: "too long"})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}
