package auth

import (
	"regexp"
	"strings"

	"github.com/mandarin-cards/studyd/internal/domain"
)

// Class codes are "Mand" plus four digits, matched case-insensitively
// and stored in canonical capitalisation.
var codePattern = regexp.MustCompile(`^(?i)mand(\d{4})$`)

// LoginInput carries a class-code login attempt.
type LoginInput struct {
	Code string
}

// Normalize returns the canonical form of the code, or a validation
// error when the shape is wrong. The shape check is deliberately done
// before any repository call so malformed codes never hit the
// database.
func (in LoginInput) Normalize() (string, error) {
	code := strings.TrimSpace(in.Code)
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return "", domain.NewValidationError("code", "must look like Mand1234")
	}
	return "Mand" + m[1], nil
}
