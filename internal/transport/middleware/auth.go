package middleware

import (
	"net/http"
	"strings"

	"github.com/mandarin-cards/studyd/internal/auth"
	"github.com/mandarin-cards/studyd/pkg/ctxutil"
)

type tokenValidator interface {
	Validate(token string) (string, string, error)
}

// Auth validates the bearer token when present and stores the class code
// and role in the request context. Requests without a token pass through
// anonymously; route handlers decide whether auth is required.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			code, role, err := validator.Validate(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithStudentCode(r.Context(), code)
			ctx = ctxutil.WithTeacher(ctx, role == auth.RoleTeacher)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
