package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	internalauth "github.com/mandarin-cards/studyd/internal/auth"
	"github.com/mandarin-cards/studyd/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Code string `json:"code"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

type accountResponse struct {
	Code        string    `json:"code"`
	Role        string    `json:"role"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{Code: req.Code})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	role := internalauth.RoleStudent
	if result.Account.IsTeacher {
		role = internalauth.RoleTeacher
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		Account: accountResponse{
			Code:        result.Account.Code,
			Role:        role,
			LastLoginAt: result.Account.LastLoginAt,
		},
	})
}
