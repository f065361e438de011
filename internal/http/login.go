package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// LoginHandler serves POST /api/auth/login. Accounts with MFA enabled get a
// code emailed and no session yet; the client follows up on verify-mfa.
type LoginHandler struct {
	Auth    *service.AuthService
	Cookies cookieWriter
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, domain.ErrEmailNotVerified):
		httpx.WriteError(w, http.StatusBadRequest, "Please verify your email before logging in")
		return
	case errors.Is(err, domain.ErrDeliveryFailed):
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to send MFA code")
		return
	default:
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if res.MFARequired {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"message":     "MFA code sent to your email",
			"requiresMfa": true,
			"userId":      res.User.ID,
		})
		return
	}

	h.Cookies.set(w, res.Token)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    res.User.Public(),
		"token":   res.Token,
	})
}
