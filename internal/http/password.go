package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// ForgotPasswordHandler serves POST /api/auth/forgot-password. The response
// is identical whether or not the address has an account.
type ForgotPasswordHandler struct {
	Auth *service.AuthService
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		// Even internal failures get the generic response; only the log
		// knows. The endpoint must not leak anything about the account.
		log.Error("forgot password failed", "err", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "If an account with that email exists, we sent a password reset link.",
	})
}

// ResetPasswordHandler serves POST /api/auth/reset-password, completing the
// flow with the emailed token.
type ResetPasswordHandler struct {
	Auth *service.AuthService
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Reset token is required")
		return
	}
	if len(req.Password) < 8 {
		httpx.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	err := h.Auth.ResetPassword(ctx, req.Token, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	default:
		log.Error("password reset failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Password reset successfully",
	})
}
