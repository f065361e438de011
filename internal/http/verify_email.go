package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// VerifyEmailHandler serves POST /api/auth/verify-email. Verifying the
// address also logs the user in, so the registration flow ends authenticated.
type VerifyEmailHandler struct {
	Auth    *service.AuthService
	Cookies cookieWriter
}

type verifyEmailRequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "User ID and code are required")
		return
	}

	res, err := h.Auth.VerifyEmail(ctx, req.UserID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	default:
		log.Error("email verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.Cookies.set(w, res.Token)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Email verified successfully",
		"user":    res.User.Public(),
		"token":   res.Token,
	})
}
