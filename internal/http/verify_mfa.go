package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// VerifyMFAHandler serves POST /api/auth/verify-mfa: the second login step.
// A correct code consumes it and issues the session.
type VerifyMFAHandler struct {
	Auth    *service.AuthService
	Cookies cookieWriter
}

type verifyMFARequest struct {
	UserID  string `json:"userId"`
	MFACode string `json:"mfaCode"`
}

func (h *VerifyMFAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyMFARequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.MFACode == "" {
		httpx.WriteError(w, http.StatusBadRequest, "User ID and MFA code are required")
		return
	}

	res, err := h.Auth.VerifyMFA(ctx, req.UserID, req.MFACode)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired MFA code")
		return
	default:
		log.Error("mfa verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.Cookies.set(w, res.Token)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    res.User.Public(),
		"token":   res.Token,
	})
}
