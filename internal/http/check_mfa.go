package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// CheckMFAHandler serves POST /api/auth/check-mfa. The login form calls it
// to decide whether to show the password step or go straight to email login.
type CheckMFAHandler struct {
	Auth *service.AuthService
}

type checkMFARequest struct {
	Email string `json:"email"`
}

func (h *CheckMFAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req checkMFARequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	u, err := h.Auth.CheckMFA(ctx, req.Email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "No account found with this email address")
		return
	default:
		log.Error("mfa check failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":     u.ID,
		"mfaEnabled": u.MFAEnabled,
	})
}
