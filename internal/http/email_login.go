package http

import (
	"errors"
	"net/http"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// EmailLoginHandler serves POST /api/auth/email-login: the password-less
// first step where proof of mailbox ownership stands in for the password.
type EmailLoginHandler struct {
	Auth *service.AuthService
}

type emailLoginRequest struct {
	Email string `json:"email"`
}

func (h *EmailLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req emailLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	u, err := h.Auth.RequestLoginCode(ctx, req.Email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "No account found with this email address")
		return
	case errors.Is(err, domain.ErrEmailNotVerified):
		httpx.WriteError(w, http.StatusBadRequest, "Please verify your email before logging in")
		return
	case errors.Is(err, domain.ErrDeliveryFailed):
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to send MFA code")
		return
	default:
		log.Error("email login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "MFA code sent to your email",
		"requiresMfa": true,
		"userId":      u.ID,
	})
}
