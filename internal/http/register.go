package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// RegisterHandler serves POST /api/auth/register.
type RegisterHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "First and last name are required")
		return
	}
	if !validEmail(req.Email) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		httpx.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	u, err := h.Auth.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "An account with this email already exists")
		return
	case errors.Is(err, domain.ErrDeliveryFailed):
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to send verification email")
		return
	default:
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User created successfully. Please check your email for verification code.",
		"userId":  u.ID,
	})
}
