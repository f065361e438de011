package http

import (
	"net/http"

	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// MeHandler serves GET /api/me, returning the authenticated user's profile.
// Credentials are accepted from the session cookie, the fallback cookie, or
// an Authorization bearer header, in that order.
type MeHandler struct {
	Auth     *service.AuthService
	Sessions *sessionx.Issuer
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := httpx.FirstCredential(r,
		httpx.CookieExtractor(SessionCookie),
		httpx.CookieExtractor(FallbackCookie),
		httpx.AuthorizationHeaderExtractor,
	)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := h.Sessions.Verify(token)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// Load the current record rather than trusting week-old claims.
	u, err := h.Auth.GetUserByID(ctx, id.UserID)
	if err != nil {
		slogx.FromContext(ctx).Warn("session for missing user", "user_id", id.UserID)
		httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": u.Public(),
	})
}
