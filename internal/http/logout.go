package http

import (
	"net/http"

	"github.com/budgetthis/budgetthis/pkg/httpx"
)

// LogoutHandler serves POST /api/auth/logout. Sessions are stateless JWTs,
// so logout clears the cookie pair; an already-issued token stays valid until
// expiry if the client kept a copy.
type LogoutHandler struct {
	Cookies cookieWriter
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Cookies.clear(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
	})
}
