package http

import (
	"net/http"
	"strings"

	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
)

// protectedPrefixes are page paths that require a valid session.
var protectedPrefixes = []string{
	"/dashboard",
	"/bills",
	"/budget",
	"/accounts",
	"/me",
}

// publicOnlyPrefixes are page paths that should bounce an already
// authenticated user back to the app.
var publicOnlyPrefixes = []string{
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
}

// Guard is the stateless route guard. It decides per request from the
// presented credential alone:
//
//   - protected page without a valid session -> 303 /login
//   - public-only page with a valid session  -> 303 /dashboard
//   - everything else passes through
//
// API and probe paths bypass the guard entirely; they do their own auth.
func Guard(sessions *sessionx.Issuer) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, "/api/") || path == "/livez" || path == "/readyz" {
				next.ServeHTTP(w, r)
				return
			}

			token := httpx.FirstCredential(r,
				httpx.CookieExtractor(SessionCookie),
				httpx.CookieExtractor(FallbackCookie),
				httpx.AuthorizationHeaderExtractor,
			)

			authenticated := false
			if token != "" {
				if _, err := sessions.Verify(token); err == nil {
					authenticated = true
				}
			}

			if matchesPrefix(path, protectedPrefixes) && !authenticated {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if matchesPrefix(path, publicOnlyPrefixes) && authenticated {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
