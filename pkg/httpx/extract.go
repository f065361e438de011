package httpx

import (
	"net/http"
	"strings"
)

// CredentialExtractor pulls a bearer credential out of a request, returning
// "" when its channel carries nothing.
type CredentialExtractor func(*http.Request) string

// CookieExtractor reads the named cookie.
func CookieExtractor(name string) CredentialExtractor {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// AuthorizationHeaderExtractor reads a "Bearer" token from the Authorization
// header.
func AuthorizationHeaderExtractor(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

// FirstCredential tries each extractor in order and returns the first
// non-empty credential. Mobile browsers drop httpOnly cookies often enough
// that clients are allowed to fall back to a second cookie or the
// Authorization header; the priority order lives here instead of being
// copy-pasted per route.
func FirstCredential(r *http.Request, extractors ...CredentialExtractor) string {
	for _, extract := range extractors {
		if cred := extract(r); cred != "" {
			return cred
		}
	}
	return ""
}
