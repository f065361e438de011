package http

import (
	"net/http"
	"time"
)

const (
	// SessionCookie is the primary httpOnly session cookie.
	SessionCookie = "session"
	// FallbackCookie mirrors the session token without httpOnly so embedded
	// webview clients that cannot read httpOnly cookies still work.
	FallbackCookie = "session-fallback"
)

// cookieWriter sets and clears the session cookie pair. Secure is off in
// local development so plain-http testing works.
type cookieWriter struct {
	Secure bool
	TTL    time.Duration
}

func (c cookieWriter) set(w http.ResponseWriter, token string) {
	maxAge := int(c.TTL.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     FallbackCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieWriter) clear(w http.ResponseWriter) {
	for _, name := range []string{SessionCookie, FallbackCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == SessionCookie,
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
