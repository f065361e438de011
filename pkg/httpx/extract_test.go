package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCookieExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok-123"})

	require.Equal(t, "tok-123", httpx.CookieExtractor("session")(req))
	require.Empty(t, httpx.CookieExtractor("missing")(req))
}

func TestAuthorizationHeaderExtractor(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok-456")
		require.Equal(t, "tok-456", httpx.AuthorizationHeaderExtractor(req))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Empty(t, httpx.AuthorizationHeaderExtractor(req))
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		require.Empty(t, httpx.AuthorizationHeaderExtractor(req))
	})
}

func TestFirstCredentialPriorityOrder(t *testing.T) {
	extractors := []httpx.CredentialExtractor{
		httpx.CookieExtractor("session"),
		httpx.CookieExtractor("session-fallback"),
		httpx.AuthorizationHeaderExtractor,
	}

	t.Run("primary cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "primary"})
		req.AddCookie(&http.Cookie{Name: "session-fallback", Value: "fallback"})
		req.Header.Set("Authorization", "Bearer header")

		require.Equal(t, "primary", httpx.FirstCredential(req, extractors...))
	})

	t.Run("fallback cookie beats header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session-fallback", Value: "fallback"})
		req.Header.Set("Authorization", "Bearer header")

		require.Equal(t, "fallback", httpx.FirstCredential(req, extractors...))
	})

	t.Run("header as last resort", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header")

		require.Equal(t, "header", httpx.FirstCredential(req, extractors...))
	})

	t.Run("nothing present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Empty(t, httpx.FirstCredential(req, extractors...))
	})
}
