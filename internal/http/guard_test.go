package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

func guardHarness(t *testing.T) (http.Handler, string) {
	t.Helper()

	sessions := sessionx.New([]byte("guard-secret-guard-secret-guard-"), "budgetthis-test", 0)
	token, err := sessions.Issue(sessionx.Identity{
		UserID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Email:  "g@example.com",
	})
	require.NoError(t, err)

	passthrough := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(passthrough, Guard(sessions)), token
}

func guardGet(h http.Handler, path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuardRedirectsAnonymousFromProtectedPages(t *testing.T) {
	h, _ := guardHarness(t)

	for _, path := range []string{"/dashboard", "/bills", "/budget", "/accounts", "/me", "/dashboard/reports"} {
		rec := guardGet(h, path, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestGuardAdmitsAuthenticatedToProtectedPages(t *testing.T) {
	h, token := guardHarness(t)

	withCookie := func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	rec := guardGet(h, "/dashboard", withCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	withFallback := func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: FallbackCookie, Value: token})
	}
	rec = guardGet(h, "/bills", withFallback)
	require.Equal(t, http.StatusOK, rec.Code)

	withBearer := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec = guardGet(h, "/budget", withBearer)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardBouncesAuthenticatedFromPublicOnlyPages(t *testing.T) {
	h, token := guardHarness(t)

	for _, path := range []string{"/login", "/register", "/forgot-password", "/reset-password"} {
		rec := guardGet(h, path, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		})
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"), path)
	}
}

func TestGuardAllowsAnonymousOnPublicPages(t *testing.T) {
	h, _ := guardHarness(t)

	for _, path := range []string{"/login", "/register", "/forgot-password", "/reset-password", "/"} {
		rec := guardGet(h, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGuardIgnoresInvalidTokens(t *testing.T) {
	h, _ := guardHarness(t)

	// A tampered token is treated as no credential at all.
	rec := guardGet(h, "/dashboard", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// Valid token signed with a different secret is rejected too.
	other := sessionx.New([]byte("other-secret-other-secret-other-"), "budgetthis-test", 0)
	forged, err := other.Issue(sessionx.Identity{UserID: "01ARZ3NDEKTSV4RRFFQ69G5FAV"})
	require.NoError(t, err)

	rec = guardGet(h, "/dashboard", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: forged})
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestGuardBypassesAPIAndProbePaths(t *testing.T) {
	h, _ := guardHarness(t)

	for _, path := range []string{"/api/me", "/api/auth/login", "/livez", "/readyz"} {
		rec := guardGet(h, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGuardPrefixMatchingIsSegmentAware(t *testing.T) {
	h, _ := guardHarness(t)

	// Similar-looking prefixes outside the protected set pass through.
	for _, path := range []string{"/dashboard-public", "/billson", "/messages"} {
		rec := guardGet(h, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}
