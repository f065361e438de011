package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/internal/store/drivers/sqlite"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu                sync.Mutex
	verificationCodes []string
	mfaCodes          []string
	resetURLs         []string
}

func (m *recordingMailer) SendVerificationCode(_ context.Context, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationCodes = append(m.verificationCodes, code)
	return nil
}

func (m *recordingMailer) SendMFACode(_ context.Context, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mfaCodes = append(m.mfaCodes, code)
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _, _, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetURLs = append(m.resetURLs, resetURL)
	return nil
}

func (m *recordingMailer) lastVerificationCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.verificationCodes)
	return m.verificationCodes[len(m.verificationCodes)-1]
}

func (m *recordingMailer) lastMFACode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.mfaCodes)
	return m.mfaCodes[len(m.mfaCodes)-1]
}

func newTestRouter(t *testing.T) (*Router, *recordingMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &recordingMailer{}
	sessions := sessionx.New([]byte("test-secret-test-secret-test-sec"), "budgetthis-test", 0)
	codes := &service.CodeService{Store: st, Mailer: mailer, AppURL: "http://localhost:3000"}
	auth := &service.AuthService{Store: st, Sessions: sessions, Codes: codes}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := NewRouter(sessions, false, "test", st, logger)
	r.AuthService = auth
	r.ApplyRoutes()

	return r, mailer
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieValue(rec *httptest.ResponseRecorder, name string) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// registerAndVerify drives an account through register + verify-email over
// the HTTP surface and returns the user id.
func registerAndVerify(t *testing.T, r *Router, mailer *recordingMailer, email string) string {
	t.Helper()

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "Pat",
		"lastName":  "Doe",
		"email":     email,
		"password":  "a-long-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	userID, _ := decodeBody(t, rec)["userId"].(string)
	require.NotEmpty(t, userID)

	rec = postJSON(t, r, "/api/auth/verify-email", map[string]string{
		"userId": userID,
		"code":   mailer.lastVerificationCode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return userID
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "Pat", "lastName": "Doe",
		"email": "not-an-email", "password": "a-long-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "Pat", "lastName": "Doe",
		"email": "pat@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "", "lastName": "Doe",
		"email": "pat@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	r, _ := newTestRouter(t)

	body := map[string]string{
		"firstName": "Pat", "lastName": "Doe",
		"email": "dup@example.com", "password": "a-long-password",
	}
	rec := postJSON(t, r, "/api/auth/register", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/api/auth/register", body)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyEmailLogsIn(t *testing.T) {
	r, mailer := newTestRouter(t)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "Pat", "lastName": "Doe",
		"email": "v@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	userID, _ := decodeBody(t, rec)["userId"].(string)

	rec = postJSON(t, r, "/api/auth/verify-email", map[string]string{
		"userId": userID,
		"code":   mailer.lastVerificationCode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])
	require.NotEmpty(t, cookieValue(rec, SessionCookie))
	require.NotEmpty(t, cookieValue(rec, FallbackCookie))
}

func TestLoginFlowWithMFA(t *testing.T) {
	r, mailer := newTestRouter(t)
	userID := registerAndVerify(t, r, mailer, "mfa@example.com")

	// Step one: credentials accepted, code emailed, no cookie yet.
	rec := postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "mfa@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["requiresMfa"])
	require.Empty(t, cookieValue(rec, SessionCookie))

	// Wrong code is a 400.
	rec = postJSON(t, r, "/api/auth/verify-mfa", map[string]string{
		"userId": userID, "mfaCode": "000000",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Step two: correct code sets both cookies and echoes the token.
	code := mailer.lastMFACode(t)
	rec = postJSON(t, r, "/api/auth/verify-mfa", map[string]string{
		"userId": userID, "mfaCode": code,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, token, cookieValue(rec, SessionCookie))
	require.Equal(t, token, cookieValue(rec, FallbackCookie))

	// Replay is rejected.
	rec = postJSON(t, r, "/api/auth/verify-mfa", map[string]string{
		"userId": userID, "mfaCode": code,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	r, mailer := newTestRouter(t)
	registerAndVerify(t, r, mailer, "f@example.com")

	rec := postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "f@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", decodeBody(t, rec)["error"])

	// Unknown email gets the identical response.
	rec = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", decodeBody(t, rec)["error"])
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"firstName": "Pat", "lastName": "Doe",
		"email": "unv@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "unv@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmailLoginAndCheckMFA(t *testing.T) {
	r, mailer := newTestRouter(t)
	userID := registerAndVerify(t, r, mailer, "el@example.com")

	rec := postJSON(t, r, "/api/auth/check-mfa", map[string]string{"email": "el@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, userID, body["userId"])
	require.Equal(t, true, body["mfaEnabled"])

	rec = postJSON(t, r, "/api/auth/check-mfa", map[string]string{"email": "none@example.com"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(t, r, "/api/auth/email-login", map[string]string{"email": "el@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/api/auth/verify-mfa", map[string]string{
		"userId": userID, "mfaCode": mailer.lastMFACode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/api/auth/email-login", map[string]string{"email": "none@example.com"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForgotPasswordResponseInvariance(t *testing.T) {
	r, mailer := newTestRouter(t)
	registerAndVerify(t, r, mailer, "fp@example.com")

	known := postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "fp@example.com"})
	unknown := postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "none@example.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.JSONEq(t, known.Body.String(), unknown.Body.String())

	// Only the known address actually got mail.
	require.Len(t, mailer.resetURLs, 1)
}

func TestMeEndpoint(t *testing.T) {
	r, mailer := newTestRouter(t)
	registerAndVerify(t, r, mailer, "me@example.com")

	rec := postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "me@example.com", "password": "a-long-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	userID, _ := decodeBody(t, rec)["userId"].(string)

	rec = postJSON(t, r, "/api/auth/verify-mfa", map[string]string{
		"userId": userID, "mfaCode": mailer.lastMFACode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)

	// Bearer header works.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	out := httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	user, _ := decodeBody(t, out)["user"].(map[string]any)
	require.Equal(t, "me@example.com", user["email"])

	// Session cookie works.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	out = httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	// No credential is a 401.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	out = httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusUnauthorized, out.Code)

	// Garbage is a 401 too.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	out = httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusUnauthorized, out.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := 0
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie || c.Name == FallbackCookie {
			require.Empty(t, c.Value)
			require.Less(t, c.MaxAge, 0)
			cleared++
		}
	}
	require.Equal(t, 2, cleared)
}

func TestResetPasswordOverHTTP(t *testing.T) {
	r, mailer := newTestRouter(t)
	registerAndVerify(t, r, mailer, "rp@example.com")

	rec := postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "rp@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, mailer.resetURLs)

	u, err := url.Parse(mailer.resetURLs[len(mailer.resetURLs)-1])
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)

	rec = postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "brand-new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Token is spent.
	rec = postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "brand-new-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// New password authenticates.
	rec = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "rp@example.com", "password": "brand-new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "ok", decodeBody(t, rec)["status"], path)
	}
}
