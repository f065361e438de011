package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/budgetthis/budgetthis/internal/service"
	"github.com/budgetthis/budgetthis/internal/store"
	"github.com/budgetthis/budgetthis/pkg/httpx"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions      *sessionx.Issuer
	secureCookies bool
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	sessions *sessionx.Issuer,
	secureCookies bool,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		sessions:      sessions,
		secureCookies: secureCookies,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Global middleware chain: request logging first, then the route guard.
	// The guard only acts on page paths; API routes pass straight through to
	// the mux.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		Guard(sessions),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	cookies := cookieWriter{
		Secure: r.secureCookies,
		TTL:    r.sessions.TTL(),
	}

	register := &RegisterHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(register,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	login := &LoginHandler{Auth: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	emailLogin := &EmailLoginHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/auth/email-login",
		httpx.Chain(emailLogin,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	verifyMFA := &VerifyMFAHandler{Auth: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /api/auth/verify-mfa",
		httpx.Chain(verifyMFA,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	verifyEmail := &VerifyEmailHandler{Auth: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /api/auth/verify-email",
		httpx.Chain(verifyEmail,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	checkMFA := &CheckMFAHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/auth/check-mfa",
		httpx.Chain(checkMFA,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	forgot := &ForgotPasswordHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/auth/forgot-password",
		httpx.Chain(forgot,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	reset := &ResetPasswordHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/auth/reset-password",
		httpx.Chain(reset,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	logout := &LogoutHandler{Cookies: cookies}
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMe() {
	me := &MeHandler{Auth: r.AuthService, Sessions: r.sessions}
	r.Mux.Handle("GET /api/me",
		httpx.Chain(me,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
