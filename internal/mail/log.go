package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes mail to the structured log instead of sending it.
// Used when SMTP is not configured, which keeps local development and
// tests working without a mail account.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.log.InfoContext(ctx, "mail: verification code", slog.String("to", to), slog.String("code", code))
	return nil
}

func (m *LogMailer) SendMFACode(ctx context.Context, to, code string) error {
	m.log.InfoContext(ctx, "mail: mfa code", slog.String("to", to), slog.String("code", code))
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, firstName, resetURL string) error {
	m.log.InfoContext(ctx, "mail: password reset link", slog.String("to", to), slog.String("url", resetURL))
	return nil
}
