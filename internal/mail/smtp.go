package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig carries the transport settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address, e.g. no-reply@budget-this.com
	FromName string // display name, e.g. "Budget This"
}

// SMTPMailer sends mail through a single configured SMTP account. It is
// constructed once at process start and injected into the services that
// need it; there is no package-level transporter.
type SMTPMailer struct {
	cfg    SMTPConfig
	client *gomail.Client
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{cfg: cfg, client: client}, nil
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to,
		"Verify Your Email - Budget This",
		verificationBody(code))
}

func (m *SMTPMailer) SendMFACode(ctx context.Context, to, code string) error {
	return m.send(ctx, to,
		"Your MFA Code - Budget This",
		mfaBody(code))
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, firstName, resetURL string) error {
	return m.send(ctx, to,
		"Reset Your Password - Budget This",
		passwordResetBody(firstName, resetURL))
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
