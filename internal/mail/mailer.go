// Package mail is the delivery surface for one-time codes. The rest of the
// service only sees the Mailer interface; SMTP details stay here.
package mail

import "context"

// Mailer delivers one-time codes and reset links to users. Implementations
// must be safe for concurrent use.
type Mailer interface {
	// SendVerificationCode emails the registration verification code.
	SendVerificationCode(ctx context.Context, to, code string) error

	// SendMFACode emails the login-time second-factor code.
	SendMFACode(ctx context.Context, to, code string) error

	// SendPasswordReset emails the password-reset link.
	SendPasswordReset(ctx context.Context, to, firstName, resetURL string) error
}
