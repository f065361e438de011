package domain

import "time"

// CodePurpose distinguishes the three one-time code flows. Each purpose has
// its own TTL and delivery-failure policy.
type CodePurpose string

const (
	// PurposeMFA is the login-time second factor. 5 minute TTL.
	PurposeMFA CodePurpose = "mfa"
	// PurposeVerifyEmail confirms ownership of a new account's address.
	// 24 hour TTL.
	PurposeVerifyEmail CodePurpose = "verify_email"
	// PurposePasswordReset is a high-entropy reset token rather than a
	// numeric code. 1 hour TTL.
	PurposePasswordReset CodePurpose = "password_reset"
)

// TTL returns the validity window for codes issued with this purpose.
func (p CodePurpose) TTL() time.Duration {
	switch p {
	case PurposeMFA:
		return 5 * time.Minute
	case PurposeVerifyEmail:
		return 24 * time.Hour
	case PurposePasswordReset:
		return time.Hour
	default:
		return 5 * time.Minute
	}
}

// OneTimeCode is a stored single-use code. Code holds the 6-digit value for
// mfa/verify_email and a SHA-256 fingerprint of the raw token for
// password_reset. A code is consumable iff !Used and now < ExpiresAt; once
// consumed or expired it never becomes valid again.
type OneTimeCode struct {
	ID        string
	UserID    string
	Purpose   CodePurpose
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
