package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrInvalidOrExpiredCode covers wrong, expired and already-used codes
	// alike. The distinction is deliberately not surfaced so callers cannot
	// probe which failure occurred.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")

	// ErrDeliveryFailed reports that a login-time code could not be emailed.
	// Password-reset delivery failures are logged and swallowed instead, to
	// keep the endpoint's responses independent of account existence.
	ErrDeliveryFailed = errors.New("failed to deliver verification code")
)
