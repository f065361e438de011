package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/mail"
	"github.com/budgetthis/budgetthis/internal/store"
	"github.com/budgetthis/budgetthis/pkg/cryptox"
	"github.com/budgetthis/budgetthis/pkg/idx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// CodeService issues and consumes one-time codes. Issuing a code first
// invalidates any outstanding codes of the same purpose so at most one code
// per (user, purpose) is live, then delivers it by email.
type CodeService struct {
	Store  store.Store
	Mailer mail.Mailer

	// AppURL is the public base URL of the frontend, used to build
	// password-reset links.
	AppURL string
}

// IssueMFACode generates a fresh 6-digit login code for the user and emails
// it. A delivery failure aborts the login attempt with ErrDeliveryFailed.
func (s *CodeService) IssueMFACode(ctx context.Context, u domain.User) error {
	code, err := s.issue(ctx, u.ID, domain.PurposeMFA, cryptox.GenerateNumericCode)
	if err != nil {
		return err
	}
	if err := s.Mailer.SendMFACode(ctx, u.Email, code); err != nil {
		slogx.FromContext(ctx).Error("mfa code delivery failed",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return domain.ErrDeliveryFailed
	}
	return nil
}

// StageVerificationCode stores a fresh 6-digit email-verification code using
// the caller's transaction and returns the plaintext so it can be delivered
// after commit. Registration creates the user row and the code atomically.
func (s *CodeService) StageVerificationCode(ctx context.Context, tx store.Tx, userID string) (string, error) {
	return s.issueWith(ctx, tx.Codes(), userID, domain.PurposeVerifyEmail, cryptox.GenerateNumericCode)
}

// DeliverVerificationCode emails a previously staged verification code.
// Failures surface as ErrDeliveryFailed; the stored code stays valid so the
// user can still verify if the mail eventually arrives.
func (s *CodeService) DeliverVerificationCode(ctx context.Context, u domain.User, code string) error {
	if err := s.Mailer.SendVerificationCode(ctx, u.Email, code); err != nil {
		slogx.FromContext(ctx).Error("verification code delivery failed",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
		return domain.ErrDeliveryFailed
	}
	return nil
}

// IssuePasswordReset generates a high-entropy reset token, stores its
// fingerprint, and emails the reset link. Delivery failures are logged and
// swallowed: the forgot-password endpoint responds identically whether or
// not the mail went out, so account existence cannot be probed through it.
func (s *CodeService) IssuePasswordReset(ctx context.Context, u domain.User) error {
	var raw string
	gen := func() (string, error) {
		var err error
		raw, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return "", err
		}
		return cryptox.FingerprintToken(raw), nil
	}

	if _, err := s.issue(ctx, u.ID, domain.PurposePasswordReset, gen); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.AppURL, url.QueryEscape(raw))
	if err := s.Mailer.SendPasswordReset(ctx, u.Email, u.FirstName, resetURL); err != nil {
		slogx.FromContext(ctx).Error("password reset delivery failed",
			slog.String("user_id", u.ID),
			slog.Any("error", err),
		)
	}
	return nil
}

// Consume redeems a numeric code for the given user and purpose. Wrong,
// expired and already-used codes all report ErrInvalidOrExpiredCode.
func (s *CodeService) Consume(ctx context.Context, userID string, purpose domain.CodePurpose, code string) error {
	err := s.Store.Codes().ConsumeCode(ctx, userID, purpose, code, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrInvalidOrExpiredCode
		}
		return err
	}
	return nil
}

// issue invalidates any outstanding codes of the same purpose and stores a
// new one, atomically in its own transaction. It returns whatever gen handed
// back for delivery (the numeric code itself, or the fingerprint for reset
// tokens whose raw value the caller kept).
func (s *CodeService) issue(ctx context.Context, userID string, purpose domain.CodePurpose, gen func() (string, error)) (string, error) {
	var out string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		out, err = s.issueWith(ctx, tx.Codes(), userID, purpose, gen)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *CodeService) issueWith(ctx context.Context, codes store.Codes, userID string, purpose domain.CodePurpose, gen func() (string, error)) (string, error) {
	stored, err := gen()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	otc := domain.OneTimeCode{
		ID:        idx.New().String(),
		UserID:    userID,
		Purpose:   purpose,
		Code:      stored,
		ExpiresAt: now.Add(purpose.TTL()),
		CreatedAt: now,
	}

	if err := codes.InvalidateCodes(ctx, userID, purpose); err != nil {
		return "", err
	}
	if err := codes.CreateCode(ctx, otc); err != nil {
		return "", err
	}
	return stored, nil
}
