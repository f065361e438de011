package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/store"
	"github.com/budgetthis/budgetthis/pkg/cryptox"
	"github.com/budgetthis/budgetthis/pkg/idx"
	"github.com/budgetthis/budgetthis/pkg/sessionx"
	"github.com/budgetthis/budgetthis/pkg/slogx"
)

// LoginResult is the outcome of a successful credential check. When the
// account has MFA enabled no session is issued yet; the caller must complete
// the code step first.
type LoginResult struct {
	User        domain.User
	Token       string
	MFARequired bool
}

// AuthService implements the account and session flows: registration,
// the two-step login, email verification, and password reset.
type AuthService struct {
	Store    store.Store
	Sessions *sessionx.Issuer
	Codes    *CodeService
}

// Register creates an unverified account with MFA enabled and stages an
// email-verification code, both in one transaction, then emails the code.
// A delivery failure after commit returns ErrDeliveryFailed; the account and
// code persist, so the user can still verify if the mail arrives late.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (domain.User, error) {
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		MFAEnabled:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var code string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.ErrEmailTaken
			}
			return err
		}
		code, err = s.Codes.StageVerificationCode(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Codes.DeliverVerificationCode(ctx, u, code); err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		slog.String("user_id", u.ID),
	)
	return u, nil
}

// Login checks credentials and either issues a session or, for MFA-enabled
// accounts, emails a login code and reports MFARequired. Unknown email and
// wrong password both return ErrInvalidCredentials; an unverified account
// returns ErrEmailNotVerified before any code is sent.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	if u.MFAEnabled {
		if err := s.Codes.IssueMFACode(ctx, u); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{User: u, MFARequired: true}, nil
	}

	token, err := s.issueSession(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u, Token: token}, nil
}

// RequestLoginCode is the password-less variant of the MFA first step: it
// confirms the account exists and is verified, then emails a login code
// without checking a password. The caller still has to present the emailed
// code, so possession of the mailbox remains the proof.
func (s *AuthService) RequestLoginCode(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	if !u.EmailVerified {
		return domain.User{}, domain.ErrEmailNotVerified
	}

	if err := s.Codes.IssueMFACode(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// VerifyMFA completes the login code step and issues a session. The code is
// consumed exactly once; wrong, expired and replayed codes all return
// ErrInvalidOrExpiredCode, as does an unknown user id.
func (s *AuthService) VerifyMFA(ctx context.Context, userID, code string) (LoginResult, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, domain.ErrInvalidOrExpiredCode
		}
		return LoginResult{}, err
	}

	if err := s.Codes.Consume(ctx, u.ID, domain.PurposeMFA, code); err != nil {
		return LoginResult{}, err
	}

	token, err := s.issueSession(u)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("mfa verified",
		slog.String("user_id", u.ID),
	)
	return LoginResult{User: u, Token: token}, nil
}

// VerifyEmail consumes the registration code, marks the account verified,
// and logs the user straight in with a fresh session.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, code string) (LoginResult, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, domain.ErrInvalidOrExpiredCode
		}
		return LoginResult{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Codes().ConsumeCode(ctx, u.ID, domain.PurposeVerifyEmail, code, time.Now().UTC()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.ErrInvalidOrExpiredCode
			}
			return err
		}
		return tx.Users().SetEmailVerified(ctx, u.ID)
	})
	if err != nil {
		return LoginResult{}, err
	}
	u.EmailVerified = true

	token, err := s.issueSession(u)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("email verified",
		slog.String("user_id", u.ID),
	)
	return LoginResult{User: u, Token: token}, nil
}

// CheckMFA looks the account up by email and reports whether it has MFA
// enabled. Unknown addresses return ErrUserNotFound.
func (s *AuthService) CheckMFA(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// ForgotPassword issues a reset token for the account if it exists. It
// returns nil for unknown addresses too; the handler responds identically in
// both cases so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}
	return s.Codes.IssuePasswordReset(ctx, u)
}

// ResetPassword redeems a reset token and replaces the account's password.
// Consuming the token and writing the new hash happen in one transaction, and
// any other outstanding reset tokens are invalidated with it.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	fp := cryptox.FingerprintToken(rawToken)
	var userID string

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		userID, err = tx.Codes().ConsumeCodeAnyUser(ctx, domain.PurposePasswordReset, fp, time.Now().UTC())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.ErrInvalidOrExpiredCode
			}
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		return tx.Codes().InvalidateCodes(ctx, userID, domain.PurposePasswordReset)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset",
		slog.String("user_id", userID),
	)
	return nil
}

// GetUserByID fetches a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// VerifyCredentials checks email + password and the verified flag. The
// bcrypt comparison runs even for unknown emails so response timing does not
// reveal whether the address exists.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return domain.User{}, domain.ErrEmailNotVerified
	}
	return u, nil
}

func (s *AuthService) issueSession(u domain.User) (string, error) {
	return s.Sessions.Issue(sessionx.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

// dummyHash is a bcrypt hash of an unguessable value, compared against when
// the email is unknown to equalize timing with the known-email path.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// normalizeEmail trims surrounding whitespace only. Matching against the
// stored address is deliberately exact and case-sensitive.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
