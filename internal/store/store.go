package store

import (
	"context"
	"errors"
	"time"

	"github.com/budgetthis/budgetthis/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Codes() Codes

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Multi-step
	// writes (create user + issue code, reset password + invalidate codes)
	// go through here so a failure between steps rolls back both.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks the user up by the unique email column. The match
	// is case-sensitive and exact.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetEmailVerified flips email_verified and bumps updated_at.
	SetEmailVerified(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password_hash (bcrypt) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type Codes interface {
	// CreateCode persists a freshly issued one-time code.
	CreateCode(ctx context.Context, c domain.OneTimeCode) error

	// ConsumeCode atomically marks the matching unused, unexpired code as
	// used. It reports ErrNotFound when no row matched, which covers wrong
	// value, expiry and prior consumption alike. Exactly-once consumption
	// under concurrent submissions rests on the single UPDATE.
	ConsumeCode(ctx context.Context, userID string, purpose domain.CodePurpose, code string, now time.Time) error

	// ConsumeCodeAnyUser is ConsumeCode without the user constraint and
	// returns the owning user id. Password-reset tokens arrive without an
	// accompanying user id.
	ConsumeCodeAnyUser(ctx context.Context, purpose domain.CodePurpose, code string, now time.Time) (string, error)

	// InvalidateCodes marks all outstanding codes for (user, purpose) as
	// used. Called on reissue so at most one code per purpose is live.
	InvalidateCodes(ctx context.Context, userID string, purpose domain.CodePurpose) error

	// DeleteExpiredCodes removes used and expired codes (housekeeping).
	DeleteExpiredCodes(ctx context.Context, before time.Time) error
}
