package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/budgetthis/budgetthis/internal/domain"
	"github.com/budgetthis/budgetthis/internal/store"
)

type codesRepo struct {
	db querier
}

func (r *codesRepo) CreateCode(ctx context.Context, c domain.OneTimeCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO one_time_codes (id, user_id, purpose, code, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		c.ID, c.UserID, string(c.Purpose), c.Code, c.ExpiresAt, time.Now().UTC())
	return err
}

// ConsumeCode marks the matching live code used in a single UPDATE. At most
// one of two racing submissions observes used=0, so consumption is
// exactly-once without application-level locking.
func (r *codesRepo) ConsumeCode(ctx context.Context, userID string, purpose domain.CodePurpose, code string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE one_time_codes SET used = 1
		 WHERE user_id = ? AND purpose = ? AND code = ? AND used = 0 AND expires_at > ?`,
		userID, string(purpose), code, now)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *codesRepo) ConsumeCodeAnyUser(ctx context.Context, purpose domain.CodePurpose, code string, now time.Time) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`UPDATE one_time_codes SET used = 1
		 WHERE purpose = ? AND code = ? AND used = 0 AND expires_at > ?
		 RETURNING user_id`,
		string(purpose), code, now).Scan(&userID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return userID, nil
}

func (r *codesRepo) InvalidateCodes(ctx context.Context, userID string, purpose domain.CodePurpose) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE one_time_codes SET used = 1 WHERE user_id = ? AND purpose = ? AND used = 0`,
		userID, string(purpose))
	return err
}

func (r *codesRepo) DeleteExpiredCodes(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM one_time_codes WHERE used = 1 OR expires_at <= ?`, before)
	return err
}

// requireRow converts a zero-rows-affected result into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
