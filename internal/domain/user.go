package domain

import "time"

// User is the persisted identity record. Users are created unverified with
// MFA enabled by default and are never hard-deleted in the normal flow.
type User struct {
	ID            string
	Email         string
	PasswordHash  string // bcrypt encoded
	FirstName     string
	LastName      string
	EmailVerified bool
	MFAEnabled    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the client-facing projection of a User. It never carries the
// password hash or internal flags.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Public returns the client-facing projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
