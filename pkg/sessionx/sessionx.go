// Package sessionx issues and verifies the signed session tokens that prove
// authenticated identity. Tokens are HS256 JWTs signed with a single
// server-held secret; there are no asymmetric keys and no server-side
// revocation, so a token stays valid until its natural expiry.
package sessionx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime from issuance.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is the only error Verify returns. Bad signature, malformed
// payload and expiry all collapse into it so callers cannot build an oracle
// out of the failure mode.
var ErrInvalidToken = errors.New("sessionx: invalid token")

// Identity is the set of claims embedded in a session token.
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

type sessionClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies session tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New returns an Issuer signing with the given secret. A zero ttl falls back
// to DefaultTTL; a negative ttl mints already-expired tokens, which only
// tests have a use for.
func New(secret []byte, issuer string, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL reports the configured session lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a session token embedding the identity claims, issued now and
// expiring ttl from now.
func (i *Issuer) Issue(id Identity) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure maps to ErrInvalidToken.
func (i *Issuer) Verify(token string) (Identity, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
