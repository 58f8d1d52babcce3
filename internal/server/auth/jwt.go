// Package auth issues and verifies the bearer tokens that identify a
// principal on authenticated requests. Tokens are HS256 JWTs whose payload
// is Claims; the signing secret lives only in process memory, so restarting
// the server invalidates every outstanding token.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/scuttlebutt/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a token issued without an explicit ttl.
const DefaultTTL = 24 * time.Hour

// SecretSize is the number of random bytes in a generated signing secret.
const SecretSize = 32

// Claims is the signed payload: the principal's user id and the expiry.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService is safe for concurrent use; its secret is read-only after
// construction.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now for both issuing and verification.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewRandomSecret returns a fresh signing secret.
func NewRandomSecret() ([]byte, error) {
	return shared.RandomBytes(SecretSize)
}

// NewTokenService copies secret; an empty secret is rejected.
func NewTokenService(secret []byte, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	s := &TokenService{secret: append([]byte(nil), secret...), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for principalID that expires after ttl (DefaultTTL
// when ttl is not positive).
func (s *TokenService) Issue(principalID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		},
	})

	return token.SignedString(s.secret)
}

// Verify returns the claims of a genuine, unexpired token. Malformed input,
// a bad signature and expiry all yield (nil, false); callers must not try to
// tell them apart.
func (s *TokenService) Verify(tokenString string) (*Claims, bool) {
	if !s.notExpiredUnverified(tokenString) {
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	return claims, true
}

// notExpiredUnverified decodes the payload without checking the signature
// and rejects tokens whose embedded expiry has already passed. It is a cheap
// pre-filter only; the signed expiry is checked again by ParseWithClaims.
func (s *TokenService) notExpiredUnverified(tokenString string) bool {
	claims := &Claims{}
	if _, _, err := jwt.NewParser(jwt.WithStrictDecoding()).ParseUnverified(tokenString, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return s.now().Before(claims.ExpiresAt.Time)
}

func (s *TokenService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}
