package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification errors. Callers outside this package only ever see a
// generic 401; these exist so the service can log the real cause and tests
// can assert on it.
var (
	// ErrTokenMalformed means the token string is not a structurally valid JWT.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenSignature means the signature does not match the payload --
	// the token was tampered with or signed with a different secret.
	ErrTokenSignature = errors.New("invalid token signature")

	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// TokenCodec issues and verifies the HS256 JWTs that carry a logged-in
// user's identity. Tokens bind the subject (email), issued-at, and expiry;
// they deliberately carry no role snapshot -- authorities are re-fetched
// from the store on every authenticated request so role changes take
// effect without waiting for tokens to expire.
//
// The signing secret is process-wide and read-only after startup. Tokens
// are not revocable before expiry: there is no server-side session state.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec with the given signing secret and token
// time-to-live.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token asserting the given subject, valid from issuedAt
// until issuedAt plus the configured TTL.
func (tc *TokenCodec) Issue(subject string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tc.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify parses and validates a token string and returns its subject.
// Checks run in order: structure, then signature, then expiry. Each failure
// maps to exactly one of the package's token errors.
func (tc *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return tc.secret, nil
		},
		// Pin the algorithm so a token claiming alg=none (or anything
		// else) is rejected outright.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenMalformed
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}
