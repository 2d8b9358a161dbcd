// Package auth issues and verifies the stateless bearer tokens that identify
// callers by email.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

var (
	// ErrMissingCredentials means no Authorization header was sent.
	ErrMissingCredentials = errors.New("auth: missing credentials")
	// ErrInvalidToken means the token failed signature, expiry or shape checks.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims is the signed token payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	Email     string
	ExpiresAt time.Time
}

// Tokens signs and verifies tokens with one process-wide HMAC secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises Tokens.
type Option func(*Tokens)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tokens) { t.now = now }
}

// WithTTL overrides TokenTTL.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tokens) { t.ttl = ttl }
}

// NewTokens creates a signer/verifier for secret.
func NewTokens(secret string, opts ...Option) *Tokens {
	t := &Tokens{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue signs a token carrying email that expires after the TTL.
func (t *Tokens) Issue(email string) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a raw token string.
func (t *Tokens) Parse(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{Email: claims.Email}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Verify checks the value of an Authorization header ("Bearer <token>").
// An empty header yields ErrMissingCredentials; anything that does not
// verify yields ErrInvalidToken.
func (t *Tokens) Verify(header string) (*Identity, error) {
	if header == "" {
		return nil, ErrMissingCredentials
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return nil, ErrInvalidToken
	}
	return t.Parse(fields[1])
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromCtx returns the identity attached by the auth middleware.
func IdentityFromCtx(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
