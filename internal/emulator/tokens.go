package emulator

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenRevoked is returned for tokens issued before the last Revoke.
var ErrTokenRevoked = errors.New("token revoked")

// Claims bind a token to the session that requested it.
type Claims struct {
	jwt.RegisteredClaims
	Session    string `json:"sid"`
	Generation int64  `json:"gen"`
}

// Tokens issues and validates login tokens.
type Tokens struct {
	secret     []byte
	ttl        time.Duration
	issuer     string
	generation atomic.Int64
}

// NewTokens returns a token manager. A nil secret gets a random one.
func NewTokens(secret []byte, ttl time.Duration, issuer string) *Tokens {
	if len(secret) == 0 {
		secret = []byte(uuid.NewString())
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl, issuer: issuer}
}

// Issue signs a token for session.
func (t *Tokens) Issue(session string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			ID:        uuid.NewString(),
		},
		Session:    session,
		Generation: t.generation.Load(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses raw and returns its claims.
func (t *Tokens) Validate(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Generation != t.generation.Load() {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates every token issued so far.
func (t *Tokens) Revoke() {
	t.generation.Add(1)
}
