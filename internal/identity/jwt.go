// Package identity resolves the recording user from HS256 bearer tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fortuna/quadra/internal/stats"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// User is the authenticated operator.
type User struct {
	ID   string
	Name string
}

// Recorder stamps the user onto a match record.
func (u User) Recorder() stats.Recorder {
	return stats.Recorder{ID: u.ID, Name: u.Name}
}

// Claims carried by operator tokens. The subject is the user id.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTProvider verifies and issues operator tokens.
type JWTProvider struct {
	secret []byte
	now    func() time.Time
}

// NewJWTProvider creates a provider for the given signing secret.
func NewJWTProvider(secret string) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTProvider{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for u valid for ttl.
func (p *JWTProvider) Issue(u User, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Verify parses a token and returns its user.
func (p *JWTProvider) Verify(token string) (User, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return User{ID: claims.Subject, Name: name}, nil
}

type contextKey string

const userContextKey contextKey = "user"

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// FromContext returns the authenticated user.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userContextKey).(User)
	return u, ok
}

// FromRequest verifies the Authorization bearer token of r.
func (p *JWTProvider) FromRequest(r *http.Request) (User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return User{}, ErrMissingToken
	}
	return p.Verify(token)
}
