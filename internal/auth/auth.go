// Package auth verifies the bearer tokens sent by the admin front end and
// the CLI. Tokens are HS256 JWTs signed with the configured secret.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingToken is returned when a request carries no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

// Claims are the JWT claims the portal issues.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates tokens.
type TokenManager struct {
	secretKey  []byte
	issuer     string
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a new token manager.
func NewTokenManager(secretKey []byte, issuer string, defaultTTL time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:  secretKey,
		issuer:     issuer,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Issue creates a signed token for username.
func (tm *TokenManager) Issue(username, role string) (string, error) {
	now := tm.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.defaultTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Validate parses tokenString and checks its signature, issuer and expiry.
func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return tm.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the verified claims in the request context.
func Middleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
				return
			}

			claims, err := tm.Validate(token)
			if err != nil {
				slog.Warn("rejected token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(errors.New("invalid or expired token")))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
