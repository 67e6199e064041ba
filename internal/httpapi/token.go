package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
)

// sessionTTL bounds how long an issued token stays valid.
const sessionTTL = 24 * time.Hour

// Session identifies an authenticated caller.
type Session struct {
	PerformerID string
	Admin       bool
}

type sessionClaims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	clock  func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the shared signing secret.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &TokenIssuer{
		secret: []byte(secret),
		clock:  time.Now,
	}, nil
}

// Issue signs a session token for one performer.
func (t *TokenIssuer) Issue(performer domain.Performer) (string, error) {
	now := t.clock().UTC()
	claims := sessionClaims{
		Admin: performer.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   performer.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns its session.
func (t *TokenIssuer) Parse(raw string) (Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.clock() }))
	if err != nil || !token.Valid {
		return Session{}, apperrors.New(apperrors.CodeInvalidCredential, "invalid session token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Session{}, apperrors.New(apperrors.CodeInvalidCredential, "invalid session token")
	}
	return Session{
		PerformerID: claims.Subject,
		Admin:       claims.Admin,
	}, nil
}
