// Package jwtsession issues and validates short-lived admin session tokens.
//
// Operators exchange the admin token once (POST /admin/session) for a JWT
// and use it on subsequent calls, keeping the long-lived credential off the
// wire. The token subject is the caller identity the session was issued to.
package jwtsession

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
)

const (
	issuer   = "pension-ledger"
	audience = "pension-ledger-admin"
)

// Service handles session JWT creation and validation.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func New(signingKey string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Issue creates a signed session token for the given caller.
func (s *Service) Issue(caller id.Identity, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   caller.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Audience:  []string{audience},
		ID:        uuid.NewString(),
	})
	return token.SignedString(s.signingKey)
}

// Validate checks the token signature and expiry and returns the caller
// identity it was issued to.
func (s *Service) Validate(tokenString string) (id.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "session token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid session token claims")
	}
	return id.Identity(claims.Subject), nil
}
