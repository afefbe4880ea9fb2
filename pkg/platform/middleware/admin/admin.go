// Package admin authenticates administrator requests.
//
// The middleware only establishes the caller identity; authorization is the
// ledger services' job so that unauthorized mutations surface as coded domain
// errors rather than transport-level rejections. A request with no credential
// passes through with an empty caller and is rejected by the service.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	id "pensionledger/pkg/domain"
	"pensionledger/pkg/requestcontext"
)

// TokenHeader carries the static admin token.
const TokenHeader = "X-Admin-Token"

// SessionValidator validates a bearer session token and returns the caller
// identity it was issued to.
type SessionValidator interface {
	Validate(token string) (id.Identity, error)
}

// Credential is the administrator credential fixed at startup. Either a
// bcrypt hash (preferred) or a plain token for development setups.
type Credential struct {
	Identity  id.Identity
	TokenHash string // bcrypt hash of the admin token
	Token     string // plain token, only used when TokenHash is empty
}

// Verify reports whether the presented token matches the credential.
func (c Credential) Verify(token string) bool {
	if token == "" {
		return false
	}
	if c.TokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.TokenHash), []byte(token)) == nil
	}
	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.Token)) == 1
}

// Authenticate resolves the caller identity from either the admin token
// header or a bearer session token and stores it in the request context.
// A presented-but-invalid credential is rejected immediately; an absent
// credential leaves the caller empty for the service layer to reject.
func Authenticate(cred Credential, sessions SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := r.Header.Get(TokenHeader); token != "" {
				if !cred.Verify(token) {
					logger.WarnContext(ctx, "admin token mismatch",
						"request_id", requestcontext.RequestID(ctx),
					)
					unauthorized(w)
					return
				}
				ctx = requestcontext.WithCallerID(ctx, cred.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if bearer, ok := strings.CutPrefix(authHeader, "Bearer "); ok && sessions != nil {
				caller, err := sessions.Validate(bearer)
				if err != nil {
					logger.WarnContext(ctx, "invalid session token",
						"request_id", requestcontext.RequestID(ctx),
						"error", err.Error(),
					)
					unauthorized(w)
					return
				}
				ctx = requestcontext.WithCallerID(ctx, caller)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin credential required"}`))
}
