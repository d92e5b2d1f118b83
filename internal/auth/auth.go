// Package auth verifies bearer tokens from the identity provider and seeds
// the tenant context with the authenticated principal's organization. Token
// issuance happens elsewhere; this package only consumes tokens.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parkrow/backoffice/internal/tenancy"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID         string
	OrganizationID string
}

type principalKey struct{}

// WithPrincipal attaches the principal to the context and scopes the tenant
// context to the principal's organization.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return tenancy.WithOrganization(ctx, p.OrganizationID)
}

// PrincipalFromContext reports the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// UserIDFromContext returns the authenticated user id or nil for unscoped
// flows such as batch jobs.
func UserIDFromContext(ctx context.Context) *string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == "" {
		return nil
	}
	return &p.UserID
}

// claims is the token shape issued by the identity provider.
type claims struct {
	jwt.RegisteredClaims
	OrganizationID string `json:"org_id"`
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier with the shared signing secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// ParseToken verifies the token and extracts the principal.
func (v *Verifier) ParseToken(token string) (Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}
	if c.OrganizationID == "" {
		return Principal{}, fmt.Errorf("token missing org_id claim")
	}
	return Principal{UserID: c.Subject, OrganizationID: c.OrganizationID}, nil
}

// Middleware authenticates the request and establishes the tenant context
// before the handler runs.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, `{"code":"UNAUTHENTICATED","error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}
		p, err := v.ParseToken(token)
		if err != nil {
			http.Error(w, `{"code":"UNAUTHENTICATED","error":"invalid bearer token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// HeaderMiddleware trusts the X-Organization-ID header instead of a token.
// It exists for local development with auth disabled; never enable it in
// production.
func HeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := r.Header.Get("X-Organization-ID")
		if orgID == "" {
			http.Error(w, `{"code":"UNAUTHENTICATED","error":"missing X-Organization-ID header"}`, http.StatusUnauthorized)
			return
		}
		p := Principal{UserID: r.Header.Get("X-User-ID"), OrganizationID: orgID}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
