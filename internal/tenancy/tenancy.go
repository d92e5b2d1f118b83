// Package tenancy carries the caller's organization across a request's call
// chain. The organization id rides on context.Context, so it follows the
// logical request flow through goroutines and callbacks rather than being
// pinned to any single worker. There is no process-global fallback; a context
// without an organization is simply unscoped.
package tenancy

import "context"

type ctxKey struct{}

// WithOrganization returns a context scoped to the given organization.
// Every nested call that receives the returned context observes orgID,
// including work scheduled on other goroutines.
func WithOrganization(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, orgID)
}

// OrganizationID reports the organization the context is scoped to.
// ok is false for unscoped contexts such as batch jobs.
func OrganizationID(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(ctxKey{}).(string)
	if !ok || orgID == "" {
		return "", false
	}
	return orgID, true
}
