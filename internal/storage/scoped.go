package storage

import (
	"context"
	"time"

	"github.com/parkrow/backoffice/internal/tenancy"
	"github.com/parkrow/backoffice/internal/types"
)

// Scoped wraps a Store so that reads and writes against tenant-owned tables
// carry an organization predicate taken from the tenant context whenever the
// caller supplied none. An explicit predicate is left untouched: service-layer
// checks take precedence and the wrapper is defense in depth, not an override.
// Organization rows are the tenant root and pass through unscoped, as do
// operations on contexts without a tenant (batch jobs run that way on
// purpose).
func Scoped(inner Store) Store {
	return &scopedStore{inner: inner}
}

type scopedStore struct {
	inner Store
}

var _ Store = (*scopedStore)(nil)

// scopeRef fills in the organization predicate from the tenant context when
// the caller supplied none.
func scopeRef(ctx context.Context, ref Ref) Ref {
	if ref.OrganizationID != "" {
		return ref
	}
	if orgID, ok := tenancy.OrganizationID(ctx); ok {
		ref.OrganizationID = orgID
	}
	return ref
}

func scopeOrg(ctx context.Context, orgID string) string {
	if orgID != "" {
		return orgID
	}
	if id, ok := tenancy.OrganizationID(ctx); ok {
		return id
	}
	return ""
}

// ── Organizations (tenant root, exempt) ──────────────────────────────────────

func (s *scopedStore) CreateOrganization(ctx context.Context, org *types.Organization) error {
	return s.inner.CreateOrganization(ctx, org)
}

func (s *scopedStore) GetOrganization(ctx context.Context, id string) (*types.Organization, error) {
	return s.inner.GetOrganization(ctx, id)
}

func (s *scopedStore) ListOrganizations(ctx context.Context, limit int) ([]types.Organization, error) {
	return s.inner.ListOrganizations(ctx, limit)
}

// ── Properties ───────────────────────────────────────────────────────────────

func (s *scopedStore) CreateProperty(ctx context.Context, p *types.Property) error {
	p.OrganizationID = scopeOrg(ctx, p.OrganizationID)
	return s.inner.CreateProperty(ctx, p)
}

func (s *scopedStore) GetProperty(ctx context.Context, ref Ref) (*types.Property, error) {
	return s.inner.GetProperty(ctx, scopeRef(ctx, ref))
}

func (s *scopedStore) ListProperties(ctx context.Context, f PropertyFilter) ([]types.Property, error) {
	f.OrganizationID = scopeOrg(ctx, f.OrganizationID)
	return s.inner.ListProperties(ctx, f)
}

// ── Units ────────────────────────────────────────────────────────────────────

func (s *scopedStore) CreateUnit(ctx context.Context, u *types.Unit) error {
	u.OrganizationID = scopeOrg(ctx, u.OrganizationID)
	return s.inner.CreateUnit(ctx, u)
}

func (s *scopedStore) GetUnit(ctx context.Context, ref Ref) (*types.Unit, error) {
	return s.inner.GetUnit(ctx, scopeRef(ctx, ref))
}

func (s *scopedStore) ListUnits(ctx context.Context, f UnitFilter) ([]types.Unit, error) {
	f.OrganizationID = scopeOrg(ctx, f.OrganizationID)
	return s.inner.ListUnits(ctx, f)
}

func (s *scopedStore) UpdateUnitStatus(ctx context.Context, ref Ref, from []types.UnitStatus, to types.UnitStatus) (int64, error) {
	return s.inner.UpdateUnitStatus(ctx, scopeRef(ctx, ref), from, to)
}

// ── Renters ──────────────────────────────────────────────────────────────────

func (s *scopedStore) CreateRenter(ctx context.Context, r *types.Renter) error {
	r.OrganizationID = scopeOrg(ctx, r.OrganizationID)
	return s.inner.CreateRenter(ctx, r)
}

func (s *scopedStore) GetRenter(ctx context.Context, ref Ref) (*types.Renter, error) {
	return s.inner.GetRenter(ctx, scopeRef(ctx, ref))
}

func (s *scopedStore) ListRenters(ctx context.Context, orgID string, limit int) ([]types.Renter, error) {
	return s.inner.ListRenters(ctx, scopeOrg(ctx, orgID), limit)
}

// ── Leases ───────────────────────────────────────────────────────────────────

func (s *scopedStore) CreateLease(ctx context.Context, l *types.Lease) error {
	l.OrganizationID = scopeOrg(ctx, l.OrganizationID)
	return s.inner.CreateLease(ctx, l)
}

func (s *scopedStore) GetLease(ctx context.Context, ref Ref) (*types.Lease, error) {
	return s.inner.GetLease(ctx, scopeRef(ctx, ref))
}

func (s *scopedStore) ListLeases(ctx context.Context, f LeaseFilter) ([]types.Lease, error) {
	f.OrganizationID = scopeOrg(ctx, f.OrganizationID)
	return s.inner.ListLeases(ctx, f)
}

func (s *scopedStore) TransitionLease(ctx context.Context, ref Ref, from, to types.LeaseStatus) (int64, error) {
	return s.inner.TransitionLease(ctx, scopeRef(ctx, ref), from, to)
}

// ExpireLeases intentionally spans all organizations; the sweeper invokes it
// on an unscoped context and no predicate is injected here.
func (s *scopedStore) ExpireLeases(ctx context.Context, now time.Time) (int64, error) {
	return s.inner.ExpireLeases(ctx, now)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *scopedStore) CreatePayment(ctx context.Context, p *types.Payment) error {
	p.OrganizationID = scopeOrg(ctx, p.OrganizationID)
	return s.inner.CreatePayment(ctx, p)
}

func (s *scopedStore) GetPayment(ctx context.Context, ref Ref) (*types.Payment, error) {
	return s.inner.GetPayment(ctx, scopeRef(ctx, ref))
}

func (s *scopedStore) ListPayments(ctx context.Context, f PaymentFilter) ([]types.Payment, error) {
	f.OrganizationID = scopeOrg(ctx, f.OrganizationID)
	return s.inner.ListPayments(ctx, f)
}

func (s *scopedStore) SettlePayment(ctx context.Context, ref Ref, paidAt time.Time) (int64, error) {
	return s.inner.SettlePayment(ctx, scopeRef(ctx, ref), paidAt)
}

func (s *scopedStore) FlagOverduePayments(ctx context.Context, now time.Time) (int64, error) {
	return s.inner.FlagOverduePayments(ctx, now)
}

// ── Audit log ────────────────────────────────────────────────────────────────

func (s *scopedStore) AppendAuditLog(ctx context.Context, entry *types.AuditLog) error {
	entry.OrganizationID = scopeOrg(ctx, entry.OrganizationID)
	return s.inner.AppendAuditLog(ctx, entry)
}

func (s *scopedStore) ListAuditLogs(ctx context.Context, f AuditFilter) ([]types.AuditLog, error) {
	f.OrganizationID = scopeOrg(ctx, f.OrganizationID)
	return s.inner.ListAuditLogs(ctx, f)
}

// ── Transactions ─────────────────────────────────────────────────────────────

// InTx keeps scoping in force inside the transaction.
func (s *scopedStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.inner.InTx(ctx, func(tx Store) error {
		return fn(&scopedStore{inner: tx})
	})
}
