// Package storage defines the persistence contracts for the back-office
// core. Implementations must support conditional updates that report the
// affected-row count, multi-row atomic transactions, and set-based bulk
// updates; the conditional update is the only concurrency-control primitive
// the lifecycle services rely on.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/parkrow/backoffice/internal/types"
)

var (
	// ErrNotFound is returned when a row is absent or filtered out by an
	// organization predicate. Callers cannot tell which.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. a renter email already used within the organization.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Ref identifies one row, optionally constrained to an organization.
// An empty OrganizationID means the caller supplied no org predicate; the
// scoping layer may fill it in from the tenant context.
type Ref struct {
	ID             string
	OrganizationID string
}

// PropertyFilter narrows property listings.
type PropertyFilter struct {
	OrganizationID string
	Limit          int
}

// UnitFilter narrows unit listings.
type UnitFilter struct {
	OrganizationID string
	PropertyID     string
	Limit          int
}

// LeaseFilter narrows lease listings.
type LeaseFilter struct {
	OrganizationID string
	UnitID         string
	Status         types.LeaseStatus
	Limit          int
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	OrganizationID string
	LeaseID        string
	Status         types.PaymentStatus
	Limit          int
}

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	OrganizationID string
	EntityType     string
	EntityID       string
	Limit          int
}

// OrganizationStore persists the tenant roots. It is exempt from tenant
// scoping.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org *types.Organization) error
	GetOrganization(ctx context.Context, id string) (*types.Organization, error)
	ListOrganizations(ctx context.Context, limit int) ([]types.Organization, error)
}

// PropertyStore persists properties.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *types.Property) error
	GetProperty(ctx context.Context, ref Ref) (*types.Property, error)
	ListProperties(ctx context.Context, f PropertyFilter) ([]types.Property, error)
}

// UnitStore persists units.
type UnitStore interface {
	CreateUnit(ctx context.Context, u *types.Unit) error
	GetUnit(ctx context.Context, ref Ref) (*types.Unit, error)
	ListUnits(ctx context.Context, f UnitFilter) ([]types.Unit, error)
	// UpdateUnitStatus moves a unit to the target status only when its
	// current status is one of from, reporting the affected-row count.
	UpdateUnitStatus(ctx context.Context, ref Ref, from []types.UnitStatus, to types.UnitStatus) (int64, error)
}

// RenterStore persists renters. Email and phone are unique per organization.
type RenterStore interface {
	CreateRenter(ctx context.Context, r *types.Renter) error
	GetRenter(ctx context.Context, ref Ref) (*types.Renter, error)
	ListRenters(ctx context.Context, orgID string, limit int) ([]types.Renter, error)
}

// LeaseStore persists leases and their conditional transitions.
type LeaseStore interface {
	CreateLease(ctx context.Context, l *types.Lease) error
	GetLease(ctx context.Context, ref Ref) (*types.Lease, error)
	ListLeases(ctx context.Context, f LeaseFilter) ([]types.Lease, error)
	// TransitionLease is the compare-and-set primitive: the status moves to
	// the target only when it still equals from. The affected-row count (0 or
	// 1) is the race-resolution signal.
	TransitionLease(ctx context.Context, ref Ref, from, to types.LeaseStatus) (int64, error)
	// ExpireLeases bulk-transitions active leases whose end date has passed.
	// It spans all organizations and is idempotent by construction.
	ExpireLeases(ctx context.Context, now time.Time) (int64, error)
}

// PaymentStore persists payments and their conditional transitions.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *types.Payment) error
	GetPayment(ctx context.Context, ref Ref) (*types.Payment, error)
	ListPayments(ctx context.Context, f PaymentFilter) ([]types.Payment, error)
	// SettlePayment marks a payment paid only when its current status is
	// settleable (pending or overdue), reporting the affected-row count.
	SettlePayment(ctx context.Context, ref Ref, paidAt time.Time) (int64, error)
	// FlagOverduePayments bulk-transitions pending payments whose due date
	// has passed. It spans all organizations and is idempotent.
	FlagOverduePayments(ctx context.Context, now time.Time) (int64, error)
}

// AuditLogStore appends and reads immutable audit facts.
type AuditLogStore interface {
	AppendAuditLog(ctx context.Context, entry *types.AuditLog) error
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]types.AuditLog, error)
}

// Store is the full persistence surface.
type Store interface {
	OrganizationStore
	PropertyStore
	UnitStore
	RenterStore
	LeaseStore
	PaymentStore
	AuditLogStore

	// InTx runs fn against a Store bound to a single transaction. fn
	// returning an error rolls the transaction back; otherwise it commits.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
