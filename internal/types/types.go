// Package types defines the domain entities shared by the storage,
// lifecycle, and handler layers, together with the status enums and the
// transition tables that govern them.
package types

import (
	"encoding/json"
	"time"
)

// Money represents a monetary amount using integer cents to eliminate
// floating-point errors in financial operations.
type Money struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"` // ISO 4217, e.g. "USD"
}

// IsZero reports whether the amount is absent or zero.
func (m Money) IsZero() bool { return m.AmountCents == 0 }

// ── Organizations ────────────────────────────────────────────────────────────

// Organization is the tenant root. It carries no organization_id of its own;
// every other entity references one.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ── Properties & Units ───────────────────────────────────────────────────────

// Property is a building or complex owned by an organization.
type Property struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	AddressLine1   string    `json:"address_line1"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	PostalCode     string    `json:"postal_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UnitStatus is the occupancy state of a unit.
type UnitStatus string

const (
	UnitVacant      UnitStatus = "vacant"
	UnitReserved    UnitStatus = "reserved"
	UnitOccupied    UnitStatus = "occupied"
	UnitUnavailable UnitStatus = "unavailable"
)

// Unit is a rentable space inside a property. A unit is occupied by at most
// one active lease at a time.
type Unit struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	PropertyID     string     `json:"property_id"`
	UnitNumber     string     `json:"unit_number"`
	Status         UnitStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OccupiableStatuses are the unit states from which a lease may be activated.
var OccupiableStatuses = []UnitStatus{UnitVacant, UnitReserved}

// Occupiable reports whether a unit in this state can take a new lease.
func (s UnitStatus) Occupiable() bool {
	for _, v := range OccupiableStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ── Renters ──────────────────────────────────────────────────────────────────

// Renter is the person renting a unit. The domain calls this entity "tenant";
// the Go name avoids colliding with tenant in the isolation sense (an
// organization).
type Renter struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ── Leases ───────────────────────────────────────────────────────────────────

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeasePending    LeaseStatus = "pending"
	LeaseActive     LeaseStatus = "active"
	LeaseTerminated LeaseStatus = "terminated"
	LeaseExpired    LeaseStatus = "expired"
)

// ValidLeaseTransitions maps each lease status to the statuses it may move to.
// pending→active happens at most once in a lease's lifetime.
var ValidLeaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeasePending:    {LeaseActive, LeaseTerminated},
	LeaseActive:     {LeaseExpired, LeaseTerminated},
	LeaseTerminated: {},
	LeaseExpired:    {},
}

// CanTransitionTo reports whether the lease state machine allows moving from
// s to target.
func (s LeaseStatus) CanTransitionTo(target LeaseStatus) bool {
	for _, v := range ValidLeaseTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// BillCycle is the billing frequency of a lease.
type BillCycle string

const (
	BillMonthly   BillCycle = "monthly"
	BillQuarterly BillCycle = "quarterly"
	BillAnnually  BillCycle = "annually"
)

// Lease binds a renter to a unit for a period at a rent amount.
type Lease struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	PropertyID     string      `json:"property_id"`
	UnitID         string      `json:"unit_id"`
	RenterID       string      `json:"renter_id"`
	Status         LeaseStatus `json:"status"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        *time.Time  `json:"end_date,omitempty"`
	RentAmount     Money       `json:"rent_amount"`
	DepositAmount  Money       `json:"deposit_amount"`
	BillCycle      BillCycle   `json:"bill_cycle"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ── Payments ─────────────────────────────────────────────────────────────────

// PaymentType classifies a billing obligation.
type PaymentType string

const (
	PaymentRent    PaymentType = "rent"
	PaymentDeposit PaymentType = "deposit"
	PaymentFee     PaymentType = "fee"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentCanceled PaymentStatus = "canceled"
)

// SettleableStatuses are the payment states from which paid may be reached.
// paid and canceled are terminal.
var SettleableStatuses = []PaymentStatus{PaymentPending, PaymentOverdue}

// Settleable reports whether a payment in this state may be marked paid.
func (s PaymentStatus) Settleable() bool {
	for _, v := range SettleableStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the payment state admits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentPaid || s == PaymentCanceled
}

// Payment is a billing obligation attached to a lease.
type Payment struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id"`
	LeaseID        string        `json:"lease_id"`
	Type           PaymentType   `json:"type"`
	Status         PaymentStatus `json:"status"`
	Amount         Money         `json:"amount"`
	DueDate        time.Time     `json:"due_date"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ── Audit log ────────────────────────────────────────────────────────────────

// AuditLog is an immutable fact describing who did what to which entity.
// Rows are append-only; the core never updates or deletes them.
type AuditLog struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	UserID         *string         `json:"user_id,omitempty"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	Action         string          `json:"action"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
