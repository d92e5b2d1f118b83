// Package event defines the audit facts emitted by the lifecycle services
// and the best-effort sink they are handed to. Recording is fire-and-forget:
// a sink failure may degrade observability but must never affect business
// state.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit actions emitted by the core.
const (
	ActionLeaseActivated  = "LEASE_ACTIVATED"
	ActionPaymentMarkPaid = "PAYMENT_MARK_PAID"
)

// AuditEvent is one audit fact: who did what to which entity.
type AuditEvent struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	UserID         *string         `json:"user_id,omitempty"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	Action         string          `json:"action"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Sink accepts audit facts. Record never returns an error and never blocks
// on downstream work; implementations swallow and log their own failures.
type Sink interface {
	Record(ctx context.Context, evt AuditEvent)
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// LeaseActivatedPayload carries event-specific data for a lease activation.
type LeaseActivatedPayload struct {
	LeaseID    string   `json:"lease_id"`
	UnitID     string   `json:"unit_id"`
	PaymentIDs []string `json:"payment_ids"`
}

// NewLeaseActivated builds the audit fact for a committed lease activation.
func NewLeaseActivated(orgID string, userID *string, p LeaseActivatedPayload) AuditEvent {
	return AuditEvent{
		ID:             newID(),
		OrganizationID: orgID,
		UserID:         userID,
		EntityType:     "lease",
		EntityID:       p.LeaseID,
		Action:         ActionLeaseActivated,
		Metadata:       mustJSON(p),
		OccurredAt:     time.Now().UTC(),
	}
}

// PaymentMarkPaidPayload carries event-specific data for a settled payment.
type PaymentMarkPaidPayload struct {
	PaymentID string    `json:"payment_id"`
	LeaseID   string    `json:"lease_id"`
	PaidAt    time.Time `json:"paid_at"`
}

// NewPaymentMarkPaid builds the audit fact for a committed settlement.
func NewPaymentMarkPaid(orgID string, userID *string, p PaymentMarkPaidPayload) AuditEvent {
	return AuditEvent{
		ID:             newID(),
		OrganizationID: orgID,
		UserID:         userID,
		EntityType:     "payment",
		EntityID:       p.PaymentID,
		Action:         ActionPaymentMarkPaid,
		Metadata:       mustJSON(p),
		OccurredAt:     time.Now().UTC(),
	}
}
