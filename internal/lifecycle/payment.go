package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/apperr"
	"github.com/parkrow/backoffice/internal/auth"
	"github.com/parkrow/backoffice/internal/event"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// ReplayPolicy decides what a mark-paid replay against an already-paid
// payment returns.
type ReplayPolicy string

const (
	// ReplayStrict rejects the replay with a conflict.
	ReplayStrict ReplayPolicy = "strict"
	// ReplayIdempotent returns the settled payment unchanged.
	ReplayIdempotent ReplayPolicy = "idempotent"
)

// Valid reports whether p is a known policy.
func (p ReplayPolicy) Valid() bool {
	return p == ReplayStrict || p == ReplayIdempotent
}

// PaymentService executes payment lifecycle operations.
type PaymentService struct {
	store  storage.Store
	sink   event.Sink
	policy ReplayPolicy
	clock  func() time.Time
}

// NewPaymentService creates a PaymentService. sink may be nil; an unknown
// policy falls back to strict.
func NewPaymentService(store storage.Store, sink event.Sink, policy ReplayPolicy) *PaymentService {
	if !policy.Valid() {
		policy = ReplayStrict
	}
	return &PaymentService{store: store, sink: sink, policy: policy, clock: time.Now}
}

// CreatePayment validates lease ownership and persists an ad-hoc payment in
// pending status. Activation-generated payments do not pass through here.
func (s *PaymentService) CreatePayment(ctx context.Context, p *types.Payment) (*types.Payment, error) {
	if p.OrganizationID == "" || p.LeaseID == "" {
		return nil, apperr.Invalid("organization and lease ids are required")
	}
	if p.Amount.AmountCents <= 0 {
		return nil, apperr.Invalid("payment amount must be positive")
	}
	if p.Type == "" {
		p.Type = types.PaymentFee
	}
	if p.DueDate.IsZero() {
		return nil, apperr.Invalid("due date is required")
	}

	// The org-constrained read doubles as the ownership check: a lease under
	// another organization comes back not found.
	if _, err := s.store.GetLease(ctx, storage.Ref{ID: p.LeaseID, OrganizationID: p.OrganizationID}); err != nil {
		return nil, mapStoreErr(err, "lease %s", p.LeaseID)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Status = types.PaymentPending
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// MarkPaid settles a payment exactly once. Settlement is permitted from
// pending and overdue; the conditional update decides races. Replays against
// an already-paid payment follow the configured policy; partial and canceled
// always conflict.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID, orgID string, paidAt *time.Time) (*types.Payment, error) {
	ref := storage.Ref{ID: paymentID, OrganizationID: orgID}

	payment, err := s.store.GetPayment(ctx, ref)
	if err != nil {
		return nil, mapStoreErr(err, "payment %s", paymentID)
	}
	if payment.Status == types.PaymentPaid {
		return s.resolveReplay(payment)
	}
	if !payment.Status.Settleable() {
		return nil, paymentStatusConflict(payment.Status)
	}

	when := s.clock().UTC()
	if paidAt != nil {
		when = paidAt.UTC()
	}

	n, err := s.store.SettlePayment(ctx, ref, when)
	if err != nil {
		return nil, fmt.Errorf("settle payment: %w", err)
	}
	if n == 0 {
		// Lost the race. Re-read and resolve against whatever state won.
		current, err := s.store.GetPayment(ctx, ref)
		if err != nil {
			return nil, mapStoreErr(err, "payment %s", paymentID)
		}
		if current.Status == types.PaymentPaid {
			return s.resolveReplay(current)
		}
		return nil, paymentStatusConflict(current.Status)
	}

	payment.Status = types.PaymentPaid
	payment.PaidAt = &when
	payment.UpdatedAt = when

	if s.sink != nil {
		s.sink.Record(ctx, event.NewPaymentMarkPaid(payment.OrganizationID, auth.UserIDFromContext(ctx),
			event.PaymentMarkPaidPayload{
				PaymentID: payment.ID,
				LeaseID:   payment.LeaseID,
				PaidAt:    when,
			}))
	}

	return payment, nil
}

func (s *PaymentService) resolveReplay(payment *types.Payment) (*types.Payment, error) {
	if s.policy == ReplayIdempotent {
		return payment, nil
	}
	return nil, apperr.Conflict(apperr.CodePaymentStatusInvalidForMarkPaid,
		"payment is already paid")
}

func paymentStatusConflict(status types.PaymentStatus) error {
	return apperr.Conflict(apperr.CodePaymentStatusInvalidForMarkPaid,
		"payment status %s does not allow mark-paid", status)
}
