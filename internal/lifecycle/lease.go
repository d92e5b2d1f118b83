// Package lifecycle implements the guarded state transitions over shared
// tenant-scoped state: lease activation and payment settlement. Both resolve
// races with a conditional update whose affected-row count decides the
// winner; no in-process lock is involved, so correctness holds across
// independent processes sharing the store.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkrow/backoffice/internal/apperr"
	"github.com/parkrow/backoffice/internal/auth"
	"github.com/parkrow/backoffice/internal/event"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// LeaseService executes lease lifecycle operations.
type LeaseService struct {
	store storage.Store
	sink  event.Sink
	clock func() time.Time
}

// NewLeaseService creates a LeaseService. sink may be nil, in which case no
// audit facts are emitted.
func NewLeaseService(store storage.Store, sink event.Sink) *LeaseService {
	return &LeaseService{store: store, sink: sink, clock: time.Now}
}

// ActivationResult is the state produced by a successful activation.
type ActivationResult struct {
	Lease    *types.Lease    `json:"lease"`
	Unit     *types.Unit     `json:"unit"`
	Payments []types.Payment `json:"payments"`
}

// CreateLease validates the lease's parent chain and persists it in pending
// status. Referential mismatches are rejected before any write: the unit
// must sit under the given property, and property, unit, and renter must all
// belong to the lease's organization.
func (s *LeaseService) CreateLease(ctx context.Context, l *types.Lease) (*types.Lease, error) {
	if l.OrganizationID == "" || l.PropertyID == "" || l.UnitID == "" || l.RenterID == "" {
		return nil, apperr.Invalid("organization, property, unit, and renter ids are required")
	}
	if l.StartDate.IsZero() {
		return nil, apperr.Invalid("start date is required")
	}
	if l.RentAmount.AmountCents <= 0 {
		return nil, apperr.Invalid("rent amount must be positive")
	}
	if l.BillCycle == "" {
		l.BillCycle = types.BillMonthly
	}

	org := l.OrganizationID
	property, err := s.store.GetProperty(ctx, storage.Ref{ID: l.PropertyID, OrganizationID: org})
	if err != nil {
		return nil, mapStoreErr(err, "property %s", l.PropertyID)
	}
	unit, err := s.store.GetUnit(ctx, storage.Ref{ID: l.UnitID, OrganizationID: org})
	if err != nil {
		return nil, mapStoreErr(err, "unit %s", l.UnitID)
	}
	if unit.PropertyID != property.ID {
		return nil, apperr.InvalidRelation("unit %s does not belong to property %s", unit.ID, property.ID)
	}
	if _, err := s.store.GetRenter(ctx, storage.Ref{ID: l.RenterID, OrganizationID: org}); err != nil {
		return nil, mapStoreErr(err, "renter %s", l.RenterID)
	}

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.Status = types.LeasePending
	if err := s.store.CreateLease(ctx, l); err != nil {
		return nil, fmt.Errorf("create lease: %w", err)
	}
	return l, nil
}

// Activate executes the pending→active transition exactly once. Under
// concurrent attempts a single caller wins; every other caller receives a
// conflict describing the state it lost to. The winner's transaction also
// occupies the unit and creates the first-cycle payments; the audit fact is
// emitted after commit, best-effort.
func (s *LeaseService) Activate(ctx context.Context, leaseID, orgID string) (*ActivationResult, error) {
	ref := storage.Ref{ID: leaseID, OrganizationID: orgID}

	lease, err := s.store.GetLease(ctx, ref)
	if err != nil {
		return nil, mapStoreErr(err, "lease %s", leaseID)
	}
	if lease.Status != types.LeasePending {
		return nil, leaseStatusConflict(lease.Status)
	}

	unitRef := storage.Ref{ID: lease.UnitID, OrganizationID: lease.OrganizationID}
	unit, err := s.store.GetUnit(ctx, unitRef)
	if err != nil {
		return nil, mapStoreErr(err, "unit %s", lease.UnitID)
	}
	if !unit.Status.Occupiable() {
		return nil, apperr.Conflict(apperr.CodeUnitNotVacant,
			"unit %s is %s; activation requires vacant or reserved", unit.ID, unit.Status)
	}

	now := s.clock().UTC()
	payments := buildActivationPayments(lease, now)

	err = s.store.InTx(ctx, func(tx storage.Store) error {
		// Compare-and-set: only one concurrent activation observes a
		// non-zero row count. Losers never reach the dependent writes.
		n, err := tx.TransitionLease(ctx, ref, types.LeasePending, types.LeaseActive)
		if err != nil {
			return fmt.Errorf("activate lease: %w", err)
		}
		if n == 0 {
			current, err := tx.GetLease(ctx, ref)
			if err != nil {
				return mapStoreErr(err, "lease %s", leaseID)
			}
			return leaseStatusConflict(current.Status)
		}

		n, err = tx.UpdateUnitStatus(ctx, unitRef, types.OccupiableStatuses, types.UnitOccupied)
		if err != nil {
			return fmt.Errorf("occupy unit: %w", err)
		}
		if n == 0 {
			return apperr.Conflict(apperr.CodeUnitNotVacant,
				"unit %s is no longer vacant or reserved", lease.UnitID)
		}

		for i := range payments {
			if err := tx.CreatePayment(ctx, &payments[i]); err != nil {
				return fmt.Errorf("create activation payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lease.Status = types.LeaseActive
	lease.UpdatedAt = now
	unit.Status = types.UnitOccupied
	unit.UpdatedAt = now

	if s.sink != nil {
		paymentIDs := make([]string, len(payments))
		for i, p := range payments {
			paymentIDs[i] = p.ID
		}
		s.sink.Record(ctx, event.NewLeaseActivated(lease.OrganizationID, auth.UserIDFromContext(ctx),
			event.LeaseActivatedPayload{
				LeaseID:    lease.ID,
				UnitID:     unit.ID,
				PaymentIDs: paymentIDs,
			}))
	}

	return &ActivationResult{Lease: lease, Unit: unit, Payments: payments}, nil
}

// buildActivationPayments generates the dependent billing obligations: one
// deposit when the lease carries one, and the first billing cycle's rent.
// Both fall due on the lease start date. Later cycles are generated by a
// separate process, not pre-expanded here.
func buildActivationPayments(lease *types.Lease, now time.Time) []types.Payment {
	var payments []types.Payment
	if lease.DepositAmount.AmountCents > 0 {
		payments = append(payments, types.Payment{
			ID:             uuid.New().String(),
			OrganizationID: lease.OrganizationID,
			LeaseID:        lease.ID,
			Type:           types.PaymentDeposit,
			Status:         types.PaymentPending,
			Amount:         lease.DepositAmount,
			DueDate:        lease.StartDate,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	payments = append(payments, types.Payment{
		ID:             uuid.New().String(),
		OrganizationID: lease.OrganizationID,
		LeaseID:        lease.ID,
		Type:           types.PaymentRent,
		Status:         types.PaymentPending,
		Amount:         lease.RentAmount,
		DueDate:        lease.StartDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return payments
}

// leaseStatusConflict builds the conflict matching the lease's current
// status. A lease that already reached active reports that specifically;
// terminated and expired report the generic status conflict.
func leaseStatusConflict(status types.LeaseStatus) error {
	if status == types.LeaseActive {
		return apperr.Conflict(apperr.CodeLeaseAlreadyActive, "lease is already active")
	}
	return apperr.Conflict(apperr.CodeLeaseStatusInvalid,
		"lease status %s does not allow activation", status)
}

// mapStoreErr converts storage sentinel errors to domain errors.
func mapStoreErr(err error, format string, args ...any) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(format+" not found", args...)
	}
	return err
}
