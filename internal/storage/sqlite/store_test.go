package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/tenancy"
	"github.com/parkrow/backoffice/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type fixture struct {
	org      *types.Organization
	property *types.Property
	unit     *types.Unit
	renter   *types.Renter
}

func seedFixture(t *testing.T, store *Store, name string) fixture {
	t.Helper()
	ctx := context.Background()
	org := &types.Organization{ID: uuid.New().String(), Name: name}
	require.NoError(t, store.CreateOrganization(ctx, org))

	property := &types.Property{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Name:           name + " Towers",
		City:           "Oakland",
	}
	require.NoError(t, store.CreateProperty(ctx, property))

	unit := &types.Unit{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		PropertyID:     property.ID,
		UnitNumber:     "101",
		Status:         types.UnitVacant,
	}
	require.NoError(t, store.CreateUnit(ctx, unit))

	renter := &types.Renter{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		FullName:       "Test Renter",
		Email:          name + "@example.com",
		Phone:          "+1-555-" + name,
	}
	require.NoError(t, store.CreateRenter(ctx, renter))

	return fixture{org: org, property: property, unit: unit, renter: renter}
}

func seedLease(t *testing.T, store *Store, f fixture, status types.LeaseStatus) *types.Lease {
	t.Helper()
	l := &types.Lease{
		ID:             uuid.New().String(),
		OrganizationID: f.org.ID,
		PropertyID:     f.property.ID,
		UnitID:         f.unit.ID,
		RenterID:       f.renter.ID,
		Status:         status,
		StartDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		RentAmount:     types.Money{AmountCents: 200000, Currency: "USD"},
		BillCycle:      types.BillMonthly,
	}
	require.NoError(t, store.CreateLease(context.Background(), l))
	return l
}

func TestGetLease_ScopedByOrganization(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a := seedFixture(t, store, "alpha")
	b := seedFixture(t, store, "beta")
	lease := seedLease(t, store, a, types.LeasePending)

	got, err := store.GetLease(ctx, storage.Ref{ID: lease.ID, OrganizationID: a.org.ID})
	require.NoError(t, err)
	require.Equal(t, lease.ID, got.ID)

	// Another organization's predicate hides the row entirely.
	_, err = store.GetLease(ctx, storage.Ref{ID: lease.ID, OrganizationID: b.org.ID})
	require.ErrorIs(t, err, storage.ErrNotFound)

	// No predicate at all sees it (batch flows).
	_, err = store.GetLease(ctx, storage.Ref{ID: lease.ID})
	require.NoError(t, err)
}

func TestScopedStore_InjectsTenantPredicate(t *testing.T) {
	store := openTestStore(t)
	a := seedFixture(t, store, "alpha")
	b := seedFixture(t, store, "beta")
	lease := seedLease(t, store, a, types.LeasePending)
	scoped := storage.Scoped(store)

	ctxA := tenancy.WithOrganization(context.Background(), a.org.ID)
	ctxB := tenancy.WithOrganization(context.Background(), b.org.ID)

	_, err := scoped.GetLease(ctxA, storage.Ref{ID: lease.ID})
	require.NoError(t, err)

	_, err = scoped.GetLease(ctxB, storage.Ref{ID: lease.ID})
	require.ErrorIs(t, err, storage.ErrNotFound)

	leases, err := scoped.ListLeases(ctxB, storage.LeaseFilter{})
	require.NoError(t, err)
	require.Empty(t, leases)
}

func TestTransitionLease_ExactlyOneWinner(t *testing.T) {
	store := openTestStore(t)
	f := seedFixture(t, store, "alpha")
	lease := seedLease(t, store, f, types.LeasePending)
	ref := storage.Ref{ID: lease.ID, OrganizationID: f.org.ID}

	const attempts = 8
	var wg sync.WaitGroup
	wins := make(chan int64, attempts)
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := store.TransitionLease(context.Background(), ref, types.LeasePending, types.LeaseActive)
			if err != nil {
				errs <- err
				return
			}
			wins <- n
		}()
	}
	wg.Wait()
	close(wins)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	var total int64
	for n := range wins {
		total += n
	}
	require.Equal(t, int64(1), total)

	got, err := store.GetLease(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, types.LeaseActive, got.Status)
}

func TestTransitionLease_WrongFromStatus(t *testing.T) {
	store := openTestStore(t)
	f := seedFixture(t, store, "alpha")
	lease := seedLease(t, store, f, types.LeaseTerminated)

	n, err := store.TransitionLease(context.Background(),
		storage.Ref{ID: lease.ID, OrganizationID: f.org.ID},
		types.LeasePending, types.LeaseActive)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUpdateUnitStatus_CAS(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")
	ref := storage.Ref{ID: f.unit.ID, OrganizationID: f.org.ID}

	n, err := store.UpdateUnitStatus(ctx, ref, types.OccupiableStatuses, types.UnitOccupied)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// Occupied is not occupiable, so a second attempt matches nothing.
	n, err = store.UpdateUnitStatus(ctx, ref, types.OccupiableStatuses, types.UnitOccupied)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSettlePayment(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")
	lease := seedLease(t, store, f, types.LeaseActive)

	p := &types.Payment{
		ID:             uuid.New().String(),
		OrganizationID: f.org.ID,
		LeaseID:        lease.ID,
		Type:           types.PaymentRent,
		Status:         types.PaymentOverdue,
		Amount:         types.Money{AmountCents: 200000, Currency: "USD"},
		DueDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreatePayment(ctx, p))

	ref := storage.Ref{ID: p.ID, OrganizationID: f.org.ID}
	paidAt := time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC)

	n, err := store.SettlePayment(ctx, ref, paidAt)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := store.GetPayment(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, types.PaymentPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	require.True(t, got.PaidAt.Equal(paidAt))

	// paid is terminal; the replayed update matches nothing.
	n, err = store.SettlePayment(ctx, ref, paidAt)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestExpireLeases_Idempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")

	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	expired := seedLease(t, store, f, types.LeasePending)
	_, err := store.TransitionLease(ctx, storage.Ref{ID: expired.ID}, types.LeasePending, types.LeaseActive)
	require.NoError(t, err)
	_, err = store.sqlDB.ExecContext(ctx, `UPDATE leases SET end_date = ? WHERE id = ?`,
		toMillis(end), expired.ID)
	require.NoError(t, err)

	// Open-ended active lease must survive the sweep.
	openEnded := seedLease(t, store, f, types.LeaseActive)

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	n, err := store.ExpireLeases(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = store.ExpireLeases(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	got, err := store.GetLease(ctx, storage.Ref{ID: expired.ID})
	require.NoError(t, err)
	require.Equal(t, types.LeaseExpired, got.Status)

	got, err = store.GetLease(ctx, storage.Ref{ID: openEnded.ID})
	require.NoError(t, err)
	require.Equal(t, types.LeaseActive, got.Status)
}

func TestFlagOverduePayments_Idempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")
	lease := seedLease(t, store, f, types.LeaseActive)

	mkPayment := func(due time.Time, status types.PaymentStatus) *types.Payment {
		p := &types.Payment{
			ID:             uuid.New().String(),
			OrganizationID: f.org.ID,
			LeaseID:        lease.ID,
			Type:           types.PaymentRent,
			Status:         status,
			Amount:         types.Money{AmountCents: 100000, Currency: "USD"},
			DueDate:        due,
		}
		require.NoError(t, store.CreatePayment(ctx, p))
		return p
	}

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := mkPayment(now.AddDate(0, 0, -5), types.PaymentPending)
	future := mkPayment(now.AddDate(0, 0, 5), types.PaymentPending)
	paid := mkPayment(now.AddDate(0, 0, -5), types.PaymentPaid)

	n, err := store.FlagOverduePayments(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = store.FlagOverduePayments(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	got, err := store.GetPayment(ctx, storage.Ref{ID: late.ID})
	require.NoError(t, err)
	require.Equal(t, types.PaymentOverdue, got.Status)

	got, err = store.GetPayment(ctx, storage.Ref{ID: future.ID})
	require.NoError(t, err)
	require.Equal(t, types.PaymentPending, got.Status)

	got, err = store.GetPayment(ctx, storage.Ref{ID: paid.ID})
	require.NoError(t, err)
	require.Equal(t, types.PaymentPaid, got.Status)
}

func TestCreateRenter_DuplicateEmailPerOrg(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a := seedFixture(t, store, "alpha")
	b := seedFixture(t, store, "beta")

	dup := &types.Renter{
		ID:             uuid.New().String(),
		OrganizationID: a.org.ID,
		FullName:       "Someone Else",
		Email:          a.renter.Email,
		Phone:          "+1-555-9999",
	}
	require.ErrorIs(t, store.CreateRenter(ctx, dup), storage.ErrDuplicate)

	// The same email under another organization is fine.
	other := &types.Renter{
		ID:             uuid.New().String(),
		OrganizationID: b.org.ID,
		FullName:       "Someone Else",
		Email:          a.renter.Email,
		Phone:          "+1-555-9998",
	}
	require.NoError(t, store.CreateRenter(ctx, other))
}

func TestInTx_RollbackOnError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")
	lease := seedLease(t, store, f, types.LeasePending)
	ref := storage.Ref{ID: lease.ID, OrganizationID: f.org.ID}

	err := store.InTx(ctx, func(tx storage.Store) error {
		n, err := tx.TransitionLease(ctx, ref, types.LeasePending, types.LeaseActive)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := store.GetLease(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, types.LeasePending, got.Status)
}

func TestAuditLog_AppendAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store, "alpha")

	userID := "user-1"
	entry := &types.AuditLog{
		ID:             uuid.New().String(),
		OrganizationID: f.org.ID,
		UserID:         &userID,
		EntityType:     "lease",
		EntityID:       uuid.New().String(),
		Action:         "LEASE_ACTIVATED",
		Metadata:       []byte(`{"unit_id":"u1"}`),
	}
	require.NoError(t, store.AppendAuditLog(ctx, entry))

	logs, err := store.ListAuditLogs(ctx, storage.AuditFilter{OrganizationID: f.org.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "LEASE_ACTIVATED", logs[0].Action)
	require.NotNil(t, logs[0].UserID)
	require.Equal(t, userID, *logs[0].UserID)

	logs, err = store.ListAuditLogs(ctx, storage.AuditFilter{
		OrganizationID: f.org.ID,
		EntityType:     "payment",
	})
	require.NoError(t, err)
	require.Empty(t, logs)
}
