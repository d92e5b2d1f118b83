package sweeper

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/storage/sqlite"
	"github.com/parkrow/backoffice/internal/types"
)

func setup(t *testing.T) (*sqlite.Store, *types.Organization, *types.Lease) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	org := &types.Organization{ID: uuid.New().String(), Name: "Sweep Org"}
	require.NoError(t, db.CreateOrganization(ctx, org))

	prop := &types.Property{ID: uuid.New().String(), OrganizationID: org.ID, Name: "P"}
	require.NoError(t, db.CreateProperty(ctx, prop))

	unit := &types.Unit{
		ID: uuid.New().String(), OrganizationID: org.ID,
		PropertyID: prop.ID, UnitNumber: "1", Status: types.UnitOccupied,
	}
	require.NoError(t, db.CreateUnit(ctx, unit))

	renter := &types.Renter{
		ID: uuid.New().String(), OrganizationID: org.ID,
		FullName: "R", Email: "r@example.com", Phone: "+1-555-0000",
	}
	require.NoError(t, db.CreateRenter(ctx, renter))

	end := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	lease := &types.Lease{
		ID: uuid.New().String(), OrganizationID: org.ID,
		PropertyID: prop.ID, UnitID: unit.ID, RenterID: renter.ID,
		Status:     types.LeaseActive,
		StartDate:  time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    &end,
		RentAmount: types.Money{AmountCents: 100000, Currency: "USD"},
		BillCycle:  types.BillMonthly,
	}
	require.NoError(t, db.CreateLease(ctx, lease))
	return db, org, lease
}

func TestExpireLeasesOnce(t *testing.T) {
	db, org, lease := setup(t)
	ctx := context.Background()
	sw := New(db, 0, 0)

	n, err := sw.ExpireLeasesOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := db.GetLease(ctx, storage.Ref{ID: lease.ID, OrganizationID: org.ID})
	require.NoError(t, err)
	require.Equal(t, types.LeaseExpired, got.Status)

	// A second pass finds nothing left to do.
	n, err = sw.ExpireLeasesOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFlagOverdueOnce(t *testing.T) {
	db, org, lease := setup(t)
	ctx := context.Background()
	sw := New(db, 0, 0)

	payment := &types.Payment{
		ID: uuid.New().String(), OrganizationID: org.ID, LeaseID: lease.ID,
		Type: types.PaymentRent, Status: types.PaymentPending,
		Amount:  types.Money{AmountCents: 100000, Currency: "USD"},
		DueDate: time.Now().UTC().AddDate(0, 0, -3),
	}
	require.NoError(t, db.CreatePayment(ctx, payment))

	n, err := sw.FlagOverdueOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := db.GetPayment(ctx, storage.Ref{ID: payment.ID, OrganizationID: org.ID})
	require.NoError(t, err)
	require.Equal(t, types.PaymentOverdue, got.Status)

	n, err = sw.FlagOverdueOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

// The sweeper spans organizations: leases from different tenants expire in
// the same pass.
func TestSweepSpansOrganizations(t *testing.T) {
	db, _, _ := setup(t)
	ctx := context.Background()

	org2 := &types.Organization{ID: uuid.New().String(), Name: "Second Org"}
	require.NoError(t, db.CreateOrganization(ctx, org2))
	prop2 := &types.Property{ID: uuid.New().String(), OrganizationID: org2.ID, Name: "P2"}
	require.NoError(t, db.CreateProperty(ctx, prop2))
	unit2 := &types.Unit{
		ID: uuid.New().String(), OrganizationID: org2.ID,
		PropertyID: prop2.ID, UnitNumber: "1", Status: types.UnitOccupied,
	}
	require.NoError(t, db.CreateUnit(ctx, unit2))
	renter2 := &types.Renter{
		ID: uuid.New().String(), OrganizationID: org2.ID,
		FullName: "R2", Email: "r2@example.com", Phone: "+1-555-0001",
	}
	require.NoError(t, db.CreateRenter(ctx, renter2))

	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	lease2 := &types.Lease{
		ID: uuid.New().String(), OrganizationID: org2.ID,
		PropertyID: prop2.ID, UnitID: unit2.ID, RenterID: renter2.ID,
		Status:     types.LeaseActive,
		StartDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    &end,
		RentAmount: types.Money{AmountCents: 50000, Currency: "USD"},
		BillCycle:  types.BillMonthly,
	}
	require.NoError(t, db.CreateLease(ctx, lease2))

	sw := New(db, 0, 0)
	n, err := sw.ExpireLeasesOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
