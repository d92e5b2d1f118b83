package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

const leaseColumns = `id, organization_id, property_id, unit_id, renter_id, status,
	start_date, end_date, rent_amount_cents, rent_currency,
	deposit_amount_cents, deposit_currency, bill_cycle, created_at, updated_at`

func (s *Store) CreateLease(ctx context.Context, l *types.Lease) error {
	if l.ID == "" || l.OrganizationID == "" {
		return fmt.Errorf("lease id and organization id are required")
	}
	if l.Status == "" {
		l.Status = types.LeasePending
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}

	var endDate sql.NullInt64
	if l.EndDate != nil {
		endDate = sql.NullInt64{Int64: toMillis(*l.EndDate), Valid: true}
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO leases (`+leaseColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OrganizationID, l.PropertyID, l.UnitID, l.RenterID, string(l.Status),
		toMillis(l.StartDate), endDate,
		l.RentAmount.AmountCents, l.RentAmount.Currency,
		l.DepositAmount.AmountCents, l.DepositAmount.Currency,
		string(l.BillCycle), toMillis(l.CreatedAt), toMillis(l.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert lease: %w", err)
	}
	return nil
}

type leaseScanner func(dest ...any) error

func scanLease(scan leaseScanner) (*types.Lease, error) {
	var l types.Lease
	var status, billCycle string
	var startDate, createdAt, updatedAt int64
	var endDate sql.NullInt64
	err := scan(&l.ID, &l.OrganizationID, &l.PropertyID, &l.UnitID, &l.RenterID, &status,
		&startDate, &endDate, &l.RentAmount.AmountCents, &l.RentAmount.Currency,
		&l.DepositAmount.AmountCents, &l.DepositAmount.Currency,
		&billCycle, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = types.LeaseStatus(status)
	l.BillCycle = types.BillCycle(billCycle)
	l.StartDate = fromMillis(startDate)
	if endDate.Valid {
		value := fromMillis(endDate.Int64)
		l.EndDate = &value
	}
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return &l, nil
}

func (s *Store) GetLease(ctx context.Context, ref storage.Ref) (*types.Lease, error) {
	row := s.q.QueryRowContext(ctx, `
SELECT `+leaseColumns+`
FROM leases
WHERE id = ?1 AND (?2 = '' OR organization_id = ?2)`, ref.ID, ref.OrganizationID)
	l, err := scanLease(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lease: %w", err)
	}
	return l, nil
}

func (s *Store) ListLeases(ctx context.Context, f storage.LeaseFilter) ([]types.Lease, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT `+leaseColumns+`
FROM leases
WHERE (?1 = '' OR organization_id = ?1)
  AND (?2 = '' OR unit_id = ?2)
  AND (?3 = '' OR status = ?3)
ORDER BY created_at
LIMIT ?4`, f.OrganizationID, f.UnitID, string(f.Status), f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	defer rows.Close()

	var leases []types.Lease
	for rows.Next() {
		l, err := scanLease(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan lease: %w", err)
		}
		leases = append(leases, *l)
	}
	return leases, rows.Err()
}

// TransitionLease performs the compare-and-set status transition. The
// affected-row count is the race-resolution signal: under any number of
// concurrent attempts exactly one caller observes 1.
func (s *Store) TransitionLease(ctx context.Context, ref storage.Ref, from, to types.LeaseStatus) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
UPDATE leases
SET status = ?1, updated_at = ?2
WHERE id = ?3 AND (?4 = '' OR organization_id = ?4) AND status = ?5`,
		string(to), toMillis(time.Now().UTC()), ref.ID, ref.OrganizationID, string(from))
	if err != nil {
		return 0, fmt.Errorf("transition lease: %w", err)
	}
	return res.RowsAffected()
}

// ExpireLeases bulk-transitions active leases past their end date. The WHERE
// clause excludes rows that already transitioned, so reruns affect 0 rows.
func (s *Store) ExpireLeases(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
UPDATE leases
SET status = ?1, updated_at = ?2
WHERE status = ?3 AND end_date IS NOT NULL AND end_date < ?4`,
		string(types.LeaseExpired), toMillis(now.UTC()),
		string(types.LeaseActive), toMillis(now.UTC()))
	if err != nil {
		return 0, fmt.Errorf("expire leases: %w", err)
	}
	return res.RowsAffected()
}
