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

const paymentColumns = `id, organization_id, lease_id, type, status,
	amount_cents, currency, due_date, paid_at, created_at, updated_at`

func (s *Store) CreatePayment(ctx context.Context, p *types.Payment) error {
	if p.ID == "" || p.OrganizationID == "" || p.LeaseID == "" {
		return fmt.Errorf("payment id, organization id, and lease id are required")
	}
	if p.Status == "" {
		p.Status = types.PaymentPending
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	var paidAt sql.NullInt64
	if p.PaidAt != nil {
		paidAt = sql.NullInt64{Int64: toMillis(*p.PaidAt), Valid: true}
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO payments (`+paymentColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrganizationID, p.LeaseID, string(p.Type), string(p.Status),
		p.Amount.AmountCents, p.Amount.Currency, toMillis(p.DueDate), paidAt,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

type paymentScanner func(dest ...any) error

func scanPayment(scan paymentScanner) (*types.Payment, error) {
	var p types.Payment
	var typ, status string
	var dueDate, createdAt, updatedAt int64
	var paidAt sql.NullInt64
	err := scan(&p.ID, &p.OrganizationID, &p.LeaseID, &typ, &status,
		&p.Amount.AmountCents, &p.Amount.Currency, &dueDate, &paidAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = types.PaymentType(typ)
	p.Status = types.PaymentStatus(status)
	p.DueDate = fromMillis(dueDate)
	if paidAt.Valid {
		value := fromMillis(paidAt.Int64)
		p.PaidAt = &value
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func (s *Store) GetPayment(ctx context.Context, ref storage.Ref) (*types.Payment, error) {
	row := s.q.QueryRowContext(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE id = ?1 AND (?2 = '' OR organization_id = ?2)`, ref.ID, ref.OrganizationID)
	p, err := scanPayment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, f storage.PaymentFilter) ([]types.Payment, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE (?1 = '' OR organization_id = ?1)
  AND (?2 = '' OR lease_id = ?2)
  AND (?3 = '' OR status = ?3)
ORDER BY due_date
LIMIT ?4`, f.OrganizationID, f.LeaseID, string(f.Status), f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []types.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// SettlePayment marks the payment paid only when its current status is still
// settleable. The affected-row count resolves concurrent settlement attempts.
func (s *Store) SettlePayment(ctx context.Context, ref storage.Ref, paidAt time.Time) (int64, error) {
	args := []any{string(types.PaymentPaid), toMillis(paidAt.UTC()),
		toMillis(time.Now().UTC()), ref.ID, ref.OrganizationID}
	for _, st := range types.SettleableStatuses {
		args = append(args, string(st))
	}
	res, err := s.q.ExecContext(ctx, fmt.Sprintf(`
UPDATE payments
SET status = ?1, paid_at = ?2, updated_at = ?3
WHERE id = ?4 AND (?5 = '' OR organization_id = ?5) AND status IN (%s)`,
		statusPlaceholders(len(types.SettleableStatuses))), args...)
	if err != nil {
		return 0, fmt.Errorf("settle payment: %w", err)
	}
	return res.RowsAffected()
}

// FlagOverduePayments bulk-transitions pending payments past their due date.
// Reruns affect 0 rows because flagged rows no longer match the predicate.
func (s *Store) FlagOverduePayments(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
UPDATE payments
SET status = ?1, updated_at = ?2
WHERE status = ?3 AND due_date < ?4`,
		string(types.PaymentOverdue), toMillis(now.UTC()),
		string(types.PaymentPending), toMillis(now.UTC()))
	if err != nil {
		return 0, fmt.Errorf("flag overdue payments: %w", err)
	}
	return res.RowsAffected()
}
