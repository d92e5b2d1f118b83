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

func (s *Store) CreateUnit(ctx context.Context, u *types.Unit) error {
	if u.ID == "" || u.OrganizationID == "" || u.PropertyID == "" {
		return fmt.Errorf("unit id, organization id, and property id are required")
	}
	if u.Status == "" {
		u.Status = types.UnitVacant
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO units (id, organization_id, property_id, unit_number, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganizationID, u.PropertyID, u.UnitNumber, string(u.Status),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (s *Store) GetUnit(ctx context.Context, ref storage.Ref) (*types.Unit, error) {
	var u types.Unit
	var status string
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(ctx, `
SELECT id, organization_id, property_id, unit_number, status, created_at, updated_at
FROM units
WHERE id = ?1 AND (?2 = '' OR organization_id = ?2)`, ref.ID, ref.OrganizationID).
		Scan(&u.ID, &u.OrganizationID, &u.PropertyID, &u.UnitNumber, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	u.Status = types.UnitStatus(status)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (s *Store) ListUnits(ctx context.Context, f storage.UnitFilter) ([]types.Unit, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT id, organization_id, property_id, unit_number, status, created_at, updated_at
FROM units
WHERE (?1 = '' OR organization_id = ?1)
  AND (?2 = '' OR property_id = ?2)
ORDER BY unit_number
LIMIT ?3`, f.OrganizationID, f.PropertyID, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []types.Unit
	for rows.Next() {
		var u types.Unit
		var status string
		var createdAt, updatedAt int64
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.PropertyID, &u.UnitNumber,
			&status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		u.Status = types.UnitStatus(status)
		u.CreatedAt = fromMillis(createdAt)
		u.UpdatedAt = fromMillis(updatedAt)
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateUnitStatus conditionally transitions the unit, reporting how many
// rows changed. Zero means the unit was missing, out of scope, or not in one
// of the from statuses.
func (s *Store) UpdateUnitStatus(ctx context.Context, ref storage.Ref, from []types.UnitStatus, to types.UnitStatus) (int64, error) {
	if len(from) == 0 {
		return 0, fmt.Errorf("at least one source status is required")
	}

	args := []any{string(to), toMillis(time.Now().UTC()), ref.ID, ref.OrganizationID}
	for _, st := range from {
		args = append(args, string(st))
	}
	res, err := s.q.ExecContext(ctx, fmt.Sprintf(`
UPDATE units
SET status = ?1, updated_at = ?2
WHERE id = ?3 AND (?4 = '' OR organization_id = ?4) AND status IN (%s)`,
		statusPlaceholders(len(from))), args...)
	if err != nil {
		return 0, fmt.Errorf("update unit status: %w", err)
	}
	return res.RowsAffected()
}
