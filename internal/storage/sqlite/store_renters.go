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

func (s *Store) CreateRenter(ctx context.Context, r *types.Renter) error {
	if r.ID == "" || r.OrganizationID == "" {
		return fmt.Errorf("renter id and organization id are required")
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO renters (id, organization_id, full_name, email, phone, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OrganizationID, r.FullName, r.Email, r.Phone,
		toMillis(r.CreatedAt), toMillis(r.UpdatedAt))
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert renter: %w", err)
	}
	return nil
}

func (s *Store) GetRenter(ctx context.Context, ref storage.Ref) (*types.Renter, error) {
	var r types.Renter
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(ctx, `
SELECT id, organization_id, full_name, email, phone, created_at, updated_at
FROM renters
WHERE id = ?1 AND (?2 = '' OR organization_id = ?2)`, ref.ID, ref.OrganizationID).
		Scan(&r.ID, &r.OrganizationID, &r.FullName, &r.Email, &r.Phone, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get renter: %w", err)
	}
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return &r, nil
}

func (s *Store) ListRenters(ctx context.Context, orgID string, limit int) ([]types.Renter, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT id, organization_id, full_name, email, phone, created_at, updated_at
FROM renters
WHERE (?1 = '' OR organization_id = ?1)
ORDER BY full_name
LIMIT ?2`, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list renters: %w", err)
	}
	defer rows.Close()

	var renters []types.Renter
	for rows.Next() {
		var r types.Renter
		var createdAt, updatedAt int64
		if err := rows.Scan(&r.ID, &r.OrganizationID, &r.FullName, &r.Email, &r.Phone,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan renter: %w", err)
		}
		r.CreatedAt = fromMillis(createdAt)
		r.UpdatedAt = fromMillis(updatedAt)
		renters = append(renters, r)
	}
	return renters, rows.Err()
}
