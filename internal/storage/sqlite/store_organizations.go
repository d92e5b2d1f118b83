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

func (s *Store) CreateOrganization(ctx context.Context, org *types.Organization) error {
	if org.ID == "" {
		return fmt.Errorf("organization id is required")
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	if org.UpdatedAt.IsZero() {
		org.UpdatedAt = org.CreatedAt
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO organizations (id, name, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		org.ID, org.Name, toMillis(org.CreatedAt), toMillis(org.UpdatedAt))
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, id string) (*types.Organization, error) {
	var org types.Organization
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(ctx, `
SELECT id, name, created_at, updated_at
FROM organizations
WHERE id = ?`, id).Scan(&org.ID, &org.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	org.CreatedAt = fromMillis(createdAt)
	org.UpdatedAt = fromMillis(updatedAt)
	return &org, nil
}

func (s *Store) ListOrganizations(ctx context.Context, limit int) ([]types.Organization, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT id, name, created_at, updated_at
FROM organizations
ORDER BY created_at
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []types.Organization
	for rows.Next() {
		var org types.Organization
		var createdAt, updatedAt int64
		if err := rows.Scan(&org.ID, &org.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		org.CreatedAt = fromMillis(createdAt)
		org.UpdatedAt = fromMillis(updatedAt)
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}
