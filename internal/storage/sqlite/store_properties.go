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

func (s *Store) CreateProperty(ctx context.Context, p *types.Property) error {
	if p.ID == "" || p.OrganizationID == "" {
		return fmt.Errorf("property id and organization id are required")
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO properties (id, organization_id, name, address_line1, city, state, postal_code, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrganizationID, p.Name, p.AddressLine1, p.City, p.State, p.PostalCode,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func scanProperty(row *sql.Row) (*types.Property, error) {
	var p types.Property
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.AddressLine1, &p.City,
		&p.State, &p.PostalCode, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan property: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func (s *Store) GetProperty(ctx context.Context, ref storage.Ref) (*types.Property, error) {
	return scanProperty(s.q.QueryRowContext(ctx, `
SELECT id, organization_id, name, address_line1, city, state, postal_code, created_at, updated_at
FROM properties
WHERE id = ?1 AND (?2 = '' OR organization_id = ?2)`, ref.ID, ref.OrganizationID))
}

func (s *Store) ListProperties(ctx context.Context, f storage.PropertyFilter) ([]types.Property, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT id, organization_id, name, address_line1, city, state, postal_code, created_at, updated_at
FROM properties
WHERE (?1 = '' OR organization_id = ?1)
ORDER BY created_at
LIMIT ?2`, f.OrganizationID, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var props []types.Property
	for rows.Next() {
		var p types.Property
		var createdAt, updatedAt int64
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.AddressLine1, &p.City,
			&p.State, &p.PostalCode, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		p.CreatedAt = fromMillis(createdAt)
		p.UpdatedAt = fromMillis(updatedAt)
		props = append(props, p)
	}
	return props, rows.Err()
}
