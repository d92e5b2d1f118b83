package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// AppendAuditLog inserts one immutable audit fact. There is no update or
// delete path for audit rows.
func (s *Store) AppendAuditLog(ctx context.Context, entry *types.AuditLog) error {
	if entry.ID == "" {
		return fmt.Errorf("audit log id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var userID sql.NullString
	if entry.UserID != nil {
		userID = sql.NullString{String: *entry.UserID, Valid: true}
	}
	var metadata sql.NullString
	if len(entry.Metadata) > 0 {
		metadata = sql.NullString{String: string(entry.Metadata), Valid: true}
	}

	_, err := s.q.ExecContext(ctx, `
INSERT INTO audit_logs (id, organization_id, user_id, entity_type, entity_id, action, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OrganizationID, userID, entry.EntityType, entry.EntityID,
		entry.Action, metadata, toMillis(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, f storage.AuditFilter) ([]types.AuditLog, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	rows, err := s.q.QueryContext(ctx, `
SELECT id, organization_id, user_id, entity_type, entity_id, action, metadata, created_at
FROM audit_logs
WHERE (?1 = '' OR organization_id = ?1)
  AND (?2 = '' OR entity_type = ?2)
  AND (?3 = '' OR entity_id = ?3)
ORDER BY created_at DESC
LIMIT ?4`, f.OrganizationID, f.EntityType, f.EntityID, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []types.AuditLog
	for rows.Next() {
		var e types.AuditLog
		var userID, metadata sql.NullString
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.OrganizationID, &userID, &e.EntityType, &e.EntityID,
			&e.Action, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if userID.Valid {
			e.UserID = &userID.String
		}
		if metadata.Valid {
			e.Metadata = []byte(metadata.String)
		}
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
