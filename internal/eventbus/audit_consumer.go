package eventbus

import (
	"context"
	"log"

	"github.com/parkrow/backoffice/internal/event"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/types"
)

// AuditConsumer persists audit events as append-only audit_logs rows. A
// failed write is logged at warning level and dropped; it never propagates
// back to the operation that emitted the event.
type AuditConsumer struct {
	store storage.AuditLogStore
}

// NewAuditConsumer creates a consumer writing to the given store.
func NewAuditConsumer(store storage.AuditLogStore) *AuditConsumer {
	return &AuditConsumer{store: store}
}

// HandleEvent appends the event to the audit log.
func (c *AuditConsumer) HandleEvent(ctx context.Context, evt event.AuditEvent) error {
	entry := &types.AuditLog{
		ID:             evt.ID,
		OrganizationID: evt.OrganizationID,
		UserID:         evt.UserID,
		EntityType:     evt.EntityType,
		EntityID:       evt.EntityID,
		Action:         evt.Action,
		Metadata:       evt.Metadata,
		CreatedAt:      evt.OccurredAt,
	}
	if err := c.store.AppendAuditLog(ctx, entry); err != nil {
		log.Printf("audit: WARN write failed for %s on %s/%s: %v",
			evt.Action, evt.EntityType, evt.EntityID, err)
	}
	return nil
}
