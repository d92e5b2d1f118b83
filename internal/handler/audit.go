package handler

import (
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/parkrow/backoffice/internal/eventbus"
	"github.com/parkrow/backoffice/internal/storage"
	"github.com/parkrow/backoffice/internal/tenancy"
)

// AuditHandler serves the audit log read API and the live audit feed.
type AuditHandler struct {
	store storage.Store
	feed  *eventbus.FeedConsumer
}

// NewAuditHandler creates a new AuditHandler. feed may be nil, in which case
// the live feed endpoint reports unavailable.
func NewAuditHandler(store storage.Store, feed *eventbus.FeedConsumer) *AuditHandler {
	return &AuditHandler{store: store, feed: feed}
}

// ListAuditLogs returns audit facts for the caller's organization, newest
// first, optionally filtered by entity.
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	f := storage.AuditFilter{
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
		Limit:      parseLimit(r),
	}
	logs, err := h.store.ListAuditLogs(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Feed upgrades to WebSocket and streams audit facts for the caller's
// organization as they are committed. Slow readers miss events rather than
// slowing the bus down.
func (h *AuditHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeError(w, http.StatusServiceUnavailable, "FEED_UNAVAILABLE", "audit feed is not enabled")
		return
	}
	orgID, ok := tenancy.OrganizationID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing tenant context")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("audit feed: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	events, cancel := h.feed.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			if evt.OrganizationID != orgID {
				continue
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				log.Printf("audit feed: write error: %v", err)
				return
			}
		}
	}
}
