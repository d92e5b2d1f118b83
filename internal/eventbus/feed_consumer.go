package eventbus

import (
	"context"
	"sync"

	"github.com/parkrow/backoffice/internal/event"
)

// FeedConsumer fans audit events out to live subscribers, e.g. WebSocket
// connections streaming the audit feed. Slow subscribers lose events rather
// than back-pressuring the bus.
type FeedConsumer struct {
	mu   sync.Mutex
	subs map[int]chan event.AuditEvent
	next int
}

// NewFeedConsumer creates an empty feed fan-out.
func NewFeedConsumer() *FeedConsumer {
	return &FeedConsumer{subs: make(map[int]chan event.AuditEvent)}
}

// Subscribe registers a live subscriber. The returned cancel function must
// be called when the subscriber goes away.
func (f *FeedConsumer) Subscribe() (<-chan event.AuditEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan event.AuditEvent, 16)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// HandleEvent delivers the event to every subscriber without blocking.
func (f *FeedConsumer) HandleEvent(_ context.Context, evt event.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- evt:
		default:
			// Subscriber buffer full; drop for this subscriber.
		}
	}
	return nil
}
