// Package eventbus provides an in-process pub/sub bus for audit events.
// The lifecycle services publish after commit; subscribers process
// asynchronously, so a slow or failing sink can never hold up or roll back
// the transaction that produced the fact.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/parkrow/backoffice/internal/event"
)

// Handler processes an audit event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.AuditEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.AuditEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.AuditEvent) error {
	return f(ctx, evt)
}

// Bus is a simple in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers from a single consumer
// goroutine, which serialises downstream writes and avoids concurrent-write
// contention on SQLite.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.AuditEvent
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a new Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.AuditEvent, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Record publishes an audit event without blocking. If the buffer is full
// the event is dropped and a warning is logged; observability may degrade
// but the caller's operation is unaffected.
func (b *Bus) Record(_ context.Context, evt event.AuditEvent) {
	select {
	case b.events <- evt:
	default:
		log.Printf("eventbus: WARN buffer full, dropping event %s (%s)", evt.Action, evt.ID)
	}
}

var _ event.Sink = (*Bus)(nil)

// Start begins the consumer goroutine. It processes events until the
// context is cancelled, draining anything already buffered before exiting.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt := <-b.events:
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has drained and exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.AuditEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			log.Printf("eventbus: WARN %s handler error for %s: %v", s.name, evt.Action, err)
		}
	}
}
