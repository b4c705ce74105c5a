package event

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/agenticaihome/agenticaihome-v2/sdk/log"
)

// Handler is a function that processes events
type Handler func(ctx context.Context, e Event)

// Bus manages event subscriptions and dispatching. Handlers run on their own
// goroutines, bounded by maxWorkers, and never block the publisher beyond
// waiting for a free worker slot.
type Bus struct {
	subscribers      map[EventType][]Handler // Type-specific handlers
	wildcardHandlers []Handler               // Handlers for all events
	mu               sync.RWMutex            // Protects concurrent access
	logger           log.Logger              // Logger for event operations
	workerPool       chan struct{}           // Limits concurrent handler goroutines
	maxWorkers       int                     // Maximum number of concurrent workers
	closed           bool                    // Set by Close; later events are dropped
}

// NewBus creates a new event bus
func NewBus(ctx context.Context, logger log.Logger, maxWorkers int) *Bus {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	if maxWorkers <= 0 {
		maxWorkers = 50
	}

	logger.Debug(ctx, "Creating new event bus", "maxWorkers", maxWorkers)

	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      logger,
		workerPool:  make(chan struct{}, maxWorkers),
		maxWorkers:  maxWorkers,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(ctx context.Context, eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(ctx, "Subscribing handler to event type", "eventType", eventType)
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (b *Bus) SubscribeAll(ctx context.Context, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(ctx, "Subscribing handler to all event types")
	b.wildcardHandlers = append(b.wildcardHandlers, handler)
}

// safelyCallHandler executes a handler with panic recovery
func (b *Bus) safelyCallHandler(ctx context.Context, handler Handler, event Event) {
	b.workerPool <- struct{}{}

	go func() {
		defer func() {
			<-b.workerPool

			if r := recover(); r != nil {
				b.logger.Error(ctx, "Event handler panicked", "error", r, "eventType", event.Type, "stackTrace", string(debug.Stack()))
			}
		}()

		// Each handler gets its own copy so it may keep or mutate Data.
		handler(ctx, copyEvent(event))
	}()
}

// copyEvent creates a deep copy of an event
func copyEvent(e Event) Event {
	copied := e
	copied.Data = make(EventData, len(e.Data))
	for k, v := range e.Data {
		copied.Data[k] = v
	}
	return copied
}

// Publish sends an event to all relevant subscribers
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Debug(ctx, "Dropping event published after close", "type", event.Type, "taskID", event.TaskID)
		return
	}

	b.logger.Debug(ctx, "Publishing event", "type", event.Type, "taskID", event.TaskID, "txID", event.TxID)

	for _, handler := range b.subscribers[event.Type] {
		b.safelyCallHandler(ctx, handler, event)
	}
	for _, handler := range b.wildcardHandlers {
		b.safelyCallHandler(ctx, handler, event)
	}
}

// Emit builds an event and publishes it.
func (b *Bus) Emit(ctx context.Context, eventType EventType, taskID, txID string, data EventData) {
	b.Publish(ctx, NewEvent(eventType, taskID, txID, data))
}

// WaitForHandlers waits for all running event handlers to complete
func (b *Bus) WaitForHandlers(ctx context.Context) {
	b.logger.Debug(ctx, "Waiting for all handlers to complete")

	// Holding every worker slot means no handler is running.
	for i := 0; i < b.maxWorkers; i++ {
		b.workerPool <- struct{}{}
	}
	for i := 0; i < b.maxWorkers; i++ {
		<-b.workerPool
	}
}

// Close stops accepting events and waits for running handlers
func (b *Bus) Close(ctx context.Context) {
	b.logger.Debug(ctx, "Closing event bus")

	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.WaitForHandlers(ctx)
}
