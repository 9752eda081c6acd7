package events

import (
	"context"
	"sync"

	"starsbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange       EventType = "balance_change"
	EventTypeUserRegistered      EventType = "user_registered"
	EventTypeWithdrawalRequested EventType = "withdrawal_requested"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a committed ledger entry
type BalanceChangeEvent struct {
	UserID          int64
	ChangeAmount    int64
	NewBalance      int64
	TransactionType models.TransactionType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserRegisteredEvent represents a first-time admission
type UserRegisteredEvent struct {
	UserID     int64
	Username   string
	ReferrerID *int64
}

func (e UserRegisteredEvent) Type() EventType {
	return EventTypeUserRegistered
}

// WithdrawalRequestedEvent represents a newly created payout request
type WithdrawalRequestedEvent struct {
	WithdrawalID int64
	UserID       int64
	Amount       int64
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run in their
// own goroutines so a slow subscriber never blocks the ledger path.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and only
// forwards them to the real bus once the database transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional bus over the real bus.
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush or Discard.
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful commit.
// Events are emitted with a background context because the transaction
// context may already be done.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops all pending events; called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
