package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// SettlementEvent announces a verified payment to in-process consumers.
type SettlementEvent struct {
	OrderID        uuid.UUID
	GatewayOrderID string
	TenantID       uuid.UUID
	LandlordID     uuid.UUID
	PropertyID     uuid.UUID
	PaymentType    enums.PaymentType
	AmountRupees   int64
	OccurredAt     time.Time
}

// SettlementHandler consumes a settlement event. Handlers run synchronously in
// subscription order; a failing handler does not stop the others.
type SettlementHandler func(ctx context.Context, evt SettlementEvent) error

// Bus is an in-process fan-out for settlement events.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]SettlementHandler
	order  []int
	logger *logger.Logger
}

// NewBus creates an empty settlement bus.
func NewBus(logg *logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]SettlementHandler),
		logger: logg,
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
// After unsubscribe returns, the handler will not be invoked by later publishes.
func (b *Bus) Subscribe(handler SettlementHandler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, existing := range b.order {
				if existing == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers the event to every currently subscribed handler in
// subscription order. Membership is re-checked immediately before each
// delivery, so a handler unsubscribed mid-dispatch is skipped.
func (b *Bus) Publish(ctx context.Context, evt SettlementEvent) {
	b.mu.Lock()
	ids := make([]int, len(b.order))
	copy(ids, b.order)
	b.mu.Unlock()

	for _, id := range ids {
		b.mu.Lock()
		handler, ok := b.subs[id]
		b.mu.Unlock()
		if !ok {
			continue
		}
		if err := handler(ctx, evt); err != nil && b.logger != nil {
			fields := map[string]any{
				"order_id":     evt.OrderID.String(),
				"landlord_id":  evt.LandlordID.String(),
				"payment_type": evt.PaymentType.String(),
			}
			b.logger.Error(b.logger.WithFields(ctx, fields), "settlement handler failed", err)
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
