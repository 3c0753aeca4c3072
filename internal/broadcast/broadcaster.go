package broadcast

import (
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Subscriber receives the events of one order.
//
// Send must not block indefinitely: the broadcaster holds the order's channel
// lock while delivering, so a stuck subscriber would stall that order's
// events. Implementations back Send with a bounded buffer and report an error
// when it overflows; a Send error drops the subscriber.
type Subscriber interface {
	// ID identifies the subscriber within one order's subscription set.
	ID() string

	// Send delivers one event.
	Send(event Event) error
}

// Broadcaster fans tracking events out per order. It implements
// ports.EventPublisher for the command handlers and the simulator.
//
// Events of one order are serialized under that order's lock: the sequence
// counter and the fan-out are a single critical section, so every subscriber
// observes the order's events in sequence order.
type Broadcaster struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*orderChannel
	logger *slog.Logger
}

type orderChannel struct {
	mu          sync.Mutex
	seq         uint64
	subscribers map[string]Subscriber

	// closed marks a channel that was pruned from the orders map. A caller
	// holding a stale pointer must re-fetch instead of using it.
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		orders: make(map[kernel.UUID]*orderChannel),
		logger: logger.With("component", "broadcaster"),
	}
}

// Subscribe registers the subscriber for the order's events. Subscribing the
// same subscriber ID twice replaces the previous registration; the sequence
// counter is unaffected.
func (b *Broadcaster) Subscribe(orderID kernel.UUID, sub Subscriber) {
	for {
		ch := b.channel(orderID)

		ch.mu.Lock()
		if ch.closed {
			ch.mu.Unlock()
			continue
		}
		ch.subscribers[sub.ID()] = sub
		ch.mu.Unlock()
		return
	}
}

// Unsubscribe removes the subscriber from the order's events. Unsubscribing
// an unknown subscriber is a no-op. The order's channel is pruned when its
// last subscriber leaves, so the map tracks live interest, not all-time
// order count.
func (b *Broadcaster) Unsubscribe(orderID kernel.UUID, subscriberID string) {
	b.mu.RLock()
	ch := b.orders[orderID]
	b.mu.RUnlock()
	if ch == nil {
		return
	}

	ch.mu.Lock()
	delete(ch.subscribers, subscriberID)
	if len(ch.subscribers) == 0 {
		ch.closed = true
	}
	closed := ch.closed
	ch.mu.Unlock()

	if closed {
		b.prune(orderID, ch)
	}
}

// PublishPosition delivers a position update to the order's subscribers.
func (b *Broadcaster) PublishPosition(orderID kernel.UUID, position kernel.Coordinate, at time.Time) {
	for {
		ch := b.channel(orderID)

		ch.mu.Lock()
		if ch.closed {
			ch.mu.Unlock()
			continue
		}

		ch.seq++
		b.deliver(orderID, ch, newPositionEvent(orderID, ch.seq, position, at))
		ch.mu.Unlock()
		return
	}
}

// PublishStatus delivers a status-change notification to the order's
// subscribers. A final status closes the order's channel after delivery:
// nothing more will ever be published, so the entry is released.
func (b *Broadcaster) PublishStatus(orderID kernel.UUID, status order.Status, message string) {
	for {
		ch := b.channel(orderID)

		ch.mu.Lock()
		if ch.closed {
			ch.mu.Unlock()
			continue
		}

		ch.seq++
		b.deliver(orderID, ch, newStatusEvent(orderID, ch.seq, status.String(), message, time.Now()))
		final := status.IsFinal()
		if final {
			ch.closed = true
		}
		ch.mu.Unlock()

		if final {
			b.prune(orderID, ch)
		}
		return
	}
}

// ActiveOrders reports how many orders currently hold an open channel.
func (b *Broadcaster) ActiveOrders() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// prune drops a closed channel from the orders map. The pointer comparison
// keeps a channel recreated in the meantime intact.
func (b *Broadcaster) prune(orderID kernel.UUID, ch *orderChannel) {
	b.mu.Lock()
	if b.orders[orderID] == ch {
		delete(b.orders, orderID)
	}
	b.mu.Unlock()
}

// deliver fans one event out under the channel lock. A subscriber whose Send
// fails is removed; the remaining subscribers still receive the event.
func (b *Broadcaster) deliver(orderID kernel.UUID, ch *orderChannel, event Event) {
	for id, sub := range ch.subscribers {
		if err := sub.Send(event); err != nil {
			delete(ch.subscribers, id)
			b.logger.Warn("dropping subscriber",
				"orderID", orderID, "subscriberID", id, "error", err)
		}
	}
}

func (b *Broadcaster) channel(orderID kernel.UUID) *orderChannel {
	b.mu.RLock()
	ch := b.orders[orderID]
	b.mu.RUnlock()
	if ch != nil {
		return ch
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if ch = b.orders[orderID]; ch == nil {
		ch = &orderChannel{subscribers: make(map[string]Subscriber)}
		b.orders[orderID] = ch
	}
	return ch
}
