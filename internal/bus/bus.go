// Package bus provides the in-process notification bus used to tell
// observers that ledger state changed. Delivery is synchronous and in
// subscription order; payloads are the affected user's identifier.
package bus

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names an observable state change.
type Event string

const (
	// EventAccountUpdated fires after a deposit, withdrawal, or transfer
	// commits. Payload: the owning user's id (once per distinct user).
	EventAccountUpdated Event = "account_updated"

	// EventUserDeleted fires after a user and their accounts are removed.
	// Payload: the deleted user's id.
	EventUserDeleted Event = "user_deleted"
)

// Handler receives the affected user's id.
type Handler func(userId int64)

type subscriber struct {
	id      uuid.UUID
	handler Handler
}

// Bus is an explicit pub/sub registry with a bounded lifecycle: construct it
// once, hand it by reference to publishers and observers. There is no
// process-global instance.
type Bus struct {
	mu          sync.Mutex
	subscribers map[Event][]subscriber
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[Event][]subscriber),
	}
}

// Subscription is the handle returned by Subscribe. Observers must Cancel
// their subscriptions before they are discarded; the bus itself lives for
// the whole process and never drops registrations on its own.
type Subscription struct {
	bus   *Bus
	event Event
	id    uuid.UUID
}

// Subscribe registers the handler for an event and returns its handle.
// Registering the same function twice is allowed and yields two independent
// subscriptions, each invoked on every notify.
func (b *Bus) Subscribe(event Event, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := subscriber{id: uuid.New(), handler: handler}
	b.subscribers[event] = append(b.subscribers[event], sub)

	return &Subscription{bus: b, event: event, id: sub.id}
}

// Cancel removes exactly this registration. Cancelling twice, or cancelling
// a subscription whose event has no subscribers left, is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subscribers[s.event]
	for i, sub := range subs {
		if sub.id == s.id {
			s.bus.subscribers[s.event] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Notify invokes every current subscriber for the event, in subscription
// order, synchronously. A panicking subscriber is recovered and logged so it
// cannot block delivery to the rest.
func (b *Bus) Notify(event Event, userId int64) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subscribers[event]))
	copy(subs, b.subscribers[event])
	b.mu.Unlock()

	for _, sub := range subs {
		deliver(event, sub, userId)
	}
}

func deliver(event Event, sub subscriber, userId int64) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Subscriber panicked during notification",
				zap.String("event", string(event)),
				zap.String("subscription_id", sub.id.String()),
				zap.Any("panic", r))
		}
	}()
	sub.handler(userId)
}
