package events

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// DefaultBufferSize is the per-subscriber channel buffer used when a
// subscriber does not specify one.
const DefaultBufferSize = 64

// Bus distributes events to subscribers with optional filtering.
//
// All methods are safe for concurrent use. Publish never blocks on a slow
// subscriber: when a subscriber's buffer is full the event is dropped for
// that subscriber only.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	closed      bool
}

type subscription struct {
	ch     chan Event
	filter Filter
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]*subscription),
	}
}

// Publish sends an event to all matching subscribers. It returns an error
// only when the bus is closed.
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	for _, sub := range b.subscribers {
		if !sub.filter.Matches(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Subscriber buffer full; drop for this subscriber only.
		}
	}

	return nil
}

// Subscribe creates a subscription with optional filtering. The returned
// cleanup function must be called to release the subscription.
func (b *Bus) Subscribe(filter Filter, bufferSize int) (<-chan Event, func()) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	sub := &subscription{
		ch:     make(chan Event, bufferSize),
		filter: filter,
	}
	id := uuid.New().String()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subscribers[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub.ch)
			}
			b.mu.Unlock()
		})
	}

	return sub.ch, cancel
}

// Close shuts down the bus and all subscriptions. Publish fails afterwards.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, sub := range b.subscribers {
		delete(b.subscribers, id)
		close(sub.ch)
	}

	return nil
}
