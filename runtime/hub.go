package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"sync"
)

const DefaultHubCapacity = 1000

// closedSignal is handed out by Ready when data is already available.
var closedSignal = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Hub is a bounded multi-producer / multi-consumer broadcast.
// Every published message gets a sequence number and is kept in a ring of
// `capacity` slots. Subscriptions only hold a cursor into that sequence, so a
// publish never waits on a reader: a reader that falls more than `capacity`
// messages behind is told how many it missed on its next receive.
//
// Hub is safe for concurrent use by multiple goroutines.
type Hub struct {
	mu          sync.Mutex
	ring        []domain.Message
	tail        uint64 // sequence number of the next published message
	subscribers int
	notify      chan struct{} // closed and replaced on every publish
	closed      bool
}

func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = DefaultHubCapacity
	}
	return &Hub{
		ring:   make([]domain.Message, capacity),
		notify: make(chan struct{}),
	}
}

// Publish appends the message to the backlog and wakes every waiting subscriber.
// It returns the number of subscriptions that can observe the message.
// With zero subscribers the message is dropped and ErrNoSubscribers returned.
func (h *Hub) Publish(msg domain.Message) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.ErrHubClosed
	}
	if h.subscribers == 0 {
		return 0, errors.ErrNoSubscribers
	}

	h.ring[h.tail%uint64(len(h.ring))] = msg
	h.tail++
	h.wakeLocked()
	return h.subscribers, nil
}

// Subscribe returns a subscription positioned after the latest published message.
func (h *Hub) Subscribe() (contract.ISubscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.ErrHubClosed
	}
	h.subscribers++
	return &Subscription{hub: h, next: h.tail}, nil
}

// Close wakes all subscribers. Pending messages can still be drained,
// after which every receive reports ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.wakeLocked()
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subscribers
}

// Len returns the number of messages currently retained in the backlog.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int(h.retainedLocked())
}

func (h *Hub) Capacity() int {
	return len(h.ring)
}

func (h *Hub) wakeLocked() {
	close(h.notify)
	h.notify = make(chan struct{})
}

func (h *Hub) retainedLocked() uint64 {
	if h.tail < uint64(len(h.ring)) {
		return h.tail
	}
	return uint64(len(h.ring))
}

// Subscription is a private cursor into the hub stream.
// It must be owned by exactly one session and released with Close.
type Subscription struct {
	hub      *Hub
	next     uint64 // guarded by hub.mu
	released bool   // guarded by hub.mu
}

// Ready returns a channel that is closed once a message is pending for this
// subscription or the hub is closed. It is meant to sit in a select.
func (s *Subscription) Ready() <-chan struct{} {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.released || h.closed || s.next < h.tail {
		return closedSignal
	}
	return h.notify
}

// TryReceive returns the next pending message without waiting.
// It reports a *errors.LagError when the backlog overflowed the cursor,
// ErrEmpty when nothing is pending and ErrHubClosed once the hub is closed
// and drained.
func (s *Subscription) TryReceive() (domain.Message, error) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.released {
		return domain.Message{}, errors.ErrSessionClosed
	}

	oldest := h.tail - h.retainedLocked()
	if s.next < oldest {
		missed := oldest - s.next
		s.next = oldest
		return domain.Message{}, &errors.LagError{Missed: missed}
	}

	if s.next == h.tail {
		if h.closed {
			return domain.Message{}, errors.ErrHubClosed
		}
		return domain.Message{}, errors.ErrEmpty
	}

	msg := h.ring[s.next%uint64(len(h.ring))]
	s.next++
	return msg, nil
}

// Receive waits for the next message, a lag report, hub closure or ctx end.
func (s *Subscription) Receive(ctx context.Context) (domain.Message, error) {
	for {
		msg, err := s.TryReceive()
		if err != errors.ErrEmpty {
			return msg, err
		}
		select {
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		case <-s.Ready():
		}
	}
}

// Close releases the subscriber slot. Calling it more than once is a no-op.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.released {
		return
	}
	s.released = true
	h.subscribers--
}
