// Package sessionhub provides an in-memory publish/subscribe hub for
// session-state events. Login and logout publish here, and every
// connected session-events stream subscribes to its user's feed so all
// of a user's open consoles observe auth transitions together.
package sessionhub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// Event is a single session-state transition for one user.
type Event struct {
	UserID uuid.UUID
	Kind   cmscommon.SessionEvent
	At     time.Time
}

// subscriber holds one feed. The mutex protects the closed flag so a
// publish racing an unsubscribe never sends on a closed channel.
type subscriber struct {
	id      string
	channel chan Event
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// timedSend delivers the event unless the subscriber is closed or stays
// full past the timeout.
func (s *subscriber) timedSend(event Event, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.channel <- event:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.cancel()
		close(s.channel)
	}
}

// Hub routes session events to per-user subscriber sets.
type Hub struct {
	sync.RWMutex
	subscribers map[uuid.UUID]map[string]*subscriber
	counter     uint64
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[string]*subscriber),
	}
}

// Subscribe opens a feed of session events for the given user. Returns
// the event channel and an unsubscribe function; the channel is closed
// on unsubscribe and on hub shutdown.
func (h *Hub) Subscribe(userID uuid.UUID, bufferSize int) (<-chan Event, func()) {
	id := fmt.Sprintf("sub-%d", atomic.AddUint64(&h.counter, 1))

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan Event, bufferSize)

	sub := &subscriber{
		id:      id,
		channel: ch,
		ctx:     ctx,
		cancel:  cancel,
	}

	h.Lock()
	defer h.Unlock()

	if _, ok := h.subscribers[userID]; !ok {
		h.subscribers[userID] = make(map[string]*subscriber)
	}
	h.subscribers[userID][id] = sub

	unsubscribe := func() {
		h.Lock()
		defer h.Unlock()

		if subMap, ok := h.subscribers[userID]; ok {
			if s, ok := subMap[id]; ok {
				s.close()
				delete(subMap, id)
				if len(subMap) == 0 {
					delete(h.subscribers, userID)
				}
			}
		}
	}

	return ch, unsubscribe
}

// Publish fans the event out to every subscriber of the user.
// Non-blocking past the timeout; slow consumers miss events rather than
// stall login and logout.
func (h *Hub) Publish(userID uuid.UUID, kind cmscommon.SessionEvent, timeout time.Duration) {
	event := Event{UserID: userID, Kind: kind, At: time.Now().UTC()}

	h.RLock()
	defer h.RUnlock()

	for _, sub := range h.subscribers[userID] {
		select {
		case <-sub.ctx.Done():
			continue
		default:
			sub.timedSend(event, timeout)
		}
	}
}

// CloseUser drops every feed of the given user.
func (h *Hub) CloseUser(userID uuid.UUID) {
	h.Lock()
	defer h.Unlock()

	if subs, ok := h.subscribers[userID]; ok {
		for _, sub := range subs {
			sub.close()
		}
		delete(h.subscribers, userID)
	}
}

// Shutdown closes every feed and clears the hub.
func (h *Hub) Shutdown() {
	h.Lock()
	defer h.Unlock()

	for _, subs := range h.subscribers {
		for _, sub := range subs {
			sub.close()
		}
	}
	h.subscribers = make(map[uuid.UUID]map[string]*subscriber)
}
