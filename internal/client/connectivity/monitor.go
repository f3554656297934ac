// Package connectivity tracks whether the backend is reachable and fans
// out transition events to subscribers. State is process-wide and never
// persisted.
package connectivity

import "sync"

// Monitor exposes the current reachability state and a subscription to
// transition events. Subscribers receive the new state on every
// disconnected↔connected edge. Delivery is at-least-once under rapid
// flapping, so consumers must tolerate repeated "connected" events.
type Monitor interface {
	// Online reports the current state.
	Online() bool

	// Subscribe registers a new independent subscriber. The returned
	// cancel func must be called to release it; afterwards the channel
	// is closed.
	Subscribe() (<-chan bool, func())
}

// subBuffer bounds how many undelivered transitions a slow subscriber can
// hold before newer edges overwrite older ones.
const subBuffer = 8

// Hub is the process-wide Monitor implementation. Transitions are pushed
// in via SetOnline by whatever reachability primitive drives the process
// (a Prober here, a platform network-change callback elsewhere).
type Hub struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

// NewHub returns a Hub with the given initial state. No event is emitted
// for the initial state; only edges are delivered.
func NewHub(initial bool) *Hub {
	return &Hub{online: initial, subs: make(map[int]chan bool)}
}

// Online reports the current state.
func (h *Hub) Online() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

// SetOnline records the new state and, when it differs from the previous
// one, notifies every subscriber. Sends never block: if a subscriber's
// buffer is full the oldest undelivered event is dropped to make room, so
// the latest state always gets through.
func (h *Hub) SetOnline(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.online == v {
		return
	}
	h.online = v

	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Subscribe registers a subscriber channel and returns it with a cancel
// func. Cancel is idempotent.
func (h *Hub) Subscribe() (<-chan bool, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan bool, subBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}

	return ch, cancel
}
