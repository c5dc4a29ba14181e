// Package api implements the Event transport (spec §6 "unchanged + CLI
// detail"; SPEC_FULL.md's out-of-scope GUI/TUI front ends both consume it):
// a go-chi HTTP server exposing `/events` (SSE) and `/status` so a future
// front end can subscribe to the same structured events a run-all or
// inline invocation already emits through pkg/events.Router. Grounded on
// the teacher's pkg/monitor.HTTPMonitor (subscriber channel map, bounded
// history, non-blocking emit), adapted from its iteration/build domain to
// the operator's engine events.
package api

import (
	"sync"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

// Hub fans a single upstream event stream out to any number of SSE
// subscribers, keeping a bounded in-memory history that the /status
// endpoint reports. A new subscriber receives only events emitted after it
// subscribes; the history is not replayed to it.
type Hub struct {
	mu sync.RWMutex

	subscribers map[chan events.Event]bool
	history     []events.Event
	maxHistory  int
}

// NewHub creates an empty Hub. maxHistory bounds the in-memory backlog;
// 0 defaults to 1000, matching the teacher's HTTPMonitor.
func NewHub(maxHistory int) *Hub {
	if maxHistory <= 0 {
		maxHistory = 1000
	}
	return &Hub{
		subscribers: make(map[chan events.Event]bool),
		history:     make([]events.Event, 0),
		maxHistory:  maxHistory,
	}
}

// Emit records e in history and forwards it to every live subscriber,
// matching events.EventSink so a Hub can be passed directly as a Router's
// upstream sink. Slow subscribers are dropped silently rather than
// blocking the emitting operation.
func (h *Hub) Emit(e events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, e)
	if len(h.history) > h.maxHistory {
		h.history = h.history[len(h.history)-h.maxHistory:]
	}

	for ch := range h.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new SSE client and returns its event channel.
func (h *Hub) Subscribe() chan events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan events.Event, 100)
	h.subscribers[ch] = true
	return ch
}

// Unsubscribe removes and closes ch.
func (h *Hub) Unsubscribe(ch chan events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Snapshot returns a copy of the current history and subscriber count, for
// the /status endpoint.
func (h *Hub) Snapshot() (history []events.Event, subscribers int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]events.Event, len(h.history))
	copy(out, h.history)
	return out, len(h.subscribers)
}
