// internal/channel/hub.go
package channel

import (
	"fmt"
	"sync"
)

// Writer is the value-set surface the hub delegates to.
type Writer interface {
	Write(name string, v Value) error
}

// Hub is the subscription registry between the poller and hardware
// adapters. Publish dispatches an update to subscribers only when the
// decoded value changed since the last publish, so adapters see the
// device's "update" signal rather than every poll cycle.
//
// Dispatch is serial: Publish is called from one orchestrator goroutine
// and callbacks run inline on it.
type Hub struct {
	mu     sync.Mutex
	known  map[string]bool
	last   map[string]Value
	subs   map[string]map[int]func(Value)
	nextID int
	writer Writer
}

// NewHub creates a hub over the declared channel set.
// Subscribing or reading an undeclared channel is an error.
func NewHub(names []string, w Writer) *Hub {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	return &Hub{
		known:  known,
		last:   make(map[string]Value),
		subs:   make(map[string]map[int]func(Value)),
		writer: w,
	}
}

// Subscribe registers an update callback for one channel and returns
// an unsubscribe handle.
func (h *Hub) Subscribe(name string, fn func(Value)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.known[name] {
		return nil, fmt.Errorf("channel: unknown channel %q", name)
	}

	if h.subs[name] == nil {
		h.subs[name] = make(map[int]func(Value))
	}
	id := h.nextID
	h.nextID++
	h.subs[name][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[name], id)
	}, nil
}

// Read returns the last published value for a channel.
func (h *Hub) Read(name string) (Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.known[name] {
		return Value{}, fmt.Errorf("channel: unknown channel %q", name)
	}
	v, ok := h.last[name]
	if !ok {
		return Value{}, fmt.Errorf("channel %q: no value yet", name)
	}
	return v, nil
}

// Write delegates a value-set to the underlying writer.
func (h *Hub) Write(name string, v Value) error {
	if h.writer == nil {
		return fmt.Errorf("channel: hub has no writer")
	}
	if !h.known[name] {
		return fmt.Errorf("channel: unknown channel %q", name)
	}
	return h.writer.Write(name, v)
}

// Publish records an update and dispatches it to subscribers when the
// value changed. The first update for a channel always dispatches.
func (h *Hub) Publish(u Update) {
	h.mu.Lock()
	if !h.known[u.Name] {
		h.mu.Unlock()
		return
	}
	prev, seen := h.last[u.Name]
	if seen && prev == u.Value {
		h.mu.Unlock()
		return
	}
	h.last[u.Name] = u.Value

	fns := make([]func(Value), 0, len(h.subs[u.Name]))
	for _, fn := range h.subs[u.Name] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	// Callbacks run outside the lock, serially on the caller's goroutine.
	for _, fn := range fns {
		fn(u.Value)
	}
}

var _ Provider = (*Hub)(nil)
