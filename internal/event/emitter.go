// internal/event/emitter.go
package event

import "sync"

// Emitter is the event-emission capability of a hardware adapter.
// Args follow the per-name contracts documented in names.go.
type Emitter interface {
	Emit(name string, args ...interface{})
}

// Fanout is an Emitter that relays events to registered listeners.
// Listeners are invoked serially in registration order.
type Fanout struct {
	mu        sync.Mutex
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(name string, args []interface{})
}

// NewFanout creates an empty fan-out emitter.
func NewFanout() *Fanout {
	return &Fanout{}
}

// Listen registers a listener and returns an unsubscribe handle.
func (f *Fanout) Listen(fn func(name string, args []interface{})) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners = append(f.listeners, listener{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, l := range f.listeners {
			if l.id == id {
				f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit relays one event to every listener.
func (f *Fanout) Emit(name string, args ...interface{}) {
	f.mu.Lock()
	ls := make([]listener, len(f.listeners))
	copy(ls, f.listeners)
	f.mu.Unlock()

	for _, l := range ls {
		l.fn(name, args)
	}
}

var _ Emitter = (*Fanout)(nil)
