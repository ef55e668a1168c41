package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the channel buffer size for subscribers.
const DefaultBufferSize = 64

// Emitter publishes events. The controller depends on this rather than on
// the Router so tests can record events directly.
type Emitter interface {
	Emit(event Event)
}

// Router fans each emitted event out to every subscriber channel. Sends never
// block the emitter: a full subscriber loses the event.
type Router struct {
	mu         sync.RWMutex
	subs       []chan Event
	bufferSize int
	closed     bool
	dropped    atomic.Int64
}

// NewRouter creates a router. A non-positive bufferSize uses DefaultBufferSize.
func NewRouter(bufferSize int) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Router{bufferSize: bufferSize}
}

// Emit delivers event to all subscribers. It is a no-op after Close.
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}
	for _, ch := range r.subs {
		select {
		case ch <- event:
		default:
			r.dropped.Add(1)
			slog.Warn("event dropped: subscriber channel full", "event_type", event.Type())
		}
	}
}

// Subscribe returns a channel receiving every event emitted from now on.
// The channel is closed by Unsubscribe or Close.
func (r *Router) Subscribe() <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, r.bufferSize)
	if r.closed {
		close(ch)
		return ch
	}
	r.subs = append(r.subs, ch)
	return ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (r *Router) Unsubscribe(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subs {
		if sub == ch {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Dropped returns how many deliveries were lost to full subscribers.
func (r *Router) Dropped() int64 {
	return r.dropped.Load()
}

// Close closes every subscriber channel. It is safe to call more than once.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
}

// Recorder is an Emitter that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends event.
func (r *Recorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the types of the recorded events in order.
func (r *Recorder) Types() []EventType {
	events := r.Events()
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type()
	}
	return types
}
