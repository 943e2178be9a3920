// Package cachekey lets independent parts of a program declare interest in a
// hierarchical cache scope and tell each other when a scope goes stale.
//
// A Hook tracks one key path. Propagate announces that data under that path
// changed; every open Hook on the same signal.Target whose path is a prefix
// of the announced one runs its listener. A subscriber on ["workspace"] hears
// about ["workspace","abc","files"], never the reverse.
package cachekey

import (
	"sync"

	"keybus/internal/keypath"
	"keybus/internal/signal"
)

// EventName is the signal event every Hook listens on.
const EventName = "cache-key:invalidate"

// Event is the detail carried by an invalidation.
type Event struct {
	Keys keypath.Path
	// Payload is optional data attached by the publisher.
	Payload any
}

// Hook is the subscription and publisher for one key path. Create it with
// New or Observe; call Close when its owner goes away.
type Hook struct {
	mu       sync.Mutex
	target   signal.Target
	keys     keypath.Path
	observer func(Event)
	closed   bool
	sub      signal.Listener
}

// New returns a Hook tracking keys on target (nil means signal.Default()).
// listener may be nil for hooks that only publish.
func New(target signal.Target, keys any, listener func()) *Hook {
	return Observe(target, keys, adapt(listener))
}

// Observe is New with a listener that also receives the matching Event.
func Observe(target signal.Target, keys any, fn func(Event)) *Hook {
	if target == nil {
		target = signal.Default()
	}
	h := &Hook{target: target, keys: keypath.Normalize(keys), observer: fn}
	h.sub.Bind(target, EventName, h.handle)
	return h
}

func adapt(listener func()) func(Event) {
	if listener == nil {
		return nil
	}
	return func(Event) { listener() }
}

// Render refreshes the hook with the owner's current declaration. The stored
// path only changes when keys differ by value; the listener is always
// replaced so the most recent one runs.
func (h *Hook) Render(keys any, listener func()) {
	next := keypath.Normalize(keys)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if !keypath.Equal(h.keys, next) {
		h.keys = next
	}
	h.observer = adapt(listener)
}

// Keys returns a copy of the tracked path.
func (h *Hook) Keys() keypath.Path {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.keys.Clone()
}

func (h *Hook) handle(detail any) {
	ev, ok := detail.(Event)
	if !ok {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	match := keypath.IsPrefixMatch(h.keys, ev.Keys)
	fn := h.observer
	h.mu.Unlock()

	if match && fn != nil {
		fn(ev)
	}
}

// Propagate announces an invalidation of the tracked path. No-op after Close.
func (h *Hook) Propagate() { h.PropagateWith(nil) }

// PropagateWith is Propagate with a payload attached to the Event.
func (h *Hook) PropagateWith(payload any) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	keys := h.keys.Clone()
	target := h.target
	h.mu.Unlock()
	signal.Emit(target, EventName, Event{Keys: keys, Payload: payload})
}

// Close detaches the hook. Its listener is never called again.
func (h *Hook) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.sub.Close()
}

// Invalidate publishes keys on target without holding a Hook.
func Invalidate(target signal.Target, keys any, payload any) {
	signal.Emit(target, EventName, Event{Keys: keypath.Normalize(keys), Payload: payload})
}
