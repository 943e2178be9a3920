// Package signal is a named-event broadcast primitive. Publishers and
// listeners share a Target and never reference each other.
//
// Delivery is synchronous: Emit returns after every listener registered for
// the event name at the start of the call has run (or was removed before its
// turn). Listeners run on the emitting goroutine in registration order. A
// panicking listener aborts the remaining deliveries of that Emit and the
// panic reaches the caller unchanged.
package signal

import (
	"sync"
	"sync/atomic"
)

// Handler receives the detail value passed to Emit.
type Handler func(detail any)

// Target is a broadcast medium scoped by event name. Implementations must be
// comparable (typically pointers) so a Listener can detect a target change.
type Target interface {
	// Subscribe registers h for name and returns its deregistration.
	// Calling the returned func more than once is a no-op.
	Subscribe(name string, h Handler, opts ...Option) (unsubscribe func())
	// Publish delivers detail to the listeners of name.
	Publish(name string, detail any)
}

// Option tunes a single registration.
type Option func(*options)

type options struct {
	once bool
}

// Once removes the listener right before its first delivery.
func Once() Option { return func(o *options) { o.once = true } }

type entry struct {
	h       Handler
	once    bool
	removed atomic.Bool
}

// Bus is the in-memory Target. The zero value is ready to use.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]*entry
}

// NewBus returns an empty Bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe implements Target.
func (b *Bus) Subscribe(name string, h Handler, opts ...Option) func() {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	e := &entry{h: h, once: o.once}
	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = make(map[string][]*entry)
	}
	b.listeners[name] = append(b.listeners[name], e)
	b.mu.Unlock()
	return func() { b.remove(name, e) }
}

func (b *Bus) remove(name string, e *entry) {
	e.removed.Store(true)
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.listeners[name]
	for i, x := range list {
		if x == e {
			// copy so in-flight snapshots are unaffected
			next := make([]*entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, name)
			} else {
				b.listeners[name] = next
			}
			return
		}
	}
}

// Publish implements Target.
func (b *Bus) Publish(name string, detail any) {
	b.mu.Lock()
	snapshot := b.listeners[name]
	b.mu.Unlock()
	for _, e := range snapshot {
		if e.once {
			if !e.removed.CompareAndSwap(false, true) {
				continue
			}
			b.remove(name, e)
		} else if e.removed.Load() {
			continue
		}
		if e.h != nil {
			e.h(detail)
		}
	}
}

// Len returns the number of listeners registered for name.
func (b *Bus) Len(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[name])
}

var defaultBus = NewBus()

// Default returns the process-wide Target used when a nil Target is given.
func Default() Target { return defaultBus }

func resolve(t Target) Target {
	if t == nil {
		return defaultBus
	}
	return t
}

// Emit publishes detail under name on target (nil means Default()).
func Emit(target Target, name string, detail any) {
	resolve(target).Publish(name, detail)
}

// Listen registers h for name on target (nil means Default()) and returns
// the deregistration.
func Listen(target Target, name string, h Handler, opts ...Option) func() {
	return resolve(target).Subscribe(name, h, opts...)
}
