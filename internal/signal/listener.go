package signal

import (
	"sync"
	"sync/atomic"
)

// Listener is a registration owned by some longer-lived scope. Bind may be
// called repeatedly (for example on every update of the owner); the
// underlying subscription is only replaced when the event name or the target
// changes. A changed handler is swapped in place so the latest one always
// runs. Close removes the subscription for good.
type Listener struct {
	mu      sync.Mutex
	target  Target
	name    string
	cancel  func()
	closed  bool
	handler atomic.Pointer[Handler]
}

// Bind registers h for name on target (nil means Default()). It is a no-op
// after Close.
func (l *Listener) Bind(target Target, name string, h Handler) {
	target = resolve(target)
	l.handler.Store(&h)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.cancel != nil && l.target == target && l.name == name {
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.target = target
	l.name = name
	l.cancel = target.Subscribe(name, l.dispatch)
}

func (l *Listener) dispatch(detail any) {
	if h := l.handler.Load(); h != nil && *h != nil {
		(*h)(detail)
	}
}

// Bound reports whether the listener currently holds a subscription.
func (l *Listener) Bound() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Close deregisters the listener. Safe to call more than once.
func (l *Listener) Close() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.closed = true
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
