package hub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"keybus/internal/cachekey"
	"keybus/internal/keypath"
	"keybus/pkg/types"
)

// Subscription is a remote client's interest in a key path prefix.
type Subscription struct {
	id    string
	keys  keypath.Path
	since time.Time
	hub   *Hub
	hook  *cachekey.Hook
	stop  func() bool

	mu      sync.Mutex
	ch      chan types.Invalidation
	closed  bool
	dropped atomic.Uint64
}

// ID returns the subscription id.
func (s *Subscription) ID() string { return s.id }

// Keys returns the subscribed path.
func (s *Subscription) Keys() keypath.Path { return s.keys.Clone() }

// Events yields matching invalidations. The channel is closed by Close.
func (s *Subscription) Events() <-chan types.Invalidation { return s.ch }

// Dropped returns how many deliveries were lost to a full buffer.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

func (s *Subscription) deliver(ev cachekey.Event) {
	inv, ok := ev.Payload.(types.Invalidation)
	if !ok {
		// published by an in-process hook without hub metadata
		inv = types.Invalidation{ID: uuid.NewString(), Keys: ev.Keys.Clone(), PublishedAt: time.Now().UnixMilli()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- inv:
		s.hub.deliveries.Add(1)
		deliveriesTotal.Inc()
	default:
		s.dropped.Add(1)
		s.hub.drops.Add(1)
		dropsTotal.Inc()
		s.hub.publishEvent(Event{Name: EventDrop, SubscriptionID: s.id, Fields: map[string]any{"id": inv.ID}})
		s.hub.logger().Warn().Str("subscription", s.id).Str("keys", keypath.Path(inv.Keys).String()).Msg("subscriber buffer full, invalidation dropped")
	}
}

// Close ends the subscription and releases its slot. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	hook, stop := s.hook, s.stop
	s.mu.Unlock()

	if hook != nil {
		hook.Close()
	}
	if stop != nil {
		stop()
	}
	s.hub.remove(s.id)
}

// Subscribe registers interest in keys and every path below it. The
// subscription ends when ctx is done or Close is called.
func (h *Hub) Subscribe(ctx context.Context, keys keypath.Path) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := h.validate(keys, true); err != nil {
		rejectedTotal.WithLabelValues("subscribe", rejectReason(err)).Inc()
		return nil, err
	}

	s := &Subscription{
		id:    uuid.NewString(),
		keys:  keys.Clone(),
		since: time.Now(),
		hub:   h,
		ch:    make(chan types.Invalidation, h.clientBuffer),
	}
	h.mu.Lock()
	var err error
	switch {
	case h.draining:
		err = drainingError{}
	case len(h.subs) >= h.maxSubscribers:
		err = tooBusyError{limit: h.maxSubscribers}
	default:
		h.subs[s.id] = s
		subscribersGauge.Inc()
	}
	h.mu.Unlock()
	if err != nil {
		rejectedTotal.WithLabelValues("subscribe", rejectReason(err)).Inc()
		return nil, err
	}

	// The hook attaches only once the slot is held. A drain that ran in
	// between has already closed s.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		rejectedTotal.WithLabelValues("subscribe", "draining").Inc()
		return nil, drainingError{}
	}
	s.hook = cachekey.Observe(h.target, s.keys, s.deliver)
	s.stop = context.AfterFunc(ctx, s.Close)
	s.mu.Unlock()

	h.publishEvent(Event{Name: EventSubscribe, SubscriptionID: s.id, Fields: map[string]any{"keys": s.Keys()}})
	h.logger().Debug().Str("subscription", s.id).Str("keys", s.keys.String()).Msg("subscribed")
	return s, nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	_, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if !ok {
		return
	}
	subscribersGauge.Dec()
	h.publishEvent(Event{Name: EventUnsubscribe, SubscriptionID: id})
	h.logger().Debug().Str("subscription", id).Msg("unsubscribed")
}
