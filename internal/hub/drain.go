package hub

// Drain stops admitting subscriptions and closes every live one. Publish
// keeps working so in-process hooks are still served.
func (h *Hub) Drain() {
	h.mu.Lock()
	if h.draining {
		h.mu.Unlock()
		return
	}
	h.draining = true
	live := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		live = append(live, s)
	}
	h.mu.Unlock()

	h.publishEvent(Event{Name: EventDrain, Fields: map[string]any{"subscribers": len(live)}})
	h.logger().Info().Int("subscribers", len(live)).Msg("draining hub")
	for _, s := range live {
		s.Close()
	}
}
