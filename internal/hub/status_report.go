package hub

import (
	"sort"
	"time"

	"keybus/pkg/types"
)

// Status builds a detailed status response for /status.
func (h *Hub) Status() types.StatusResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := types.StatusResponse{
		MaxSubscribers:  h.maxSubscribers,
		Roots:           h.registry.Roots(),
		PublishesTotal:  h.publishes.Load(),
		DeliveriesTotal: h.deliveries.Load(),
		DropsTotal:      h.drops.Load(),
		Draining:        h.draining,
		UptimeSeconds:   int64(time.Since(h.startTime).Seconds()),
		ServerTimeUnix:  time.Now().Unix(),
	}
	if resp.Roots == nil {
		resp.Roots = []string{}
	}
	resp.Subscribers = make([]types.SubscriberStatus, 0, len(h.subs))
	for _, s := range h.subs {
		resp.Subscribers = append(resp.Subscribers, types.SubscriberStatus{
			ID:      s.id,
			Keys:    s.Keys(),
			Since:   s.since.Unix(),
			Pending: len(s.ch),
			Dropped: s.dropped.Load(),
		})
	}
	sort.Slice(resp.Subscribers, func(i, j int) bool {
		return resp.Subscribers[i].Since < resp.Subscribers[j].Since ||
			(resp.Subscribers[i].Since == resp.Subscribers[j].Since && resp.Subscribers[i].ID < resp.Subscribers[j].ID)
	})
	return resp
}
