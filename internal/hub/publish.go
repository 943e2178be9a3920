package hub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"keybus/internal/cachekey"
	"keybus/internal/keypath"
	"keybus/pkg/types"
)

// validate checks a key path against the depth limit and the root registry.
// Subscriptions may use the empty path (match everything) when allowEmpty is set.
func (h *Hub) validate(keys keypath.Path, allowEmpty bool) error {
	if len(keys) == 0 {
		if allowEmpty {
			return nil
		}
		return ErrInvalidKey("empty")
	}
	if len(keys) > h.maxDepth {
		return ErrInvalidKey(fmt.Sprintf("depth %d exceeds %d", len(keys), h.maxDepth))
	}
	for i, seg := range keys {
		if strings.TrimSpace(seg) == "" {
			return ErrInvalidKey(fmt.Sprintf("segment %d is blank", i))
		}
	}
	h.mu.RLock()
	reg := h.registry
	h.mu.RUnlock()
	if !reg.Allows(keys.Root()) {
		return rootNotAllowedError{root: keys.Root()}
	}
	return nil
}

// Publish announces that data under keys is stale. Every subscription whose
// path is a prefix of keys receives the returned Invalidation before Publish
// returns (or records a drop if its buffer is full).
func (h *Hub) Publish(ctx context.Context, keys keypath.Path) (types.Invalidation, error) {
	if err := ctx.Err(); err != nil {
		return types.Invalidation{}, err
	}
	if err := h.validate(keys, false); err != nil {
		rejectedTotal.WithLabelValues("publish", rejectReason(err)).Inc()
		return types.Invalidation{}, err
	}
	inv := types.Invalidation{
		ID:          uuid.NewString(),
		Keys:        keys.Clone(),
		PublishedAt: time.Now().UnixMilli(),
	}
	cachekey.Invalidate(h.target, keys, inv)
	h.publishes.Add(1)
	publishesTotal.Inc()
	h.publishEvent(Event{Name: EventPublish, Fields: map[string]any{"keys": inv.Keys, "id": inv.ID}})
	h.logger().Debug().Str("keys", keys.String()).Str("id", inv.ID).Msg("invalidation published")
	return inv, nil
}
