package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"keybus/internal/registry"
	"keybus/internal/signal"
)

type Hub struct {
	mu       sync.RWMutex
	target   signal.Target
	registry *registry.Registry
	subs     map[string]*Subscription
	draining bool

	maxSubscribers int
	clientBuffer   int
	maxDepth       int

	pub       EventPublisher
	log       zerolog.Logger
	startTime time.Time

	publishes  atomic.Uint64
	deliveries atomic.Uint64
	drops      atomic.Uint64
}

// New returns a Hub with package defaults and a private signal bus.
func New(roots []string) *Hub {
	return NewWithConfig(Config{Roots: roots})
}

// Target exposes the signal target so in-process code can attach its own
// cachekey hooks next to remote subscribers.
func (h *Hub) Target() signal.Target { return h.target }

// SetRoots replaces the allowed root registry. Existing subscriptions are
// kept even if their root is no longer allowed.
func (h *Hub) SetRoots(roots []string) {
	reg := registry.New(roots)
	h.mu.Lock()
	h.registry = reg
	h.mu.Unlock()
	h.logger().Info().Strs("roots", reg.Roots()).Msg("root registry updated")
}

// SetEventPublisher installs a lifecycle event sink; nil restores the no-op.
func (h *Hub) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	h.mu.Lock()
	h.pub = p
	h.mu.Unlock()
}

// SetLogger installs a structured logger.
func (h *Hub) SetLogger(l zerolog.Logger) {
	h.mu.Lock()
	h.log = l
	h.mu.Unlock()
}

func (h *Hub) publishEvent(e Event) {
	h.mu.RLock()
	p := h.pub
	h.mu.RUnlock()
	p.Publish(e)
}

func (h *Hub) logger() *zerolog.Logger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	l := h.log
	return &l
}

// Ready reports whether the hub accepts new subscriptions.
func (h *Hub) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return !h.draining
}
