package hub

import (
	"time"

	"github.com/rs/zerolog"

	"keybus/internal/signal"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxSubscribers = 1024
	defaultClientBuffer   = 64
	defaultMaxDepth       = 16
)

// Config encapsulates all tunables for Hub construction.
type Config struct {
	// Target is the signal target hooks attach to; nil gets a private bus.
	Target         signal.Target
	MaxSubscribers int
	ClientBuffer   int
	MaxDepth       int
	Roots          []string
	Logger         *zerolog.Logger
	Publisher      EventPublisher
}

// NewWithConfig constructs a Hub from Config.
func NewWithConfig(cfg Config) *Hub {
	h := &Hub{
		target: cfg.Target,
		subs:   make(map[string]*Subscription),
		pub:    cfg.Publisher,
		log:    zerolog.Nop(),
	}
	if h.target == nil {
		h.target = signal.NewBus()
	}
	if h.pub == nil {
		h.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		h.log = *cfg.Logger
	}
	// Apply defaults if unset
	if cfg.MaxSubscribers <= 0 {
		h.maxSubscribers = defaultMaxSubscribers
	} else {
		h.maxSubscribers = cfg.MaxSubscribers
	}
	if cfg.ClientBuffer <= 0 {
		h.clientBuffer = defaultClientBuffer
	} else {
		h.clientBuffer = cfg.ClientBuffer
	}
	if cfg.MaxDepth <= 0 {
		h.maxDepth = defaultMaxDepth
	} else {
		h.maxDepth = cfg.MaxDepth
	}
	h.SetRoots(cfg.Roots)
	h.startTime = time.Now()
	return h
}
