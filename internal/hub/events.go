package hub

// Event represents a hub lifecycle event.
// Minimal and stable: name + subscription ID and optional fields via key/values.
type Event struct {
	Name           string
	SubscriptionID string
	Fields         map[string]any
}

// Lifecycle event names.
const (
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
	EventPublish     = "publish"
	EventDrop        = "drop"
	EventDrain       = "drain"
)

// EventPublisher receives events from the hub. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
