package types

// InvalidateRequest is the payload of POST /invalidate.
type InvalidateRequest struct {
	// Key path to invalidate, most general segment first.
	// example: ["datasets","42"]
	Keys []string `json:"keys,omitempty" example:"datasets,42"`
	// Single-segment shorthand used when Keys is empty.
	// example: datasets
	Key string `json:"key,omitempty" example:"datasets"`
}

// Invalidation is one published invalidation as seen by subscribers.
type Invalidation struct {
	// Unique id of this invalidation.
	// example: 0b6f1c0e-5a8e-4c1b-9d55-1d7c1b3f7a10
	ID string `json:"id" example:"0b6f1c0e-5a8e-4c1b-9d55-1d7c1b3f7a10"`
	// Published key path.
	// example: ["datasets","42"]
	Keys []string `json:"keys" example:"datasets,42"`
	// Publish time in unix milliseconds.
	// example: 1700000000000
	PublishedAt int64 `json:"published_at" example:"1700000000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SubscriberStatus summarizes one live subscription for /status.
type SubscriberStatus struct {
	// Subscription id.
	// example: 7d3b6c4a-1f0e-4d8a-8a61-2b9f8f3c5e21
	ID string `json:"id" example:"7d3b6c4a-1f0e-4d8a-8a61-2b9f8f3c5e21"`
	// Subscribed key path (prefix).
	// example: ["datasets"]
	Keys []string `json:"keys" example:"datasets"`
	// Subscription start in unix seconds.
	// example: 1700000000
	Since int64 `json:"since_unix" example:"1700000000"`
	// Deliveries waiting in the client buffer.
	// example: 0
	Pending int `json:"pending" example:"0"`
	// Deliveries dropped because the buffer was full.
	// example: 0
	Dropped uint64 `json:"dropped" example:"0"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Live subscriptions.
	Subscribers []SubscriberStatus `json:"subscribers"`
	// Maximum concurrent subscriptions.
	// example: 1024
	MaxSubscribers int `json:"max_subscribers" example:"1024"`
	// Allowed key path roots; empty means any root.
	// example: ["workspace","datasets"]
	Roots []string `json:"roots" example:"workspace,datasets"`
	// Total invalidations published.
	// example: 12
	PublishesTotal uint64 `json:"publishes_total" example:"12"`
	// Total deliveries into subscriber buffers.
	// example: 30
	DeliveriesTotal uint64 `json:"deliveries_total" example:"30"`
	// Total deliveries dropped on full buffers.
	// example: 0
	DropsTotal uint64 `json:"drops_total" example:"0"`
	// True once the hub stopped accepting subscriptions.
	Draining bool `json:"draining"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
