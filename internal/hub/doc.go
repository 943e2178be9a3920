// Package hub bridges the in-process invalidation bus to remote clients.
// It is structured into small files by concern:
//
//   - hub.go: core Hub type, constructor, simple getters.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - errors.go: error types and helpers (IsTooBusy, IsInvalidKey, ...).
//   - publish.go: key validation and Publish.
//   - subscribe.go: Subscription, admission and buffered delivery.
//   - drain.go: Drain for graceful shutdown.
//   - status_report.go: Status reporting for /status.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - metrics.go: Prometheus collectors.
//
// Every Subscription is a cachekey.Hook on the hub's signal target, so the
// prefix rule and delivery order are exactly those of the library packages.
// The hub adds a bounded buffer per subscriber; a full buffer drops the
// delivery instead of blocking the publisher.
package hub
