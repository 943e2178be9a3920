package hub

import (
	"testing"
	"time"

	"keybus/pkg/types"
)

func recvWithin(t *testing.T, s *Subscription, d time.Duration) (types.Invalidation, bool) {
	t.Helper()
	select {
	case inv, ok := <-s.Events():
		return inv, ok
	case <-time.After(d):
		return types.Invalidation{}, false
	}
}

func expectNone(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case inv, ok := <-s.Events():
		if ok {
			t.Fatalf("unexpected delivery on %s: %+v", s.ID(), inv)
		}
	default:
	}
}
