package signal_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keybus/internal/signal"
)

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	b := signal.NewBus()
	var got []string
	b.Subscribe("evt", func(d any) { got = append(got, "first:"+d.(string)) })
	b.Subscribe("evt", func(d any) { got = append(got, "second:"+d.(string)) })
	b.Subscribe("other", func(any) { got = append(got, "other") })

	b.Publish("evt", "x")
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestBus_PublishWithoutListeners(t *testing.T) {
	b := signal.NewBus()
	assert.NotPanics(t, func() { b.Publish("nobody", 1) })
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := signal.NewBus()
	calls := 0
	unsub := b.Subscribe("evt", func(any) { calls++ })
	b.Publish("evt", nil)
	unsub()
	unsub()
	b.Publish("evt", nil)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len("evt"))
}

func TestBus_RemovalDuringDispatchSkipsRemoved(t *testing.T) {
	b := signal.NewBus()
	var second func()
	calls := 0
	b.Subscribe("evt", func(any) { second() })
	second = b.Subscribe("evt", func(any) { calls++ })

	b.Publish("evt", nil)
	assert.Equal(t, 0, calls)
}

func TestBus_AdditionDuringDispatchWaitsForNextPublish(t *testing.T) {
	b := signal.NewBus()
	added := 0
	b.Subscribe("evt", func(any) {
		b.Subscribe("evt", func(any) { added++ })
	}, signal.Once())

	b.Publish("evt", nil)
	assert.Equal(t, 0, added)
	b.Publish("evt", nil)
	assert.Equal(t, 1, added)
}

func TestBus_Once(t *testing.T) {
	b := signal.NewBus()
	calls := 0
	b.Subscribe("evt", func(any) { calls++ }, signal.Once())
	b.Publish("evt", nil)
	b.Publish("evt", nil)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Len("evt"))
}

func TestBus_PanicPropagatesToEmitter(t *testing.T) {
	b := signal.NewBus()
	after := false
	b.Subscribe("evt", func(any) { panic("boom") })
	b.Subscribe("evt", func(any) { after = true })

	assert.PanicsWithValue(t, "boom", func() { b.Publish("evt", nil) })
	assert.False(t, after)
}

func TestBus_ConcurrentUse(t *testing.T) {
	b := signal.NewBus()
	var mu sync.Mutex
	total := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := b.Subscribe("evt", func(any) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			b.Publish("evt", nil)
			unsub()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Len("evt"))
	assert.GreaterOrEqual(t, total, 8)
}

func TestEmitAndListen_DefaultTarget(t *testing.T) {
	var got any
	cancel := signal.Listen(nil, "signal-test-default", func(d any) { got = d })
	defer cancel()

	signal.Emit(nil, "signal-test-default", 42)
	assert.Equal(t, 42, got)
	assert.Same(t, signal.Default(), signal.Default())
}

// recordingTarget is a fake host that records traffic instead of dispatching.
type recordingTarget struct {
	subscribed []string
	published  []string
	removed    int
}

func (r *recordingTarget) Subscribe(name string, _ signal.Handler, _ ...signal.Option) func() {
	r.subscribed = append(r.subscribed, name)
	return func() { r.removed++ }
}

func (r *recordingTarget) Publish(name string, _ any) { r.published = append(r.published, name) }

func TestEmitAndListen_InjectedTarget(t *testing.T) {
	fake := &recordingTarget{}
	cancel := signal.Listen(fake, "a", func(any) {})
	signal.Emit(fake, "b", nil)
	cancel()

	require.Equal(t, []string{"a"}, fake.subscribed)
	require.Equal(t, []string{"b"}, fake.published)
	require.Equal(t, 1, fake.removed)
}
