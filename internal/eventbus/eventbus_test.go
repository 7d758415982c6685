package eventbus

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToMatchingSubscribers(t *testing.T) {
	bus := NewMemoryBus(16)

	var mu sync.Mutex
	var got []NodeAttached
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeNodeAttached}}, func(ctx context.Context, ev *Envelope) {
		var p NodeAttached
		require.NoError(t, ev.Decode(&p))
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})
	require.NoError(t, err)

	ev, err := NewEnvelope(DefaultSourceName, TypeNodeAttached, NodeAttached{Owner: "almura:Food\\apple", Kind: "light"})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	require.NoError(t, bus.Publish(context.Background(), ev))

	other, err := NewEnvelope(DefaultSourceName, TypePackCompiled, PackCompiled{Pack: "Food"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), other))

	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "light", got[0].Kind)

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(1), stats.Consumed)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewMemoryBus(4)
	calls := 0
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) { calls++ })
	require.NoError(t, err)
	sub.Unsubscribe()

	ev, _ := NewEnvelope("test", TypeCompileIssue, map[string]string{})
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()
	assert.Zero(t, calls)
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewMemoryBus(1)
	bus.Close()
	ev, _ := NewEnvelope("test", TypeCompileIssue, nil)
	assert.Error(t, bus.Publish(context.Background(), ev))
}

func TestGlobalPublishWithoutBus(t *testing.T) {
	Init(nil)
	assert.NoError(t, Publish(context.Background(), &Envelope{}))
}

func TestMetricsExporterCollect(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	me := NewMetricsExporter(bus, reg)

	ev, _ := NewEnvelope("test", TypePackCompiled, PackCompiled{})
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	me.Collect()
	me.Collect()
	assert.Equal(t, 1.0, testutil.ToFloat64(me.published))
}
