package feed

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/geo"
)

var feedEpoch = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestFeed(t *testing.T, opts Options) (*Feed, *engine.MockTimeProvider) {
	t.Helper()
	ports, err := DefaultPorts()
	require.NoError(t, err)
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	clock := engine.NewMockTimeProvider(feedEpoch)
	f, err := New(opts, ports, clock, zerolog.Nop())
	require.NoError(t, err)
	return f, clock
}

func TestNewFeedGeneratesFleet(t *testing.T) {
	f, _ := newTestFeed(t, Options{})
	fleet := f.Snapshot()
	require.Len(t, fleet, DefaultCount)
	assert.Equal(t, DefaultInterval, f.Interval())

	for i, s := range fleet {
		assert.Equal(t, "CARGO-"+strconv.Itoa(1000+i), s.ID)
		assert.NotEqual(t, s.Origin, s.Destination)
		assert.Equal(t, cargo.StatusInTransit, s.Status)
		assert.Equal(t, s.From, s.Position)
		assert.GreaterOrEqual(t, s.Size, 2.0)
		assert.Less(t, s.Size, 4.0)
		assert.Equal(t, DefaultSpeedKmh, s.Speed)
		assert.True(t, s.ETA.After(feedEpoch))

		wantHours := geo.HaversineKm(s.From, s.Dest) / DefaultSpeedKmh
		assert.InDelta(t, wantHours, s.ETA.Sub(feedEpoch).Hours(), 1e-6)
	}
}

func TestNewFeedIsDeterministicForSeed(t *testing.T) {
	a, _ := newTestFeed(t, Options{Seed: 99})
	b, _ := newTestFeed(t, Options{Seed: 99})
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestNewFeedRejectsBadOptions(t *testing.T) {
	ports, err := DefaultPorts()
	require.NoError(t, err)

	_, err = New(Options{DelayChance: 1.5}, ports, nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(Options{Routing: "zigzag"}, ports, nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(Options{}, ports[:1], nil, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrTooFewPorts))
}

func TestTickMovesShipments(t *testing.T) {
	f, _ := newTestFeed(t, Options{})
	before := f.Snapshot()

	var got []cargo.Shipment
	f.Subscribe(func(items []cargo.Shipment) { got = items })
	f.Tick()

	require.Len(t, got, len(before))
	for i := range got {
		want := geo.MoveTowards(before[i].Position, before[i].Dest, DefaultStep)
		assert.Equal(t, want, got[i].Position, got[i].ID)
		assert.GreaterOrEqual(t, got[i].Progress, 0.0)
		assert.Less(t, got[i].Progress, 1.0)
	}
	assert.Equal(t, got, f.Snapshot())
}

func TestTickDeliversWithinArrivalRadius(t *testing.T) {
	f, _ := newTestFeed(t, Options{Step: 1000})
	f.Tick()

	for _, s := range f.Snapshot() {
		assert.Equal(t, cargo.StatusDelivered, s.Status)
		assert.Equal(t, s.Dest, s.Position)
		assert.Equal(t, 1.0, s.Progress)
	}

	// Delivered shipments stay put
	before := f.Snapshot()
	f.Tick()
	assert.Equal(t, before, f.Snapshot())
}

func TestTickDelayAndRecovery(t *testing.T) {
	f, _ := newTestFeed(t, Options{Step: 0.001, DelayChance: 1})
	start := f.Snapshot()

	f.Tick()
	delayed := f.Snapshot()
	for i, s := range delayed {
		assert.Equal(t, cargo.StatusDelayed, s.Status)
		assert.Equal(t, start[i].ETA.Add(24*time.Hour), s.ETA)
	}

	f.Tick()
	for i, s := range f.Snapshot() {
		assert.Equal(t, cargo.StatusOnTime, s.Status)
		assert.Equal(t, delayed[i].ETA, s.ETA)
	}
}

func TestUnsubscribeStopsCallbacks(t *testing.T) {
	f, _ := newTestFeed(t, Options{})

	calls := 0
	sub := f.Subscribe(func([]cargo.Shipment) { calls++ })
	f.Tick()
	assert.Equal(t, 1, calls)

	sub.Unsubscribe()
	sub.Unsubscribe()
	f.Tick()
	assert.Equal(t, 1, calls)
	assert.Zero(t, f.Subscribers())
}

func TestUnsubscribeFromInsideCallback(t *testing.T) {
	f, _ := newTestFeed(t, Options{})

	var second *Subscription
	secondCalls := 0
	f.Subscribe(func([]cargo.Shipment) { second.Unsubscribe() })
	second = f.Subscribe(func([]cargo.Shipment) { secondCalls++ })

	f.Tick()
	assert.Zero(t, secondCalls)
	assert.Equal(t, 1, f.Subscribers())
}

func TestSubscribersReceiveIndependentCopies(t *testing.T) {
	f, _ := newTestFeed(t, Options{})

	var a, b []cargo.Shipment
	f.Subscribe(func(items []cargo.Shipment) { a = items })
	f.Subscribe(func(items []cargo.Shipment) { b = items })
	f.Tick()

	a[0].ID = "mutated"
	assert.NotEqual(t, "mutated", b[0].ID)
	assert.NotEqual(t, "mutated", f.Snapshot()[0].ID)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	f, _ := newTestFeed(t, Options{Interval: 5 * time.Millisecond})
	updates := make(chan int, 16)
	f.Subscribe(func(items []cargo.Shipment) {
		select {
		case updates <- len(items):
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	select {
	case n := <-updates:
		assert.Equal(t, DefaultCount, n)
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
