package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/geo"
)

// Defaults for Options fields left at zero
const (
	DefaultInterval  = 3 * time.Second
	DefaultCount     = 10
	DefaultStep      = 0.2 // degrees per tick
	DefaultArrivalKm = 5.0
	DefaultSpeedKmh  = 30.0
)

// Options configures the mock feed
type Options struct {
	Interval    time.Duration
	Count       int
	Seed        int64 // 0 seeds from the clock
	Step        float64
	ArrivalKm   float64
	SpeedKmh    float64
	DelayChance float64 // per tick probability of delay and recovery
	Routing     Routing
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Count <= 0 {
		o.Count = DefaultCount
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.ArrivalKm <= 0 {
		o.ArrivalKm = DefaultArrivalKm
	}
	if o.SpeedKmh <= 0 {
		o.SpeedKmh = DefaultSpeedKmh
	}
	return o
}

// Subscription is returned by Subscribe; Unsubscribe stops further callbacks
type Subscription struct {
	feed   *Feed
	id     uint64
	active atomic.Bool
	once   sync.Once
}

// Unsubscribe removes the callback; safe to call repeatedly and from inside the callback
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.active.Store(false)
		s.feed.remove(s.id)
	})
}

type subscriber struct {
	sub *Subscription
	fn  func([]cargo.Shipment)
}

// Feed simulates a fleet and pushes a full replacement snapshot to subscribers on every tick
type Feed struct {
	opts   Options
	router Router
	clock  engine.Clock
	log    zerolog.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	data   []cargo.Shipment
	subs   []subscriber
	nextID uint64
	ticks  uint64
}

// New creates a feed with a freshly generated fleet
func New(opts Options, ports []Port, clock engine.Clock, log zerolog.Logger) (*Feed, error) {
	opts = opts.withDefaults()
	if opts.DelayChance < 0 || opts.DelayChance > 1 {
		return nil, fmt.Errorf("delay chance %v outside [0, 1]", opts.DelayChance)
	}
	router, err := NewRouter(opts.Routing)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = engine.NewTimeProvider()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gen, err := NewGenerator(ports, rng, opts.SpeedKmh)
	if err != nil {
		return nil, err
	}

	f := &Feed{
		opts:   opts,
		router: router,
		clock:  clock,
		log:    log.With().Str("component", "feed").Logger(),
		rng:    rng,
		data:   gen.Generate(opts.Count, clock.Now()),
	}
	f.log.Debug().Int("count", len(f.data)).Int64("seed", seed).Str("routing", string(opts.Routing)).Msg("fleet generated")
	return f, nil
}

// Interval returns the tick period
func (f *Feed) Interval() time.Duration {
	return f.opts.Interval
}

// Snapshot returns a copy of the current fleet
func (f *Feed) Snapshot() []cargo.Shipment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cargo.Shipment(nil), f.data...)
}

// Subscribe registers onUpdate for every subsequent tick
// Callbacks run on the feed goroutine and receive their own copy of the fleet
func (f *Feed) Subscribe(onUpdate func([]cargo.Shipment)) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &Subscription{feed: f, id: f.nextID}
	sub.active.Store(true)
	f.subs = append(f.subs, subscriber{sub: sub, fn: onUpdate})
	return sub
}

func (f *Feed) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.sub.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of live subscriptions
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Run ticks until ctx is cancelled
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Tick()
		}
	}
}

// Tick advances every shipment one step and notifies subscribers
func (f *Feed) Tick() {
	now := f.clock.Now()

	f.mu.Lock()
	next := make([]cargo.Shipment, len(f.data))
	delivered := 0
	for i, s := range f.data {
		next[i] = f.advance(s)
		if next[i].Status == cargo.StatusDelivered {
			delivered++
		}
	}
	f.data = next
	f.ticks++
	subs := append([]subscriber(nil), f.subs...)
	f.mu.Unlock()

	f.log.Debug().Uint64("tick", f.ticks).Int("delivered", delivered).Time("at", now).Msg("feed tick")

	for _, s := range subs {
		// Unsubscribed between snapshot and delivery
		if !s.sub.active.Load() {
			continue
		}
		s.fn(append([]cargo.Shipment(nil), next...))
	}
}

// advance computes the next state of one shipment, caller holds mu
func (f *Feed) advance(s cargo.Shipment) cargo.Shipment {
	if s.Status == cargo.StatusDelivered {
		return s
	}

	pos := f.router.Step(s.Position, s.Dest, f.opts.Step)
	remaining := geo.HaversineKm(pos, s.Dest)
	if remaining < f.opts.ArrivalKm {
		s.Position = s.Dest
		s.Status = cargo.StatusDelivered
		s.Progress = 1
		return s
	}
	s.Position = pos

	if total := geo.HaversineKm(s.From, s.Dest); total > 0 {
		s.Progress = clamp01(1 - remaining/total)
	}

	if f.opts.DelayChance > 0 && f.rng.Float64() < f.opts.DelayChance {
		switch s.Status {
		case cargo.StatusInTransit:
			s.Status = cargo.StatusDelayed
			s.ETA = s.ETA.Add(24 * time.Hour)
		case cargo.StatusDelayed:
			s.Status = cargo.StatusOnTime
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
