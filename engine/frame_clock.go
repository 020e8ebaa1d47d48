package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/fleetview/core"
)

// FrameClock emits frame ticks on a fixed interval from its own goroutine
// Ticks are dropped, not queued, when the consumer falls behind
type FrameClock struct {
	clock    Clock
	interval time.Duration
	ticks    chan time.Time

	tickCount    atomic.Uint64
	droppedCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewFrameClock creates a frame clock running at fps frames per second
func NewFrameClock(fps int, clock Clock) *FrameClock {
	if fps <= 0 {
		fps = 1
	}
	if clock == nil {
		clock = NewTimeProvider()
	}
	return &FrameClock{
		clock:    clock,
		interval: time.Second / time.Duration(fps),
		ticks:    make(chan time.Time, 1),
		stopChan: make(chan struct{}),
	}
}

// Interval returns the tick period
func (fc *FrameClock) Interval() time.Duration {
	return fc.interval
}

// Ticks delivers the clock time of each frame
func (fc *FrameClock) Ticks() <-chan time.Time {
	return fc.ticks
}

// TickCount returns delivered ticks
func (fc *FrameClock) TickCount() uint64 {
	return fc.tickCount.Load()
}

// DroppedCount returns ticks skipped because the consumer was busy
func (fc *FrameClock) DroppedCount() uint64 {
	return fc.droppedCount.Load()
}

// Start begins ticking, repeated calls are ignored
func (fc *FrameClock) Start() {
	if fc.running.CompareAndSwap(false, true) {
		fc.wg.Add(1)
		core.Go(fc.loop)
	}
}

// Stop halts ticking and waits for the goroutine to exit
func (fc *FrameClock) Stop() {
	fc.stopOnce.Do(func() {
		close(fc.stopChan)
		if fc.running.CompareAndSwap(true, false) {
			fc.wg.Wait()
		}
	})
}

func (fc *FrameClock) loop() {
	defer fc.wg.Done()

	ticker := time.NewTicker(fc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-fc.stopChan:
			return
		case <-ticker.C:
			select {
			case fc.ticks <- fc.clock.Now():
				fc.tickCount.Add(1)
			default:
				fc.droppedCount.Add(1)
			}
		}
	}
}
