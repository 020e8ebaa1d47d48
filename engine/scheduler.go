package engine

import (
	"sync"
	"time"
)

// FrameID identifies a pending frame request, zero is never issued
type FrameID uint64

// FrameFunc receives the time of the frame it was scheduled for
type FrameFunc func(now time.Time)

// FrameScheduler requests and cancels one-shot frame callbacks
type FrameScheduler interface {
	Request(fn FrameFunc) FrameID
	Cancel(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

// Scheduler queues frame callbacks and runs them when pumped
// Callbacks requested while a pump is in progress wait for the next pump
type Scheduler struct {
	mu       sync.Mutex
	nextID   FrameID
	pending  []pendingFrame
	inflight map[FrameID]bool // batch being pumped, false once cancelled
	pumps    uint64
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Request queues fn for the next pump and returns its handle
func (s *Scheduler) Request(fn FrameFunc) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.pending = append(s.pending, pendingFrame{id: s.nextID, fn: fn})
	return s.nextID
}

// Cancel drops a pending request; unknown or already-run handles are a no-op
func (s *Scheduler) Cancel(id FrameID) {
	if id == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	if _, ok := s.inflight[id]; ok {
		s.inflight[id] = false
	}
}

// Pending returns the number of queued callbacks
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Pumps returns how many times Pump has run
func (s *Scheduler) Pumps() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pumps
}

// Pump runs every callback queued before the call, in request order, and returns how many ran
// A callback cancelled by an earlier callback of the same pump does not run
func (s *Scheduler) Pump(now time.Time) int {
	s.mu.Lock()
	s.pumps++
	batch := s.pending
	s.pending = nil
	s.inflight = make(map[FrameID]bool, len(batch))
	for _, p := range batch {
		s.inflight[p.id] = true
	}
	s.mu.Unlock()

	ran := 0
	for _, p := range batch {
		s.mu.Lock()
		live := s.inflight[p.id]
		delete(s.inflight, p.id)
		s.mu.Unlock()

		if live && p.fn != nil {
			p.fn(now)
			ran++
		}
	}

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	return ran
}
