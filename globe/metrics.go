package globe

import "time"

// Metrics receives globe instrumentation, any method may be a no-op
type Metrics interface {
	ObserveFrame(d time.Duration, visibleMarkers int)
	BackgroundRedraw()
	Gesture(kind string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFrame(time.Duration, int) {}
func (nopMetrics) BackgroundRedraw()               {}
func (nopMetrics) Gesture(string)                  {}
