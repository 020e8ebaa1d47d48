package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Collector bundles the dashboard's Prometheus metrics
// A nil *Collector is valid and records nothing
type Collector struct {
	gatherer prometheus.Gatherer

	Frames            prometheus.Counter
	FrameDuration     prometheus.Histogram
	MarkersVisible    prometheus.Gauge
	FeedUpdates       prometheus.Counter
	BackgroundRedraws prometheus.Counter
	RenderPanics      *prometheus.CounterVec
	Gestures          *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global registry when nil
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetview_frames_total",
			Help: "Globe frames drawn.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetview_frame_duration_seconds",
			Help:    "Time spent drawing a globe frame.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		MarkersVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleetview_markers_visible",
			Help: "Markers on the near hemisphere in the last frame.",
		}),
		FeedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetview_feed_updates_total",
			Help: "Entity snapshots received from the feed.",
		}),
		BackgroundRedraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetview_background_redraws_total",
			Help: "Graticule and coastline redraws after a view change.",
		}),
		RenderPanics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetview_render_panics_total",
			Help: "Recovered renderer panics, labeled by renderer.",
		}, []string{"renderer"}),
		Gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetview_gestures_total",
			Help: "Started pointer gestures, labeled by kind.",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{
		c.Frames, c.FrameDuration, c.MarkersVisible, c.FeedUpdates,
		c.BackgroundRedraws, c.RenderPanics, c.Gestures,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return c, nil
}

// ObserveFrame records one drawn frame
func (c *Collector) ObserveFrame(d time.Duration, visible int) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.FrameDuration.Observe(d.Seconds())
	c.MarkersVisible.Set(float64(visible))
}

// BackgroundRedraw counts a background cache miss
func (c *Collector) BackgroundRedraw() {
	if c == nil {
		return
	}
	c.BackgroundRedraws.Inc()
}

// Gesture counts a started gesture
func (c *Collector) Gesture(kind string) {
	if c == nil {
		return
	}
	c.Gestures.WithLabelValues(kind).Inc()
}

// FeedUpdate counts a received snapshot
func (c *Collector) FeedUpdate() {
	if c == nil {
		return
	}
	c.FeedUpdates.Inc()
}

// RenderPanic counts a recovered renderer panic, usable as a render.PanicHook
func (c *Collector) RenderPanic(renderer string) {
	if c == nil {
		return
	}
	c.RenderPanics.WithLabelValues(renderer).Inc()
}

// Handler exposes a /metrics handler for the collector's registry
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is cancelled
func (c *Collector) Serve(ctx context.Context, addr string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", addr).Msg("serving prometheus metrics")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
