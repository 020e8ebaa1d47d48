package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/lixenwraith/fleetview/audio"
	"github.com/lixenwraith/fleetview/brain"
	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/chart"
	"github.com/lixenwraith/fleetview/config"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/feed"
	"github.com/lixenwraith/fleetview/geo"
	"github.com/lixenwraith/fleetview/globe"
	"github.com/lixenwraith/fleetview/input"
	"github.com/lixenwraith/fleetview/metrics"
	"github.com/lixenwraith/fleetview/render"
	"github.com/lixenwraith/fleetview/shipplan"
)

// App owns the dashboard panes and drives them from one goroutine
// Feed updates arrive on their own goroutine and are handed over through a channel
type App struct {
	cfg       *config.Config
	screen    tcell.Screen
	clock     engine.Clock
	collector *metrics.Collector
	log       zerolog.Logger

	keys     *input.Machine
	sched    *engine.Scheduler
	loop     *globe.Loop
	ctrl     *globe.Controller
	feed     *feed.Feed
	sub      *feed.Subscription
	insights *InsightsPanel
	brain    *brain.Brain
	plan     *shipplan.View
	charts   *chart.Panel
	alerts   *audio.AlertPlayer
	orch     *render.RenderOrchestrator

	layout   Layout
	view     ViewID
	entities []cargo.Shipment

	status   string
	statusAt time.Time

	pointerX, pointerY int
	pointerIn          bool

	frame     uint64
	lastFrame time.Time

	updates   chan []cargo.Shipment
	done      chan struct{}
	closeOnce sync.Once
}

// New wires every pane to screen; collector may be nil
func New(cfg *config.Config, screen tcell.Screen, clock engine.Clock, collector *metrics.Collector, log zerolog.Logger) (*App, error) {
	if clock == nil {
		clock = engine.NewTimeProvider()
	}

	keys := input.DefaultKeyTable()
	if len(cfg.Keys) > 0 {
		custom, err := input.ParseBindings(cfg.Keys)
		if err != nil {
			return nil, fmt.Errorf("error parsing key bindings: %w", err)
		}
		keys = input.MergeKeyTable(keys, custom)
	}

	view, err := ParseView(cfg.View)
	if err != nil {
		return nil, err
	}

	sched := engine.NewScheduler()
	loop, err := globe.NewLoop(cfg.Globe.Options(), sched, clock, collector, log)
	if err != nil {
		return nil, fmt.Errorf("error creating globe: %w", err)
	}

	ports, err := feed.DefaultPorts()
	if err != nil {
		return nil, fmt.Errorf("error loading ports: %w", err)
	}
	fd, err := feed.New(cfg.Feed.Options(), ports, clock, log)
	if err != nil {
		return nil, fmt.Errorf("error creating feed: %w", err)
	}

	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	destinations := make([]string, len(ports))
	for i, p := range ports {
		destinations[i] = p.Name
	}

	a := &App{
		cfg:       cfg,
		screen:    screen,
		clock:     clock,
		collector: collector,
		log:       log.With().Str("component", "app").Logger(),
		keys:      input.NewMachineWithKeys(keys),
		sched:     sched,
		loop:      loop,
		ctrl:      globe.NewController(loop),
		feed:      fd,
		insights:  NewInsightsPanel(),
		brain:     brain.New(rng, clock.Now()),
		plan:      shipplan.NewView(shipplan.NewPlan(), shipplan.NewSource(rng, destinations), clock, log),
		charts:    chart.NewPanel(chart.DefaultCards()),
		alerts:    audio.NewAlertPlayer(cfg.Audio.Volume, log),
		view:      view,
		updates:   make(chan []cargo.Shipment, 1),
		done:      make(chan struct{}),
	}

	w, h := screen.Size()
	a.orch = render.NewRenderOrchestrator(screen, w, h, log)
	a.orch.SetPanicHook(collector.RenderPanic)

	a.orch.Register(loop, render.PriorityPane)
	a.orch.Register(a.brain, render.PriorityPane)
	a.orch.Register(a.plan, render.PriorityPane)
	a.orch.Register(a.charts, render.PriorityPane)
	a.orch.Register(a.insights, render.PriorityPanel)
	a.orch.Register(rendererFunc(a.renderHero), render.PriorityPanel)
	a.orch.Register(rendererFunc(a.renderGlobeTooltip), render.PriorityTooltip)
	a.orch.Register(rendererFunc(a.renderHeader), render.PriorityStatusBar)
	a.orch.Register(rendererFunc(a.renderStatus), render.PriorityStatusBar)
	a.orch.Register(rendererFunc(a.renderTooSmall), render.PriorityOverlay)

	a.entities = fd.Snapshot()
	loop.SetEntities(a.entities)
	a.insights.Update(a.entities, time.Time{})
	a.sub = fd.Subscribe(a.enqueue)

	a.resize(w, h)
	a.setView(view)

	a.log.Info().Str("view", view.String()).Int("shipments", len(a.entities)).Msg("dashboard ready")
	return a, nil
}

// View returns the active view
func (a *App) View() ViewID {
	return a.view
}

// Layout returns the current screen partition
func (a *App) Layout() Layout {
	return a.layout
}

// Entities returns the latest fleet snapshot
func (a *App) Entities() []cargo.Shipment {
	return a.entities
}

// Buffer exposes the composed frame
func (a *App) Buffer() *render.RenderBuffer {
	return a.orch.Buffer()
}

// enqueue hands a feed snapshot to the UI goroutine, replacing one not yet consumed
func (a *App) enqueue(items []cargo.Shipment) {
	for {
		select {
		case a.updates <- items:
			return
		case <-a.done:
			return
		default:
		}
		select {
		case <-a.updates:
		default:
		}
	}
}

// Run drives events, feed updates and frames until ctx ends or the user quits
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.Audio.Enabled {
		if err := a.alerts.Initialize(); err != nil {
			a.log.Warn().Err(err).Msg("audio unavailable, continuing without alerts")
		} else {
			defer a.alerts.Cleanup()
		}
	}

	fc := engine.NewFrameClock(a.cfg.Render.FPS, a.clock)
	fc.Start()
	defer fc.Stop()

	events := make(chan tcell.Event, 256)

	var wg conc.WaitGroup
	wg.Go(func() { a.poll(ctx, events) })
	wg.Go(func() {
		if err := a.feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("feed stopped")
		}
	})
	if addr := a.cfg.Metrics.Addr; addr != "" && a.collector != nil {
		wg.Go(func() {
			if err := a.collector.Serve(ctx, addr, a.log); err != nil {
				a.log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		})
	}

	defer func() {
		cancel()
		a.Close()
		// Wake the poller blocked in PollEvent
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev) {
				a.log.Info().Msg("quit requested")
				return nil
			}
		case items := <-a.updates:
			a.applyUpdate(items, a.clock.Now())
		case now := <-fc.Ticks():
			a.Frame(now)
		}
	}
}

func (a *App) poll(ctx context.Context, events chan<- tcell.Event) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Close detaches from the feed and stops the globe loop
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		a.sub.Unsubscribe()
		a.loop.Stop()
	})
}

// HandleEvent applies a terminal event, false means quit
func (a *App) HandleEvent(ev tcell.Event) bool {
	in := a.keys.Process(ev)
	if in == nil {
		return true
	}
	return a.handleIntent(in)
}

func (a *App) handleIntent(in *input.Intent) bool {
	switch in.Type {
	case input.IntentQuit:
		return false
	case input.IntentResize:
		a.resize(in.X, in.Y)
	case input.IntentSelectView:
		a.setView(ViewID(in.View))
	case input.IntentNextView:
		a.setView(a.view.Next())
	case input.IntentPrevView:
		a.setView(a.view.Prev())
	case input.IntentToggleMute:
		if a.alerts.ToggleMute() {
			a.setStatus("alerts muted")
		} else {
			a.setStatus("alerts on")
		}
	case input.IntentResetView:
		if a.view == ViewGlobe {
			a.loop.Reset()
			a.loop.Start()
			a.setStatus("globe reset")
		}
	case input.IntentToggleAutoRotate:
		if a.view == ViewGlobe {
			if a.loop.ToggleAutoRotate() {
				a.setStatus("rotation paused")
			} else {
				a.setStatus("rotation resumed")
			}
		}
	case input.IntentAddContainer:
		if a.view == ViewPlan {
			c, err := a.plan.AddContainer()
			a.reportPlan(err, "loaded "+c.ID)
		}
	case input.IntentRemoveContainer:
		if a.view == ViewPlan {
			c, err := a.plan.RemoveContainer()
			a.reportPlan(err, "unloaded "+c.ID)
		}
	case input.IntentPointerDown, input.IntentPointerDrag, input.IntentPointerUp,
		input.IntentPointerMove, input.IntentWheel:
		a.pointer(in)
	}
	return true
}

func (a *App) reportPlan(err error, ok string) {
	if err != nil {
		a.setStatus(err.Error())
		return
	}
	a.setStatus(ok)
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusAt = a.clock.Now()
}

// Status returns the current status message and when it was set
func (a *App) Status() (string, time.Time) {
	return a.status, a.statusAt
}

func (a *App) pointer(in *input.Intent) {
	if a.layout.TooSmall {
		return
	}
	switch a.view {
	case ViewGlobe:
		a.globePointer(in)
	case ViewBrain:
		switch in.Type {
		case input.IntentPointerDown:
			a.brain.Click(in.X, in.Y)
		case input.IntentPointerMove, input.IntentPointerDrag:
			a.brain.Hover(in.X, in.Y)
		}
	case ViewPlan:
		switch in.Type {
		case input.IntentPointerDown:
			a.plan.Click(in.X, in.Y)
		case input.IntentPointerMove, input.IntentPointerDrag:
			a.plan.Hover(in.X, in.Y)
		}
	}
}

// globePointer maps a screen cell to the dot surface of the globe pane
func (a *App) globePointer(in *input.Intent) {
	pane := a.layout.Globe
	inside := pane.Contains(in.X, in.Y)
	x, y := render.CellToDot(in.X-pane.X, in.Y-pane.Y)
	pt := geo.Point{X: float64(x), Y: float64(y)}

	switch in.Type {
	case input.IntentWheel:
		if inside {
			a.ctrl.Wheel(in.Delta)
		}
		return
	case input.IntentPointerUp:
		a.ctrl.PointerUp(pt)
	case input.IntentPointerDown:
		if inside {
			a.ctrl.PointerDown(pt)
		}
	case input.IntentPointerMove, input.IntentPointerDrag:
		if !inside {
			if a.pointerIn || a.ctrl.Session().Kind != globe.GestureNone {
				a.ctrl.PointerLeave()
			}
			break
		}
		a.ctrl.PointerMove(pt)
	}

	a.pointerX, a.pointerY, a.pointerIn = in.X, in.Y, inside
	a.insights.SetHover(a.ctrl.Hover())
}

// Frame runs due globe frames and presents the composed screen
func (a *App) Frame(now time.Time) {
	a.sched.Pump(now)
	if a.view == ViewBrain {
		a.brain.Advance(now)
	}

	var dt float64
	if !a.lastFrame.IsZero() {
		dt = now.Sub(a.lastFrame).Seconds()
	}
	a.lastFrame = now
	a.frame++

	a.orch.RenderFrame(render.Context{
		Now:          now,
		DeltaTime:    dt,
		Frame:        a.frame,
		ScreenWidth:  a.layout.Screen.W,
		ScreenHeight: a.layout.Screen.H,
	})
}

func (a *App) applyUpdate(items []cargo.Shipment, now time.Time) {
	transitions := cargo.Diff(a.entities, items)
	a.entities = items

	a.loop.SetEntities(items)
	a.ctrl.RefreshHover()
	a.insights.SetHover(a.ctrl.Hover())
	a.insights.Update(items, now)
	a.alerts.Transitions(transitions)
	a.collector.FeedUpdate()

	a.log.Debug().Int("shipments", len(items)).Int("transitions", len(transitions)).Msg("feed update applied")
}

func (a *App) resize(w, h int) {
	a.layout = ComputeLayout(w, h)
	a.orch.Resize(w, h)

	a.loop.SetPane(a.layout.Globe)
	a.insights.SetRect(a.layout.Side)
	a.brain.SetRect(a.layout.Content)
	a.plan.SetRect(a.layout.Content)
	a.charts.SetRect(a.layout.Charts)
	a.applyVisibility()

	a.log.Debug().Int("width", w).Int("height", h).Bool("too_small", a.layout.TooSmall).Msg("layout updated")
}

func (a *App) setView(v ViewID) {
	if v < 0 || v >= viewCount {
		return
	}
	prev := a.view
	a.view = v

	if v == ViewGlobe {
		a.loop.Start()
	} else {
		// Leaving ends any drag, which would otherwise restart the loop
		a.ctrl.PointerLeave()
		a.loop.Cancel()
		a.pointerIn = false
		a.insights.SetHover(cargo.Shipment{}, false)
	}
	if prev == ViewBrain && v != ViewBrain {
		a.brain.Leave()
		a.brain.Pause()
	}
	if v != ViewPlan {
		a.plan.Leave()
	}
	a.applyVisibility()
}

func (a *App) applyVisibility() {
	fits := !a.layout.TooSmall
	a.loop.SetVisible(fits && a.view == ViewGlobe)
	a.insights.SetVisible(fits && a.view == ViewGlobe && !a.layout.Side.Empty())
	a.brain.SetVisible(fits && a.view == ViewBrain)
	a.plan.SetVisible(fits && a.view == ViewPlan)
	a.charts.SetVisible(fits && a.view == ViewCharts)
}

// Snapshot renders one frame of view on a simulated w x h terminal and returns its text
func Snapshot(cfg *config.Config, view string, w, h int) (string, error) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("error initializing simulation screen: %w", err)
	}
	defer screen.Fini()
	screen.SetSize(w, h)

	c := *cfg
	c.Audio.Enabled = false
	if view != "" {
		c.View = view
	}

	a, err := New(&c, screen, engine.NewTimeProvider(), nil, zerolog.Nop())
	if err != nil {
		return "", err
	}
	defer a.Close()

	a.Frame(a.clock.Now())
	return a.Buffer().Text(), nil
}
