package app

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/fleetview/render"
)

// statusTTL is how long a status message stays in the status bar
const statusTTL = 3 * time.Second

const heroText = "Billions of cargo signals interpreted instantly. Routes re-calculated. Risks predicted. " +
	"Your fleet continuously optimized by a neural network built for maritime cognition."

// rendererFunc adapts a draw method to render.SystemRenderer
type rendererFunc func(ctx render.Context, buf *render.RenderBuffer)

func (f rendererFunc) Render(ctx render.Context, buf *render.RenderBuffer) {
	f(ctx, buf)
}

func (a *App) renderHeader(ctx render.Context, buf *render.RenderBuffer) {
	r := a.layout.Header
	if r.Empty() {
		return
	}
	buf.Fill(r, ' ', render.StyleBase.Background(render.RgbPanel))
	x := r.X + buf.SetString(r.X, r.Y, " FLEETVIEW ", render.StyleAccent.Background(render.RgbPanel).Bold(true), r.W)
	for v := ViewID(0); v < viewCount; v++ {
		tab := fmt.Sprintf(" %d %s ", v+1, v.Title())
		style := render.StyleMuted.Background(render.RgbPanel)
		if v == a.view {
			style = render.StyleBase.Background(render.RgbAccent).Foreground(render.RgbBackground).Bold(true)
		}
		if x >= r.X+r.W {
			break
		}
		x += buf.SetString(x, r.Y, tab, style, r.X+r.W-x)
	}

	clock := ctx.Now.Format("15:04:05")
	if cx := r.X + r.W - len(clock) - 1; cx > x {
		buf.SetString(cx, r.Y, clock, render.StyleMuted.Background(render.RgbPanel), 0)
	}
}

func (a *App) renderStatus(ctx render.Context, buf *render.RenderBuffer) {
	r := a.layout.Status
	if r.Empty() {
		return
	}
	bg := render.StyleBase.Background(render.RgbPanel)
	buf.Fill(r, ' ', bg)

	msg, style := a.hint(), bg.Foreground(render.RgbMuted)
	if a.status != "" && ctx.Now.Sub(a.statusAt) < statusTTL {
		msg, style = a.status, bg.Foreground(render.RgbHighlight)
	}

	right := fmt.Sprintf(" %d ships │ %s │ %s ", len(a.entities), a.audioLabel(), a.rotationLabel())
	rw := runewidth.StringWidth(right)
	buf.SetString(r.X+1, r.Y, msg, style, r.W-rw-2)
	if rw < r.W-10 {
		buf.SetString(r.X+r.W-rw, r.Y, right, bg.Foreground(render.RgbText), 0)
	}
}

func (a *App) hint() string {
	switch a.view {
	case ViewGlobe:
		return "drag rotate · wheel zoom · space pause · r reset · tab views · q quit"
	case ViewBrain:
		return "hover a node · click for deep reasoning · tab views · q quit"
	case ViewPlan:
		return "click a slot · a add · x remove · tab views · q quit"
	default:
		return "tab views · q quit"
	}
}

func (a *App) audioLabel() string {
	switch {
	case !a.cfg.Audio.Enabled:
		return "audio off"
	case a.alerts.Muted():
		return "muted"
	default:
		return "♪ on"
	}
}

func (a *App) rotationLabel() string {
	if a.loop.AutoRotatePaused() {
		return "rotation paused"
	}
	return "rotating"
}

func (a *App) renderHero(_ render.Context, buf *render.RenderBuffer) {
	r := a.layout.Hero
	if a.view != ViewCharts || a.layout.TooSmall || r.Empty() {
		return
	}
	buf.SetString(r.X+1, r.Y, "The Ocean Thinks", render.StyleAccent.Bold(true), r.W-2)
	for i, line := range render.Wrap(heroText, r.W-2) {
		if i+1 >= r.H-1 {
			break
		}
		buf.SetString(r.X+1, r.Y+1+i, line, render.StyleMuted, r.W-2)
	}
}

// renderGlobeTooltip draws the hovered shipment next to the pointer
func (a *App) renderGlobeTooltip(_ render.Context, buf *render.RenderBuffer) {
	if a.view != ViewGlobe || a.layout.TooSmall || !a.pointerIn {
		return
	}
	hit, ok := a.ctrl.Hover()
	if !ok {
		return
	}
	render.Tooltip(buf, a.layout.Globe, a.pointerX, a.pointerY, ShipmentLines(hit))
}

func (a *App) renderTooSmall(_ render.Context, buf *render.RenderBuffer) {
	if !a.layout.TooSmall {
		return
	}
	r := a.layout.Screen
	buf.Fill(r, ' ', render.StyleBase)
	msg := "terminal too small"
	if r.W < runewidth.StringWidth(msg) {
		msg = "too small"
	}
	buf.SetString(render.CenterX(r, msg), r.Y+r.H/2, msg, render.StyleBase.Foreground(render.RgbDanger), r.W)
}
