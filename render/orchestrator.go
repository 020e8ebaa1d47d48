package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

type rendererEntry struct {
	renderer SystemRenderer
	priority RenderPriority
	index    int // registration order for stable sort
}

// PanicHook is notified with the renderer type name when a renderer panics
type PanicHook func(renderer string)

// RenderOrchestrator coordinates the render pipeline
type RenderOrchestrator struct {
	screen    tcell.Screen
	buffer    *RenderBuffer
	renderers []rendererEntry
	regCount  int
	log       zerolog.Logger
	onPanic   PanicHook
}

// NewRenderOrchestrator creates an orchestrator drawing to screen at the given size
func NewRenderOrchestrator(screen tcell.Screen, width, height int, log zerolog.Logger) *RenderOrchestrator {
	return &RenderOrchestrator{
		screen:    screen,
		buffer:    NewRenderBuffer(width, height),
		renderers: make([]rendererEntry, 0, 8),
		log:       log,
	}
}

// SetPanicHook installs a callback for recovered renderer panics
func (o *RenderOrchestrator) SetPanicHook(hook PanicHook) {
	o.onPanic = hook
}

// Register adds a renderer at the specified priority. Maintains sorted order via insertion sort
func (o *RenderOrchestrator) Register(r SystemRenderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: r,
		priority: priority,
		index:    o.regCount,
	}
	o.regCount++

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Buffer exposes the compositor, valid until the next Resize
func (o *RenderOrchestrator) Buffer() *RenderBuffer {
	return o.buffer
}

// Resize updates buffer dimensions and syncs the screen
func (o *RenderOrchestrator) Resize(width, height int) {
	o.buffer.Resize(width, height)
	if o.screen != nil {
		o.screen.Sync()
	}
}

// Compose runs every visible renderer into the buffer without presenting it
func (o *RenderOrchestrator) Compose(ctx Context) {
	o.buffer.Clear()

	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		o.renderSafe(ctx, entry.renderer)
	}
}

// RenderFrame executes the render pipeline: clear, render all, flush, show
func (o *RenderOrchestrator) RenderFrame(ctx Context) {
	o.Compose(ctx)
	if o.screen == nil {
		return
	}
	o.buffer.FlushToScreen(o.screen)
	o.screen.Show()
}

// renderSafe isolates a panicking renderer so the rest of the frame still draws
func (o *RenderOrchestrator) renderSafe(ctx Context, r SystemRenderer) {
	defer func() {
		if rec := recover(); rec != nil {
			name := fmt.Sprintf("%T", r)
			o.log.Error().Str("renderer", name).Interface("panic", rec).Uint64("frame", ctx.Frame).Msg("renderer panicked")
			if o.onPanic != nil {
				o.onPanic(name)
			}
		}
	}()
	r.Render(ctx, o.buffer)
}
