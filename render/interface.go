package render

// SystemRenderer is implemented by dashboard panes with visual output
type SystemRenderer interface {
	Render(ctx Context, buf *RenderBuffer)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
