package render

import "time"

// Context provides frame state for renderers, passed by value
type Context struct {
	Now       time.Time
	DeltaTime float64 // seconds since the previous presented frame
	Frame     uint64

	ScreenWidth  int
	ScreenHeight int
}
