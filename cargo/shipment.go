package cargo

import (
	"time"

	"github.com/lixenwraith/fleetview/geo"
)

// DefaultSize is the marker radius used when a shipment carries no size hint
const DefaultSize = 3.0

// Shipment is one tracked cargo movement, replaced wholesale by the feed on each tick
type Shipment struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Position    geo.LonLat `json:"position"`
	From        geo.LonLat `json:"from"`
	Dest        geo.LonLat `json:"dest"`
	ETA         time.Time  `json:"eta"`
	Progress    float64    `json:"progress"`
	Speed       float64    `json:"speed"` // km/h
	Size        float64    `json:"size"`
}

// Radius returns the marker radius, DefaultSize for missing or invalid hints
func (s Shipment) Radius() float64 {
	if !(s.Size > 0) {
		return DefaultSize
	}
	return s.Size
}

// Active reports whether the shipment still moves
func (s Shipment) Active() bool {
	return s.Status != StatusDelivered
}
