package globe

import (
	"math"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/geo"
)

// HitTest returns the index of the visible entity nearest to pt
// An entity qualifies when its screen distance is below both radius+slack and limit
// Equal distances resolve to the earlier entity
func HitTest(items []cargo.Shipment, proj geo.Projector, pt geo.Point, slack, limit float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)

	for i, e := range items {
		if !e.Position.Valid() {
			continue
		}
		p := proj.Project(e.Position)
		if !p.Visible {
			continue
		}
		d := math.Hypot(p.X-pt.X, p.Y-pt.Y)
		if d >= e.Radius()+slack || d >= limit {
			continue
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
