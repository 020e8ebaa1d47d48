package feed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lixenwraith/fleetview/cargo"
	"github.com/lixenwraith/fleetview/geo"
)

// firstShipmentID is the numeric suffix of the first generated shipment
const firstShipmentID = 1000

// Generator creates an initial fleet sailing between random port pairs
type Generator struct {
	ports []Port
	rng   *rand.Rand
	speed float64
}

// NewGenerator validates the port table and binds a random source
func NewGenerator(ports []Port, rng *rand.Rand, speedKmh float64) (*Generator, error) {
	names := make(map[string]struct{}, len(ports))
	for _, p := range ports {
		names[p.Name] = struct{}{}
	}
	if len(names) < 2 {
		return nil, ErrTooFewPorts
	}
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &Generator{ports: ports, rng: rng, speed: speedKmh}, nil
}

// Generate returns count in-transit shipments departing at now
func (g *Generator) Generate(count int, now time.Time) []cargo.Shipment {
	out := make([]cargo.Shipment, count)
	for i := range out {
		origin := g.ports[g.rng.Intn(len(g.ports))]
		dest := origin
		for dest.Name == origin.Name {
			dest = g.ports[g.rng.Intn(len(g.ports))]
		}

		from, to := origin.Position(), dest.Position()
		hours := geo.HaversineKm(from, to) / g.speed

		out[i] = cargo.Shipment{
			ID:          fmt.Sprintf("CARGO-%d", firstShipmentID+i),
			Type:        cargo.Types[g.rng.Intn(len(cargo.Types))],
			Status:      cargo.StatusInTransit,
			Origin:      origin.Name,
			Destination: dest.Name,
			Position:    from,
			From:        from,
			Dest:        to,
			ETA:         now.Add(time.Duration(hours * float64(time.Hour))),
			Speed:       g.speed,
			Size:        g.rng.Float64()*2 + 2,
		}
	}
	return out
}
