package shipplan

import (
	"fmt"
	"math/rand"
	"time"
)

var contents = []string{
	"Electronics", "Machinery", "Textiles", "Foodstuffs",
	"Chemicals", "Auto Parts", "Furniture", "Pharmaceuticals",
}

// Source generates containers for the add action
type Source struct {
	rng          *rand.Rand
	destinations []string
}

// NewSource binds a random source and the destination names to draw from
func NewSource(rng *rand.Rand, destinations []string) *Source {
	if len(destinations) == 0 {
		destinations = []string{"Rotterdam"}
	}
	return &Source{rng: rng, destinations: destinations}
}

// Next returns a container stamped with now
func (s *Source) Next(now time.Time) Container {
	return Container{
		ID:          fmt.Sprintf("CONT%04d", s.rng.Intn(10000)),
		Weight:      1 + s.rng.Intn(30),
		Content:     contents[s.rng.Intn(len(contents))],
		Destination: s.destinations[s.rng.Intn(len(s.destinations))],
		AddedAt:     now,
	}
}
