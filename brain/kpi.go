package brain

import (
	"fmt"
	"math/rand"
	"time"
)

// KPIInterval is the random-walk period of the metrics panel
const KPIInterval = 1300 * time.Millisecond

// maxCatchUp bounds the steps taken after a long pause
const maxCatchUp = 5

// KPI is one bounded random-walk figure
type KPI struct {
	Label string
	Value float64
	Min   float64
	Max   float64
	Step  float64 // maximum change per interval
	Color string
}

// Format renders the value with one decimal and a percent sign
func (k KPI) Format() string {
	return fmt.Sprintf("%.1f%%", k.Value)
}

// DefaultKPIs returns the stability, shift risk, load balance and fuel efficiency figures
func DefaultKPIs() []KPI {
	return []KPI{
		{Label: "Stability", Value: 92, Min: 88, Max: 97, Step: 1.2, Color: "#4dd4ac"},
		{Label: "Shift Risk", Value: 11, Min: 8, Max: 15, Step: 1, Color: "#e8c35d"},
		{Label: "Load Balance", Value: 87, Min: 80, Max: 93, Step: 1, Color: "#53b6ff"},
		{Label: "Fuel Efficiency", Value: 21, Min: 15, Max: 28, Step: 1, Color: "#b46cff"},
	}
}

// KPIBoard advances its figures once per KPIInterval of supplied time
type KPIBoard struct {
	items []KPI
	rng   *rand.Rand
	next  time.Time
}

// NewKPIBoard creates a board whose first step is due one interval after start
func NewKPIBoard(items []KPI, rng *rand.Rand, start time.Time) *KPIBoard {
	return &KPIBoard{items: items, rng: rng, next: start.Add(KPIInterval)}
}

// Items returns a copy of the current figures
func (b *KPIBoard) Items() []KPI {
	return append([]KPI(nil), b.items...)
}

// Update applies every step that fell due by now and returns how many ran
func (b *KPIBoard) Update(now time.Time) int {
	steps := 0
	for steps < maxCatchUp && !now.Before(b.next) {
		b.step()
		steps++
		b.next = b.next.Add(KPIInterval)
	}
	// Skip missed steps after a long pause
	if !now.Before(b.next) {
		b.next = now.Add(KPIInterval)
	}
	return steps
}

func (b *KPIBoard) step() {
	for i := range b.items {
		k := &b.items[i]
		k.Value += (b.rng.Float64()*2 - 1) * k.Step
		if k.Value < k.Min {
			k.Value = k.Min
		}
		if k.Value > k.Max {
			k.Value = k.Max
		}
	}
}
