package cargo

import (
	"fmt"
	"math"
	"time"
)

// Insight messages
const (
	InsightDelays   = "⚠ Many shipments are experiencing delays."
	InsightSmooth   = "✔ Most shipments are running smoothly!"
	InsightTransit  = "📦 A lot of cargo is currently in transit."
	InsightInMotion = "🔄 Shipment activity is in motion."
)

// Counts tallies shipments per status
type Counts struct {
	Total     int
	OnTime    int
	Delayed   int
	InTransit int
	Delivered int
	Unknown   int
}

// Count tallies items by status
func Count(items []Shipment) Counts {
	c := Counts{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case StatusOnTime:
			c.OnTime++
		case StatusDelayed:
			c.Delayed++
		case StatusInTransit:
			c.InTransit++
		case StatusDelivered:
			c.Delivered++
		default:
			c.Unknown++
		}
	}
	return c
}

// OnTimePercentage returns the rounded share of on-time or delivered shipments, 0 for none
func OnTimePercentage(items []Shipment) int {
	if len(items) == 0 {
		return 0
	}
	c := Count(items)
	return int(math.Round(float64(c.OnTime+c.Delivered) / float64(c.Total) * 100))
}

// AverageTransitDays returns the mean whole days until ETA as "Nd"
// Past ETAs count as zero, shipments without an ETA are ignored
func AverageTransitDays(items []Shipment, now time.Time) string {
	sum, n := 0.0, 0
	for _, it := range items {
		if it.ETA.IsZero() {
			continue
		}
		days := math.Max(0, math.Round(it.ETA.Sub(now).Hours()/24))
		sum += days
		n++
	}
	if n == 0 {
		return "0d"
	}
	return fmt.Sprintf("%dd", int(math.Round(sum/float64(n))))
}

// Insight summarises the fleet in one sentence
func Insight(items []Shipment) string {
	if len(items) == 0 {
		return InsightInMotion
	}
	c := Count(items)
	total := float64(c.Total)

	switch {
	case float64(c.Delayed)/total > 0.4:
		return InsightDelays
	case float64(c.OnTime+c.Delivered)/total > 0.8:
		return InsightSmooth
	case float64(c.InTransit)/total > 0.5:
		return InsightTransit
	default:
		return InsightInMotion
	}
}

// FormatDateTime renders a local date and hour:minute, "N/A" for the zero time
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04")
}
