package cargo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fleet(statuses ...Status) []Shipment {
	out := make([]Shipment, len(statuses))
	for i, s := range statuses {
		out[i] = Shipment{ID: string(rune('A' + i)), Status: s}
	}
	return out
}

func TestOnTimePercentage(t *testing.T) {
	tests := []struct {
		name  string
		items []Shipment
		want  int
	}{
		{"Empty", nil, 0},
		{"All delivered", fleet(StatusDelivered, StatusDelivered), 100},
		{"Mixed", fleet(StatusOnTime, StatusDelayed, StatusInTransit), 33},
		{"Two of three", fleet(StatusOnTime, StatusDelivered, StatusDelayed), 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnTimePercentage(tt.items))
		})
	}
}

func TestAverageTransitDays(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name string
		etas []time.Time
		want string
	}{
		{"Empty", nil, "0d"},
		{"No ETAs", []time.Time{{}, {}}, "0d"},
		{"Single", []time.Time{now.Add(3 * day)}, "3d"},
		{"Past counts as zero", []time.Time{now.Add(-5 * day), now.Add(4 * day)}, "2d"},
		{"Rounded", []time.Time{now.Add(1 * day), now.Add(2 * day)}, "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]Shipment, len(tt.etas))
			for i, eta := range tt.etas {
				items[i] = Shipment{ETA: eta}
			}
			assert.Equal(t, tt.want, AverageTransitDays(items, now))
		})
	}
}

func TestInsight(t *testing.T) {
	tests := []struct {
		name  string
		items []Shipment
		want  string
	}{
		{"Empty", nil, InsightInMotion},
		{"Many delays", fleet(StatusDelayed, StatusDelayed, StatusOnTime, StatusInTransit), InsightDelays},
		{"Smooth", fleet(StatusOnTime, StatusDelivered, StatusDelivered, StatusDelivered, StatusDelivered, StatusDelivered), InsightSmooth},
		{"Transit heavy", fleet(StatusInTransit, StatusInTransit, StatusInTransit, StatusOnTime), InsightTransit},
		{"Balanced", fleet(StatusInTransit, StatusOnTime, StatusDelayed, StatusDelivered), InsightInMotion},
		{"Exactly 40 percent delayed", fleet(StatusDelayed, StatusDelayed, StatusOnTime, StatusOnTime, StatusOnTime), InsightInMotion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Insight(tt.items))
		})
	}
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "N/A", FormatDateTime(time.Time{}))

	ts := time.Date(2024, 7, 9, 8, 5, 0, 0, time.Local)
	assert.Equal(t, "2024-07-09 08:05", FormatDateTime(ts))
}

func TestDiff(t *testing.T) {
	prev := fleet(StatusInTransit, StatusInTransit, StatusDelayed)
	next := fleet(StatusDelivered, StatusInTransit, StatusOnTime)
	next = append(next, Shipment{ID: "new", Status: StatusInTransit})

	got := Diff(prev, next)
	assert.Equal(t, []Transition{
		{ID: "A", From: StatusInTransit, To: StatusDelivered},
		{ID: "C", From: StatusDelayed, To: StatusOnTime},
	}, got)

	assert.Nil(t, Diff(nil, next))
	assert.Nil(t, Diff(prev, nil))
}
