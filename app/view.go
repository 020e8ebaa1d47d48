package app

import (
	"fmt"
	"strings"
)

// ViewID selects the full-screen dashboard view
type ViewID int

const (
	ViewGlobe ViewID = iota
	ViewBrain
	ViewPlan
	ViewCharts
	viewCount
)

var viewNames = [viewCount]string{"globe", "brain", "plan", "charts"}

var viewTitles = [viewCount]string{"Tracker", "AI Brain", "Ship Plan", "Insights"}

func (v ViewID) String() string {
	if v < 0 || v >= viewCount {
		return "unknown"
	}
	return viewNames[v]
}

// Title is the tab label
func (v ViewID) Title() string {
	if v < 0 || v >= viewCount {
		return ""
	}
	return viewTitles[v]
}

// Next cycles forward through the views
func (v ViewID) Next() ViewID {
	return (v + 1) % viewCount
}

// Prev cycles backward through the views
func (v ViewID) Prev() ViewID {
	return (v + viewCount - 1) % viewCount
}

// ParseView resolves a view by name, empty selects the globe
func ParseView(s string) (ViewID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ViewGlobe, nil
	}
	for i, n := range viewNames {
		if n == s {
			return ViewID(i), nil
		}
	}
	return ViewGlobe, fmt.Errorf("unknown view %q, want one of %s", s, strings.Join(viewNames[:], ", "))
}
