package chart

import "strings"

// Kind selects a chart variant
type Kind string

const (
	KindBar   Kind = "bar"
	KindDonut Kind = "donut"
)

// ParseKind maps a name to a Kind; unknown names fall back to the donut
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBar:
		return KindBar
	default:
		return KindDonut
	}
}
