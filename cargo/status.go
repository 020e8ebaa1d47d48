package cargo

import (
	"fmt"
	"strings"
)

// Status is the delivery state of a shipment and selects its marker color
type Status uint8

const (
	StatusUnknown Status = iota
	StatusOnTime
	StatusDelayed
	StatusInTransit
	StatusDelivered
)

var statusNames = [...]string{
	StatusUnknown:   "Unknown",
	StatusOnTime:    "On Time",
	StatusDelayed:   "Delayed",
	StatusInTransit: "In Transit",
	StatusDelivered: "Delivered",
}

var statusColors = [...]string{
	StatusUnknown:   "#9ca3af",
	StatusOnTime:    "#22c55e",
	StatusDelayed:   "#ef4444",
	StatusInTransit: "#60a5fa",
	StatusDelivered: "#a78bfa",
}

// String returns the display name
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUnknown]
}

// Color returns the marker color as #rrggbb, gray for unknown values
func (s Status) Color() string {
	if int(s) < len(statusColors) {
		return statusColors[s]
	}
	return statusColors[StatusUnknown]
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus accepts display names and kebab/snake forms, case-insensitive
func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for i, name := range statusNames {
		if strings.ToLower(name) == norm {
			return Status(i), nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown shipment status %q", s)
}

// Type is the cargo class carried by a shipment
type Type uint8

const (
	TypeContainer Type = iota
	TypeBulk
	TypeLiquid
	TypeRefrigerated
)

// Types lists every cargo type in generation order
var Types = []Type{TypeContainer, TypeBulk, TypeLiquid, TypeRefrigerated}

func (t Type) String() string {
	switch t {
	case TypeContainer:
		return "Container"
	case TypeBulk:
		return "Bulk"
	case TypeLiquid:
		return "Liquid"
	case TypeRefrigerated:
		return "Refrigerated"
	default:
		return "Unknown"
	}
}
