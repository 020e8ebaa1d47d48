package feed

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/lixenwraith/fleetview/geo"
)

//go:embed ports.csv
var portsCSV []byte

// ErrTooFewPorts is returned when a port table cannot yield distinct origin and destination
var ErrTooFewPorts = errors.New("at least two ports are required")

// Port is a named harbour position
type Port struct {
	Name    string  `csv:"name"`
	Lat     float64 `csv:"lat"`
	Lon     float64 `csv:"lon"`
	Country string  `csv:"country"`
}

// Position returns the port coordinate
func (p Port) Position() geo.LonLat {
	return geo.LonLat{Lon: p.Lon, Lat: p.Lat}
}

// DefaultPorts returns the embedded port table
func DefaultPorts() ([]Port, error) {
	return LoadPorts(portsCSV)
}

// LoadPorts parses a CSV port table with a name,lat,lon[,country] header
// Names must be unique and coordinates in range
func LoadPorts(data []byte) ([]Port, error) {
	var ports []Port
	if err := gocsv.UnmarshalBytes(data, &ports); err != nil {
		return nil, fmt.Errorf("failed to parse port table: %w", err)
	}

	seen := make(map[string]struct{}, len(ports))
	for i, p := range ports {
		if p.Name == "" {
			return nil, fmt.Errorf("port %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate port %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if err := p.Position().Validate(); err != nil {
			return nil, fmt.Errorf("port %q: %w", p.Name, err)
		}
	}
	if len(ports) < 2 {
		return nil, ErrTooFewPorts
	}
	return ports, nil
}

// SortedByName returns a copy of ports ordered by name
func SortedByName(ports []Port) []Port {
	out := append([]Port(nil), ports...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
