package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	geom "github.com/peterstace/simplefeatures/geom"
)

// GraticuleStep is the spacing of meridians and parallels in degrees
const GraticuleStep = 10.0

// graticuleSample is the vertex spacing along a grid line in degrees
const graticuleSample = 2.0

//go:embed land.json
var landJSON []byte

var (
	landOnce  sync.Once
	landLines []geom.LineString
	landErr   error
)

// Land returns the coarse coastline rings as closed line strings in lon/lat
// Parsed once from the embedded outline table
func Land() ([]geom.LineString, error) {
	landOnce.Do(func() {
		landLines, landErr = ParseOutlines(landJSON)
	})
	return landLines, landErr
}

// ParseOutlines decodes a JSON array of rings, each ring an array of [lon, lat] pairs
func ParseOutlines(data []byte) ([]geom.LineString, error) {
	var rings [][][2]float64
	if err := json.Unmarshal(data, &rings); err != nil {
		return nil, fmt.Errorf("failed to decode outlines: %w", err)
	}

	lines := make([]geom.LineString, 0, len(rings))
	for i, ring := range rings {
		if len(ring) < 2 {
			return nil, fmt.Errorf("outline %d has %d vertices", i, len(ring))
		}
		flat := make([]float64, 0, len(ring)*2)
		for _, pt := range ring {
			if err := (LonLat{Lon: pt[0], Lat: pt[1]}).Validate(); err != nil {
				return nil, fmt.Errorf("outline %d: %w", i, err)
			}
			flat = append(flat, pt[0], pt[1])
		}
		lines = append(lines, geom.NewLineString(geom.NewSequence(flat, geom.DimXY)))
	}
	return lines, nil
}

// Graticule returns meridians and parallels every GraticuleStep degrees
// Parallels stop short of the poles, meridians run pole to pole
func Graticule() []geom.LineString {
	var lines []geom.LineString

	for lon := -180.0; lon < 180; lon += GraticuleStep {
		flat := make([]float64, 0, int(180/graticuleSample+1)*2)
		for lat := -90.0; lat <= 90; lat += graticuleSample {
			flat = append(flat, lon, lat)
		}
		lines = append(lines, geom.NewLineString(geom.NewSequence(flat, geom.DimXY)))
	}

	for lat := -90 + GraticuleStep; lat < 90; lat += GraticuleStep {
		flat := make([]float64, 0, int(360/graticuleSample+1)*2)
		for lon := -180.0; lon <= 180; lon += graticuleSample {
			flat = append(flat, lon, lat)
		}
		lines = append(lines, geom.NewLineString(geom.NewSequence(flat, geom.DimXY)))
	}

	return lines
}

// Vertices extracts the lon/lat vertices of a line string
func Vertices(ls geom.LineString) []LonLat {
	seq := ls.Coordinates()
	n := seq.Length()
	if n == 0 {
		return nil
	}
	out := make([]LonLat, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		out[i] = LonLat{Lon: xy.X, Lat: xy.Y}
	}
	return out
}
