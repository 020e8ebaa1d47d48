package brain

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Graph shape
const (
	NodeCount      = 90
	HighlightCount = 8
	Neighbours     = 3
)

// Projection constants in the graph's virtual pixel space
const (
	SphereRadius = 300.0
	FocalLength  = 600.0
)

// Node is a point on the unit sphere with display metadata
type Node struct {
	ID        int
	X, Y, Z   float64
	Size      float64
	Highlight bool

	Label      string
	Importance string
	Note       string
}

// Edge joins two node IDs, A < B
type Edge struct {
	A, B int
}

// Graph is the static node layout
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NewGraph spreads NodeCount nodes over the sphere on a golden-section spiral
// and joins each to its nearest neighbours
func NewGraph(rng *rand.Rand) *Graph {
	nodes := make([]Node, NodeCount)
	for i := range nodes {
		theta := math.Acos(1 - 2*float64(i)/NodeCount)
		phi := math.Pi * (1 + math.Sqrt(5)) * float64(i)

		note := "Stable reading"
		if i%7 == 0 {
			note = "Potential imbalance detected in aft stack"
		}
		nodes[i] = Node{
			ID:         i,
			X:          math.Sin(theta) * math.Cos(phi),
			Y:          math.Sin(theta) * math.Sin(phi),
			Z:          math.Cos(theta),
			Size:       2 + rng.Float64()*4,
			Highlight:  i < HighlightCount,
			Label:      fmt.Sprintf("Node #%d", i),
			Importance: fmt.Sprintf("%d%%", int(10+rng.Float64()*85)),
			Note:       note,
		}
	}

	for i := 0; i < HighlightCount; i++ {
		n := &nodes[rng.Intn(len(nodes))]
		n.Size = 6 + rng.Float64()*4
		n.Highlight = true
	}

	return &Graph{Nodes: nodes, Edges: nearestEdges(nodes, Neighbours)}
}

// nearestEdges links every node to its k nearest, keeping each pair once
func nearestEdges(nodes []Node, k int) []Edge {
	type cand struct {
		j int
		d float64
	}
	var edges []Edge
	for i, a := range nodes {
		cands := make([]cand, 0, len(nodes))
		for j, b := range nodes {
			cands = append(cands, cand{j: j, d: math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))})
		}
		sort.SliceStable(cands, func(p, q int) bool { return cands[p].d < cands[q].d })

		// Index 0 is the node itself
		for _, c := range cands[1:min(1+k, len(cands))] {
			if i < c.j {
				edges = append(edges, Edge{A: i, B: c.j})
			}
		}
	}
	return edges
}

// Projected is a node position in virtual pixels around the sphere center
type Projected struct {
	X, Y  float64
	Z     float64 // rotated depth, -1 nearest to the viewer
	Scale float64 // perspective factor
}

// Project rotates n about the vertical axis by rotY radians and applies perspective
func Project(n Node, rotY float64) Projected {
	cos, sin := math.Cos(rotY), math.Sin(rotY)
	x := n.X*cos + n.Z*sin
	z := -n.X*sin + n.Z*cos

	scale := FocalLength / (FocalLength + z*SphereRadius)
	return Projected{
		X:     x * SphereRadius * scale,
		Y:     n.Y * SphereRadius * scale,
		Z:     z,
		Scale: scale,
	}
}
