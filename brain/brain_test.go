package brain

import (
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/fleetview/render"
)

var brainEpoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestBrain(t *testing.T) *Brain {
	t.Helper()
	b := New(rand.New(rand.NewSource(3)), brainEpoch)
	// 86x30 cell graph area, 172x120 dots
	b.SetRect(render.Rect{X: 0, Y: 0, W: 120, H: 33})
	return b
}

func TestNewGraphLayout(t *testing.T) {
	g := NewGraph(rand.New(rand.NewSource(1)))
	require.Len(t, g.Nodes, NodeCount)

	highlighted := 0
	for i, n := range g.Nodes {
		assert.Equal(t, i, n.ID)
		assert.InDelta(t, 1, n.X*n.X+n.Y*n.Y+n.Z*n.Z, 1e-9, "node %d off the unit sphere", i)
		assert.GreaterOrEqual(t, n.Size, 2.0)
		assert.Less(t, n.Size, 10.0)
		if i < HighlightCount {
			assert.True(t, n.Highlight)
		}
		if n.Highlight {
			highlighted++
		}
		assert.Equal(t, "Node #"+strconv.Itoa(i), n.Label)
	}
	assert.GreaterOrEqual(t, highlighted, HighlightCount)

	assert.Equal(t, "Potential imbalance detected in aft stack", g.Nodes[0].Note)
	assert.Equal(t, "Stable reading", g.Nodes[1].Note)
	assert.InDelta(t, 1, g.Nodes[0].Z, 1e-12)
}

func TestNewGraphEdges(t *testing.T) {
	g := NewGraph(rand.New(rand.NewSource(1)))
	require.NotEmpty(t, g.Edges)
	assert.LessOrEqual(t, len(g.Edges), NodeCount*Neighbours)

	seen := make(map[Edge]bool)
	for _, e := range g.Edges {
		assert.Less(t, e.A, e.B)
		assert.False(t, seen[e], "duplicate edge %v", e)
		seen[e] = true
	}
}

func TestNewGraphDeterministic(t *testing.T) {
	a := NewGraph(rand.New(rand.NewSource(11)))
	b := NewGraph(rand.New(rand.NewSource(11)))
	assert.Equal(t, a, b)
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		rotY  float64
		wantX float64
		wantZ float64
		scale float64
	}{
		{"Far pole", Node{Z: 1}, 0, 0, 1, 2.0 / 3},
		{"Near pole", Node{Z: -1}, 0, 0, -1, 2},
		{"Quarter turn", Node{Z: 1}, math.Pi / 2, 300, 0, 1},
		{"Equator", Node{X: 1}, 0, 300, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.node, tt.rotY)
			assert.InDelta(t, tt.wantX, p.X, 1e-9)
			assert.InDelta(t, 0, p.Y, 1e-9)
			assert.InDelta(t, tt.wantZ, p.Z, 1e-9)
			assert.InDelta(t, tt.scale, p.Scale, 1e-9)
		})
	}
}

func TestAdvanceRotatesByElapsedTime(t *testing.T) {
	b := newTestBrain(t)

	b.Advance(brainEpoch)
	assert.Zero(t, b.RotY(), "first frame does not rotate")

	b.Advance(brainEpoch.Add(time.Second))
	assert.InDelta(t, 0.09, b.RotY(), 1e-12)

	b.Pause()
	b.Advance(brainEpoch.Add(time.Minute))
	assert.InDelta(t, 0.09, b.RotY(), 1e-12, "paused time is skipped")

	b.Advance(brainEpoch.Add(time.Minute + 500*time.Millisecond))
	assert.InDelta(t, 0.135, b.RotY(), 1e-12)
}

func TestHoverAndLeave(t *testing.T) {
	b := newTestBrain(t)
	title, text := b.Reason()
	assert.Equal(t, DefaultTitle, title)
	assert.Equal(t, DefaultReason, text)

	// Node 0 sits on the axis and projects to the canvas center
	dw, dh := b.canvas.Dots()
	b.hoverDots(float64(dw)/2, float64(dh)/2)
	assert.Equal(t, 0, b.Hovered())
	title, text = b.Reason()
	assert.Equal(t, "Node #0", title)
	assert.True(t, strings.HasPrefix(text, "Potential imbalance detected in aft stack • Importance "))
	assert.True(t, strings.HasSuffix(text, "%"))

	// Corners are far outside any node's reach
	b.hoverDots(0, 0)
	assert.Equal(t, -1, b.Hovered())
	title, _ = b.Reason()
	assert.Equal(t, DefaultTitle, title)

	b.hoverDots(float64(dw)/2, float64(dh)/2)
	b.Leave()
	title, text = b.Reason()
	assert.Equal(t, DefaultTitle, title)
	assert.Equal(t, DefaultReason, text)
}

func TestHoverOutsideGraphLeaves(t *testing.T) {
	b := newTestBrain(t)
	dw, dh := b.canvas.Dots()
	b.hoverDots(float64(dw)/2, float64(dh)/2)
	require.Equal(t, 0, b.Hovered())

	// KPI strip is not part of the graph area
	b.Hover(50, 0)
	assert.Equal(t, -1, b.Hovered())
}

var confidenceRe = regexp.MustCompile(`Confidence: (\d+)%`)

func TestClickOpensDeepReasoning(t *testing.T) {
	b := newTestBrain(t)
	dw, dh := b.canvas.Dots()

	assert.False(t, b.clickDots(0, 0))
	title, _ := b.Reason()
	assert.Equal(t, DefaultTitle, title)

	require.True(t, b.clickDots(float64(dw)/2, float64(dh)/2))
	title, text := b.Reason()
	assert.Equal(t, "Deep Reasoning: Node #0", title)
	assert.Contains(t, text, "Rebalancing suggestion")

	m := confidenceRe.FindStringSubmatch(text)
	require.Len(t, m, 2)
	confidence, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, confidence, 60)
	assert.Less(t, confidence, 96)

	assert.False(t, b.Click(0, 0), "text column ignores clicks")
}

func TestRenderDrawsPanels(t *testing.T) {
	b := newTestBrain(t)
	b.Advance(brainEpoch)
	buf := render.NewRenderBuffer(120, 33)
	b.Render(render.Context{Now: brainEpoch}, buf)

	text := buf.Text()
	assert.Contains(t, text, "AI Metrics")
	assert.Contains(t, text, "Stability")
	assert.Contains(t, text, "92.0%")
	assert.Contains(t, text, DefaultTitle)

	braille := 0
	for y := b.graphRect.Y; y < b.graphRect.Y+b.graphRect.H; y++ {
		for x := b.graphRect.X; x < b.graphRect.X+b.graphRect.W; x++ {
			if r := buf.Get(x, y).Rune; r > render.BrailleBase && r <= render.BrailleBase+0xff {
				braille++
			}
		}
	}
	assert.Greater(t, braille, 20)
}

func TestRenderEmptyRect(t *testing.T) {
	b := New(rand.New(rand.NewSource(1)), brainEpoch)
	buf := render.NewRenderBuffer(10, 10)
	assert.NotPanics(t, func() { b.Render(render.Context{}, buf) })

	b.SetRect(render.Rect{W: 10, H: 2})
	assert.NotPanics(t, func() { b.Render(render.Context{}, buf) })
}

func TestKPIBoardTiming(t *testing.T) {
	board := NewKPIBoard(DefaultKPIs(), rand.New(rand.NewSource(5)), brainEpoch)

	assert.Zero(t, board.Update(brainEpoch.Add(KPIInterval-time.Millisecond)))
	assert.Equal(t, 1, board.Update(brainEpoch.Add(KPIInterval)))
	assert.Zero(t, board.Update(brainEpoch.Add(KPIInterval+time.Millisecond)))
	assert.Equal(t, 1, board.Update(brainEpoch.Add(2*KPIInterval)))

	// A long pause runs a bounded number of steps then resumes on a fresh period
	later := brainEpoch.Add(time.Hour)
	assert.Equal(t, maxCatchUp, board.Update(later))
	assert.Zero(t, board.Update(later.Add(KPIInterval-time.Millisecond)))
	assert.Equal(t, 1, board.Update(later.Add(KPIInterval)))
}

func TestKPIBoardStaysInBounds(t *testing.T) {
	board := NewKPIBoard(DefaultKPIs(), rand.New(rand.NewSource(9)), brainEpoch)
	now := brainEpoch
	for i := 0; i < 2000; i++ {
		now = now.Add(KPIInterval)
		board.Update(now)
		for _, k := range board.Items() {
			require.GreaterOrEqual(t, k.Value, k.Min, k.Label)
			require.LessOrEqual(t, k.Value, k.Max, k.Label)
		}
	}
}

func TestKPIItemsIsCopy(t *testing.T) {
	board := NewKPIBoard(DefaultKPIs(), rand.New(rand.NewSource(1)), brainEpoch)
	items := board.Items()
	items[0].Value = -1
	assert.Equal(t, 92.0, board.Items()[0].Value)
}

func TestKPIFormat(t *testing.T) {
	assert.Equal(t, "92.0%", KPI{Value: 92}.Format())
	assert.Equal(t, "11.3%", KPI{Value: 11.26}.Format())
}
