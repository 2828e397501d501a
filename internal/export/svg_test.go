package export

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

func TestFrameSVG(t *testing.T) {
	reg, err := physics.FromDescriptors([]physics.Descriptor{
		{Mass: 10, Position: dynamo.Vec2{X: 350, Y: 250}, Velocity: dynamo.Vec2{X: 3.5}, TrailCap: 5, Color: "#9f79ee", TrailColor: "#5f4a8e"},
		{Mass: 1500, Position: dynamo.Vec2{X: 350, Y: 350}, TrailCap: 5, Static: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	st, err := physics.NewStepper(physics.DefaultStepConfig())
	if err != nil {
		t.Fatal(err)
	}
	st.Step(reg)
	st.Step(reg)

	svg := FrameSVG(reg.States(), 700, 700)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, `fill="#9f79ee"`) || !strings.Contains(svg, `fill="#3cb371"`) {
		t.Error("body colors missing")
	}
	// 3 present entries for the moving body and the anchor each
	if strings.Count(svg, "<polyline") != 2 {
		t.Errorf("expected 2 trail polylines, got %d", strings.Count(svg, "<polyline"))
	}
	if !strings.Contains(svg, `stroke="#5f4a8e"`) {
		t.Error("trail color missing")
	}
}

func TestTrailRuns(t *testing.T) {
	trail := []physics.TrailPoint{
		{Pos: dynamo.Vec2{X: 1, Y: 1}, Valid: true},
		{Pos: dynamo.Vec2{X: 2, Y: 2}, Valid: true},
		{},
		{Pos: dynamo.Vec2{X: 3, Y: 3}, Valid: true},
		{},
	}

	runs := trailRuns(trail)
	if len(runs) != 2 || len(runs[0]) != 2 || len(runs[1]) != 1 {
		t.Errorf("unexpected runs %v", runs)
	}
	if runs[0][0] != "1.00,1.00" {
		t.Errorf("unexpected point %q", runs[0][0])
	}
}

func TestTrajectoriesSVG(t *testing.T) {
	frames := []sim.Frame{
		{Step: 0, Bodies: []sim.Sample{{Position: dynamo.Vec2{X: 10, Y: 10}}, {Position: dynamo.Vec2{X: 50, Y: 50}}}},
		{Step: 1, Bodies: []sim.Sample{{Position: dynamo.Vec2{X: 20, Y: 10}}, {Position: dynamo.Vec2{X: 50, Y: 50}}}},
	}

	svg := TrajectoriesSVG(frames, []string{"#ff0000"}, 100, 100)
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected a path per body")
	}
	if !strings.Contains(svg, `d="M10.00,10.00 L20.00,10.00"`) {
		t.Error("first body path missing")
	}
	if !strings.Contains(svg, `stroke="#2e8b57"`) {
		t.Error("default stroke not used for uncolored body")
	}

	if empty := TrajectoriesSVG(nil, nil, 100, 100); !strings.HasSuffix(empty, "</svg>") {
		t.Error("empty trajectories should still be a document")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0, "#ff0000")
	c.Set(3, 3, "")

	svg := CanvasToSVG(c, 2)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 dots, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, `width="8" height="16"`) {
		t.Error("unexpected svg size")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}
