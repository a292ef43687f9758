package game

import (
	"context"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

var testScenarios = []string{"Flocking", "Predators", "Balls"}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	return New(context.Background(), simulation.DefaultConfig(), nil, nil, testScenarios, golog.DiscardLogger)
}

func none() inputSnapshot { return inputSnapshot{digit: -1} }

func kinds(cmds []simulation.Command) []simulation.CommandKind {
	var out []simulation.CommandKind
	for _, c := range cmds {
		out = append(out, c.Kind)
	}
	return out
}

func TestMagnetDirection(t *testing.T) {
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  geometry.Vector2D
	}{
		{"none", false, false, false, false, geometry.Vector2D{}},
		{"up", true, false, false, false, geometry.Vector2D{Y: -1}},
		{"down right", false, true, false, true, geometry.Vector2D{X: 1, Y: 1}},
		{"cancel", true, true, true, true, geometry.Vector2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := magnetDirection(tt.up, tt.down, tt.left, tt.right); !got.Eq(tt.want) {
				t.Errorf("magnetDirection() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGame_Translate(t *testing.T) {
	g := newTestGame(t)
	at := func(x, y float64) inputSnapshot {
		s := none()
		s.cursor = geometry.Vector2D{X: x, Y: y}
		return s
	}

	steps := []struct {
		name string
		in   inputSnapshot
		want []simulation.CommandKind
	}{
		{"enter", at(10, 10), []simulation.CommandKind{simulation.CmdPointerMove}},
		{"still", at(10, 10), nil},
		{"leave", at(2000, 10), []simulation.CommandKind{simulation.CmdPointerLeave}},
		{"outside", at(2000, 20), nil},
		{"click", func() inputSnapshot { s := at(5, 5); s.clicked = true; return s }(),
			[]simulation.CommandKind{simulation.CmdPointerMove, simulation.CmdPick}},
		{"keys", func() inputSnapshot { s := at(5, 5); s.toggle, s.step, s.gravity = true, true, true; return s }(),
			[]simulation.CommandKind{simulation.CmdToggle, simulation.CmdStep, simulation.CmdToggleGravity}},
		{"digit", func() inputSnapshot { s := at(5, 5); s.digit = 1; return s }(),
			[]simulation.CommandKind{simulation.CmdReset}},
		{"digit out of range", func() inputSnapshot { s := at(5, 5); s.digit = 9; return s }(), nil},
		{"magnet", func() inputSnapshot { s := at(5, 5); s.up, s.left = true, true; return s }(),
			[]simulation.CommandKind{simulation.CmdMagnet}},
		{"magnet held", func() inputSnapshot { s := at(5, 5); s.up, s.left = true, true; return s }(), nil},
		{"magnet released", at(5, 5), []simulation.CommandKind{simulation.CmdMagnet}},
	}
	for _, step := range steps {
		got := g.translate(step.in)
		gotKinds := kinds(got)
		if len(gotKinds) != len(step.want) {
			t.Fatalf("%s: got %v, want %v", step.name, gotKinds, step.want)
		}
		for i := range gotKinds {
			if gotKinds[i] != step.want[i] {
				t.Fatalf("%s: got %v, want %v", step.name, gotKinds, step.want)
			}
		}
		if step.name == "digit" && got[0].Scenario != "Predators" {
			t.Errorf("digit reset to %q, want Predators", got[0].Scenario)
		}
		if step.name == "magnet" && !got[0].Point.Eq(geometry.Vector2D{X: -1, Y: -1}) {
			t.Errorf("magnet direction = %s", got[0].Point)
		}
	}
}

func TestGame_PanelQueuesCommands(t *testing.T) {
	g := newTestGame(t)
	_ = g.Render(simulation.Frame{Scenario: "Balls", Scenarios: testScenarios, Running: true})

	if g.runButtons[0].Label != "Stop" {
		t.Errorf("run button label = %q, want Stop", g.runButtons[0].Label)
	}
	for i, b := range g.scenarioButtons {
		if want := testScenarios[i] == "Balls"; b.Active != want {
			t.Errorf("scenario button %q active = %v, want %v", b.Label, b.Active, want)
		}
	}

	g.runButtons[1].Click()
	g.runButtons[2].Click()
	g.scenarioButtons[1].Click()
	want := []simulation.Command{simulation.StepOnce(), simulation.ResetTo("Balls"), simulation.ResetTo("Predators")}
	if len(g.pending) != len(want) {
		t.Fatalf("pending = %v, want %v", g.pending, want)
	}
	for i := range want {
		if g.pending[i] != want[i] {
			t.Errorf("pending[%d] = %s, want %s", i, g.pending[i], want[i])
		}
	}
}

func TestConeOutline(t *testing.T) {
	c := simulation.Cone{Origin: geometry.Vector2D{X: 10, Y: 10}, Heading: 0, FieldOfView: 90, Range: 20}
	points := coneOutline(c)
	if len(points) != conePoints+3 {
		t.Fatalf("len(points) = %d, want %d", len(points), conePoints+3)
	}
	if !points[0].Eq(c.Origin) || !points[len(points)-1].Eq(c.Origin) {
		t.Errorf("outline is not closed on the apex")
	}
	for _, p := range points[1 : len(points)-1] {
		if d := p.DistanceTo(c.Origin); math.Abs(d-c.Range) > 1e-9 {
			t.Errorf("arc point %s at distance %v, want %v", p, d, c.Range)
		}
		if a := p.Sub(c.Origin).Angle(); math.Abs(a) > math.Pi/4+1e-9 {
			t.Errorf("arc point %s outside the field of view", p)
		}
	}
}

func TestBoidTriangle(t *testing.T) {
	pos := geometry.Vector2D{X: 50, Y: 50}
	tri := boidTriangle(pos, geometry.Vector2D{Y: 3}, 5)
	if !tri[0].Eq(geometry.Vector2D{X: 50, Y: 56}) {
		t.Errorf("tip = %s, want (50, 56)", tri[0])
	}
	for _, p := range tri[1:] {
		if p.Y >= pos.Y {
			t.Errorf("wing %s should be behind the center", p)
		}
	}
}
