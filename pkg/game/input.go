package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/ui"
)

// inputSnapshot is the raw input of one ebiten update.
type inputSnapshot struct {
	cursor  geometry.Vector2D
	clicked bool
	toggle  bool
	step    bool
	reset   bool
	gravity bool
	digit   int // scenario shortcut, -1 when none
	up      bool
	down    bool
	left    bool
	right   bool
}

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
	ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9, ebiten.KeyDigit0,
}

func readInput() inputSnapshot {
	x, y := ebiten.CursorPosition()
	s := inputSnapshot{
		cursor:  geometry.Vector2D{X: float64(x), Y: float64(y)},
		clicked: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		toggle:  inpututil.IsKeyJustPressed(ebiten.KeySpace),
		step:    inpututil.IsKeyJustPressed(ebiten.KeyS),
		reset:   inpututil.IsKeyJustPressed(ebiten.KeyR),
		gravity: inpututil.IsKeyJustPressed(ebiten.KeyG),
		digit:   -1,
		up:      ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		down:    ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			s.digit = i
			break
		}
	}
	return s
}

// magnetDirection combines the arrow keys into a direction, zero when none
// or when opposite keys cancel out.
func magnetDirection(up, down, left, right bool) geometry.Vector2D {
	var d geometry.Vector2D
	if up {
		d.Y--
	}
	if down {
		d.Y++
	}
	if left {
		d.X--
	}
	if right {
		d.X++
	}
	return d
}

// translate turns a snapshot into commands. Pointer and magnet commands are
// only emitted on change.
func (g *Game) translate(s inputSnapshot) []simulation.Command {
	var cmds []simulation.Command

	arena := ui.Rect{Width: g.cfg.WorldWidth, Height: g.cfg.WorldHeight}
	inside := arena.Contains(s.cursor.X, s.cursor.Y)
	switch {
	case inside && (!g.pointerInside || !s.cursor.Eq(g.pointer)):
		cmds = append(cmds, simulation.PointerMove(s.cursor))
	case !inside && g.pointerInside:
		cmds = append(cmds, simulation.PointerLeave())
	}
	g.pointer, g.pointerInside = s.cursor, inside

	if s.clicked && inside {
		cmds = append(cmds, simulation.Pick(s.cursor))
	}
	if s.toggle {
		cmds = append(cmds, simulation.Toggle())
	}
	if s.step {
		cmds = append(cmds, simulation.StepOnce())
	}
	if s.reset {
		cmds = append(cmds, simulation.ResetTo(g.lastState.Scenario))
	}
	if s.gravity {
		cmds = append(cmds, simulation.ToggleGravity())
	}
	if s.digit >= 0 && s.digit < len(g.lastState.Scenarios) {
		cmds = append(cmds, simulation.ResetTo(g.lastState.Scenarios[s.digit]))
	}
	if m := magnetDirection(s.up, s.down, s.left, s.right); !m.Eq(g.magnet) {
		g.magnet = m
		cmds = append(cmds, simulation.Magnet(m))
	}
	return cmds
}

// Poll returns the keyboard and mouse commands of this update followed by the
// ones queued by the panel.
func (g *Game) Poll() []simulation.Command {
	cmds := g.translate(readInput())
	cmds = append(cmds, g.pending...)
	g.pending = g.pending[:0]
	return cmds
}
