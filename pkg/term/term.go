// Package term draws the simulation in a terminal with tcell and reads its
// keyboard and mouse events.
package term

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
)

// headings are indexed by octant, clockwise from east on a y-down screen.
var headings = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var (
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePtr    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

const help = "[space] run  [s] step  [r] reset  [1-9] scenario  [g] gravity  [arrows/m] magnet  [q] quit"

// Terminal implements simulation.Renderer and simulation.InputSource.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event

	size      geometry.Vector2D
	scenario  string
	scenarios []string

	buttons       tcell.ButtonMask
	pointerInside bool
	quit          bool
}

var (
	_ simulation.Renderer    = (*Terminal)(nil)
	_ simulation.InputSource = (*Terminal)(nil)
)

// NewScreen opens the controlling terminal.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// New wraps an initialized screen. world is the size of the arena in world
// units, used until the first frame arrives.
func New(screen tcell.Screen, world geometry.Vector2D) *Terminal {
	screen.EnableMouse()
	screen.HideCursor()
	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 100),
		size:   world,
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			t.events <- ev
		}
	}()
	return t
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Quit reports whether the user asked to leave.
func (t *Terminal) Quit() bool { return t.quit }

// arena returns the number of columns and rows used by the world, the last
// row is the status line.
func (t *Terminal) arena() (int, int) {
	w, h := t.screen.Size()
	return w, max(h-1, 1)
}

// cell maps a world position to a terminal cell.
func (t *Terminal) cell(p geometry.Vector2D) (int, int) {
	cols, rows := t.arena()
	if t.size.X <= 0 || t.size.Y <= 0 {
		return 0, 0
	}
	x := int(p.X / t.size.X * float64(cols))
	y := int(p.Y / t.size.Y * float64(rows))
	return min(max(x, 0), cols-1), min(max(y, 0), rows-1)
}

// world maps the center of a terminal cell back to the world.
func (t *Terminal) world(x, y int) geometry.Vector2D {
	cols, rows := t.arena()
	return geometry.Vector2D{
		X: (float64(x) + 0.5) * t.size.X / float64(cols),
		Y: (float64(y) + 0.5) * t.size.Y / float64(rows),
	}
}

func heading(v geometry.Vector2D) rune {
	if v.LenSqr() == 0 {
		return '•'
	}
	octant := int(math.Round(v.Angle()/(math.Pi/4))) % len(headings)
	if octant < 0 {
		octant += len(headings)
	}
	return headings[octant]
}

func glyph(a simulation.AgentView) rune {
	switch a.Kind {
	case simulation.KindBall:
		return 'o'
	case simulation.KindObstacle:
		return '#'
	case simulation.KindPredator:
		return 'X'
	}
	return heading(a.Vel)
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Render draws f, scaled to the terminal.
func (t *Terminal) Render(f simulation.Frame) error {
	t.size, t.scenario, t.scenarios = f.Size, f.Scenario, f.Scenarios
	t.screen.Clear()

	for _, a := range f.Agents {
		for _, p := range a.Trail {
			x, y := t.cell(p)
			t.screen.SetContent(x, y, '·', nil, styleTrail)
		}
	}
	for _, a := range f.Agents {
		style := tcell.StyleDefault.Foreground(rgb(a.Fill))
		if a.Selected {
			style = style.Reverse(true)
		}
		x, y := t.cell(a.Pos)
		t.screen.SetContent(x, y, glyph(a), nil, style)
	}
	if f.PointerInside {
		x, y := t.cell(f.Pointer)
		t.screen.SetContent(x, y, '+', nil, stylePtr)
	}

	state := "stopped"
	if f.Running {
		state = "running"
	}
	status := fmt.Sprintf(" %s (%s) tick %d  %s", f.Scenario, state, f.Tick, help)
	if a, ok := f.SelectedAgent(); ok {
		status = fmt.Sprintf(" %s (%s) tick %d  %s %s |v| %.1f", f.Scenario, state, f.Tick, a.Name, a.Kind, a.Vel.Len())
	}
	w, h := t.screen.Size()
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		t.screen.SetContent(x, h-1, r, nil, styleStatus)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}

	t.screen.Show()
	return nil
}

// Poll drains the pending terminal events.
func (t *Terminal) Poll() []simulation.Command {
	var cmds []simulation.Command
	for {
		select {
		case ev := <-t.events:
			cmds = append(cmds, t.handle(ev)...)
		default:
			return cmds
		}
	}
}

func (t *Terminal) handle(ev tcell.Event) []simulation.Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.key(ev)
	case *tcell.EventMouse:
		return t.mouse(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return nil
}

func (t *Terminal) key(ev *tcell.EventKey) []simulation.Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return nil
	case tcell.KeyUp:
		return []simulation.Command{simulation.Magnet(geometry.Vector2D{Y: -1})}
	case tcell.KeyDown:
		return []simulation.Command{simulation.Magnet(geometry.Vector2D{Y: 1})}
	case tcell.KeyLeft:
		return []simulation.Command{simulation.Magnet(geometry.Vector2D{X: -1})}
	case tcell.KeyRight:
		return []simulation.Command{simulation.Magnet(geometry.Vector2D{X: 1})}
	case tcell.KeyRune:
	default:
		return nil
	}

	switch r := ev.Rune(); {
	case r == 'q':
		t.quit = true
	case r == ' ':
		return []simulation.Command{simulation.Toggle()}
	case r == 's':
		return []simulation.Command{simulation.StepOnce()}
	case r == 'r':
		return []simulation.Command{simulation.ResetTo(t.scenario)}
	case r == 'g':
		return []simulation.Command{simulation.ToggleGravity()}
	case r == 'm':
		return []simulation.Command{simulation.Magnet(geometry.Vector2D{})}
	case r >= '1' && r <= '9':
		if i := int(r - '1'); i < len(t.scenarios) {
			return []simulation.Command{simulation.ResetTo(t.scenarios[i])}
		}
	}
	return nil
}

func (t *Terminal) mouse(ev *tcell.EventMouse) []simulation.Command {
	var cmds []simulation.Command
	x, y := ev.Position()
	_, rows := t.arena()
	inside := y < rows

	switch {
	case inside:
		cmds = append(cmds, simulation.PointerMove(t.world(x, y)))
	case t.pointerInside:
		cmds = append(cmds, simulation.PointerLeave())
	}
	t.pointerInside = inside

	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && t.buttons&tcell.Button1 == 0 && inside {
		cmds = append(cmds, simulation.Pick(t.world(x, y)))
	}
	t.buttons = ev.Buttons()
	return cmds
}
