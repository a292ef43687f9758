// Package game is the ebiten front end: it draws the frames pushed by the
// SimulationActor and turns mouse and keyboard input into commands.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
)

// PanelWidth is the width of the control panel drawn right of the arena.
const PanelWidth = 260.0

// Game implements ebiten.Game, simulation.Renderer and simulation.InputSource.
type Game struct {
	ctx    context.Context
	pid    *actor.PID
	frames <-chan simulation.Frame
	logger golog.Logger
	cfg    *simulation.Config

	lastState simulation.Frame
	pending   []simulation.Command

	pointer       geometry.Vector2D
	pointerInside bool
	magnet        geometry.Vector2D

	// UI Controls
	panel           *ui.UIPanel
	runButtons      []*ui.Button
	scenarioButtons []*ui.Button
	widgetDeltaTime *ui.Slider
	widgetEyes      *ui.Checkbox
	widgetDebug     *ui.Checkbox
	widgetTrails    *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

var (
	_ ebiten.Game            = (*Game)(nil)
	_ simulation.Renderer    = (*Game)(nil)
	_ simulation.InputSource = (*Game)(nil)
)

// New creates the game for an already spawned SimulationActor. scenarios is the
// catalog shown in the panel.
func New(ctx context.Context, cfg *simulation.Config, pid *actor.PID, frames <-chan simulation.Frame, scenarios []string, logger golog.Logger) *Game {
	g := &Game{
		ctx:    ctx,
		pid:    pid,
		frames: frames,
		logger: logger,
		cfg:    cfg,
	}
	g.lastState.Scenario, g.lastState.Scenarios = cfg.Scenario, scenarios

	panel := ui.NewUIPanel(cfg.WorldWidth, 0, PanelWidth, cfg.WorldHeight, "Steering boids")

	panel.AddSection("Run")
	g.runButtons = panel.AddButtons([]string{"Start", "Step", "Reset"}, func(i int) {
		switch i {
		case 0:
			g.queue(simulation.Toggle())
		case 1:
			g.queue(simulation.StepOnce())
		case 2:
			g.queue(simulation.ResetTo(g.lastState.Scenario))
		}
	})
	g.widgetDeltaTime = panel.AddSlider("Delta time", 0.01, 0.5, cfg.DeltaTime)
	g.widgetDeltaTime.Step = 0.01
	panel.EndSection()

	panel.AddSection("Scenarios")
	for i := 0; i < len(scenarios); i += 2 {
		row := scenarios[i:min(i+2, len(scenarios))]
		offset := i
		g.scenarioButtons = append(g.scenarioButtons, panel.AddButtons(row, func(j int) {
			g.queue(simulation.ResetTo(scenarios[offset+j]))
		})...)
	}
	panel.EndSection()

	panel.AddSection("Display")
	g.widgetEyes = panel.AddCheckbox("Eyes", cfg.ShowEyes)
	g.widgetDebug = panel.AddCheckbox("Debug shapes", cfg.ShowDebug)
	g.widgetTrails = panel.AddCheckbox("Trails", cfg.ShowTrails)
	panel.EndSection()

	g.panel = panel
	return g
}

func (g *Game) queue(c simulation.Command) {
	g.pending = append(g.pending, c)
}

// Render keeps f as the frame to draw.
func (g *Game) Render(f simulation.Frame) error {
	g.lastState = f
	for i, b := range g.scenarioButtons {
		b.Active = i < len(f.Scenarios) && f.Scenarios[i] == f.Scenario
	}
	if len(g.runButtons) > 0 {
		g.runButtons[0].Label = "Start"
		if f.Running {
			g.runButtons[0].Label = "Stop"
		}
	}
	return nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel, its callbacks queue commands
	g.panel.Update()

	// 2. Forward commands
	for _, c := range g.Poll() {
		g.logger.Debugf("sending %s", c)
		if err := actor.Tell(g.ctx, g.pid, c.ToProto()); err != nil {
			return fmt.Errorf("sending %s: %w", c, err)
		}
	}

	// 3. Retrieve Latest State (Non-blocking)
	select {
	case f := <-g.frames:
		_ = g.Render(f)
	default:
		// Use previous state if new one isn't ready
	}

	// 4. Ask for the next frame, the actor only ticks while running
	dt := time.Duration(g.widgetDeltaTime.Value * float64(time.Second))
	if err := actor.Tell(g.ctx, g.pid, durationpb.New(dt)); err != nil {
		return fmt.Errorf("requesting frame: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	g.drawArena(screen, g.lastState, drawOptions{
		eyes:   g.widgetEyes.Value,
		debug:  g.widgetDebug.Value,
		trails: g.widgetTrails.Value,
	})
	g.panel.Draw(screen)

	state := "stopped"
	if g.lastState.Running {
		state = "running"
	}
	msg := fmt.Sprintf("%s (%s)  tick %d  agents %d\nFPS: %.2f  TPS: %.2f  Update: %.2fms  Draw: %.2fms",
		g.lastState.Scenario, state, g.lastState.Tick, len(g.lastState.Agents),
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)

	if a, ok := g.lastState.SelectedAgent(); ok {
		info := fmt.Sprintf("%s [%s]\npos %s\nvel %s |%.1f|\nsteer %s",
			a.Name, a.Kind, a.Pos, a.Vel, a.Vel.Len(), a.Steering)
		ebitenutil.DebugPrintAt(screen, info, 10, int(g.cfg.WorldHeight)-70)
	}
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth + PanelWidth), int(g.cfg.WorldHeight)
}
