package simulation

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Cone is the drawable part of an eye.
type Cone struct {
	Origin      geometry.Vector2D
	Heading     float64 // radians
	FieldOfView float64 // degrees, full aperture
	Range       float64
}

// AgentView is a read-only copy of an agent, safe to hand to another goroutine.
type AgentView struct {
	Handle   behavior.Handle
	Name     string
	Kind     EntityKind
	Pos      geometry.Vector2D
	Vel      geometry.Vector2D
	Steering geometry.Vector2D
	Radius   float64
	Fill     color.RGBA
	Border   color.RGBA
	Eyes     []Cone
	Debug    []behavior.Shape
	Trail    []geometry.Vector2D
	Selected bool
}

// Frame is a snapshot of the simulation after a tick.
type Frame struct {
	Tick          uint64
	Scenario      string
	Scenarios     []string
	Size          geometry.Vector2D
	Running       bool
	Pointer       geometry.Vector2D
	PointerInside bool
	Field         Field
	Agents        []AgentView
	Selected      behavior.Handle
}

// SelectedAgent returns the view of the picked agent, if any.
func (f *Frame) SelectedAgent() (AgentView, bool) {
	for _, a := range f.Agents {
		if a.Selected {
			return a, true
		}
	}
	return AgentView{}, false
}

// Renderer draws frames. Implementations must not keep references into f
// beyond the call unless they copied it.
type Renderer interface {
	Render(f Frame) error
}

// InputSource reports the commands issued since the last poll.
type InputSource interface {
	Poll() []Command
}

// Frame builds a snapshot of the current state.
func (s *Simulation) Frame() Frame {
	f := Frame{
		Tick:          s.ticks,
		Scenario:      s.scenario,
		Scenarios:     s.Scenarios(),
		Size:          s.size,
		Running:       s.running,
		Pointer:       s.pointer,
		PointerInside: s.pointerInside,
		Field:         s.field,
		Agents:        make([]AgentView, 0, len(s.agents)),
		Selected:      s.selected,
	}
	for _, a := range s.agents {
		f.Agents = append(f.Agents, a.view(a.handle == s.selected && s.selected.Valid()))
	}
	return f
}

func (a *Agent) view(selected bool) AgentView {
	v := AgentView{
		Handle:   a.handle,
		Name:     a.Name,
		Kind:     a.Kind,
		Pos:      a.Pos,
		Vel:      a.Vel,
		Steering: a.Steering(),
		Radius:   a.Radius,
		Fill:     a.Colors.Fill,
		Border:   a.Colors.Border,
		Selected: selected,
	}
	for _, e := range a.Eyes {
		v.Eyes = append(v.Eyes, Cone{Origin: a.Pos, Heading: e.Heading(), FieldOfView: e.FieldOfView, Range: e.Range})
	}
	if a.Trail != nil {
		v.Trail = a.Trail.Points()
	}

	var active []behavior.Behavior
	if a.Brain != nil {
		active = append(active, a.Brain.Active()...)
	}
	if a.Piloted != nil {
		active = append(active, a.Piloted.Behaviors...)
	}
	for _, b := range active {
		if d, ok := b.(behavior.Debugger); ok {
			v.Debug = append(v.Debug, d.DebugShapes(a)...)
		}
	}
	return v
}
