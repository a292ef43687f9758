package simulation

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrUnknownCommand is returned when decoding or applying an unknown command.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind enumerates what an InputSource can ask.
type CommandKind uint8

const (
	CmdPointerMove CommandKind = iota + 1
	CmdPointerLeave
	CmdToggle
	CmdStart
	CmdStop
	CmdStep
	CmdReset
	CmdPick
	CmdMagnet
	CmdToggleGravity
)

var commandNames = map[CommandKind]string{
	CmdPointerMove:   "pointer-move",
	CmdPointerLeave:  "pointer-leave",
	CmdToggle:        "toggle",
	CmdStart:         "start",
	CmdStop:          "stop",
	CmdStep:          "step",
	CmdReset:         "reset",
	CmdPick:          "pick",
	CmdMagnet:        "magnet",
	CmdToggleGravity: "toggle-gravity",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", uint8(k))
}

func parseCommandKind(name string) (CommandKind, bool) {
	for k, n := range commandNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Command is a discrete input for the simulation.
// Point is used by pointer moves, picks and the magnet direction, Scenario by resets.
type Command struct {
	Kind     CommandKind
	Point    geometry.Vector2D
	Scenario string
}

func PointerMove(p geometry.Vector2D) Command { return Command{Kind: CmdPointerMove, Point: p} }
func PointerLeave() Command                   { return Command{Kind: CmdPointerLeave} }
func Toggle() Command                         { return Command{Kind: CmdToggle} }
func Start() Command                          { return Command{Kind: CmdStart} }
func Stop() Command                           { return Command{Kind: CmdStop} }
func StepOnce() Command                       { return Command{Kind: CmdStep} }
func ResetTo(scenario string) Command         { return Command{Kind: CmdReset, Scenario: scenario} }
func Pick(p geometry.Vector2D) Command        { return Command{Kind: CmdPick, Point: p} }
func Magnet(direction geometry.Vector2D) Command {
	return Command{Kind: CmdMagnet, Point: direction}
}
func ToggleGravity() Command { return Command{Kind: CmdToggleGravity} }

func (c Command) String() string {
	switch c.Kind {
	case CmdReset:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Scenario)
	case CmdPointerMove, CmdPick, CmdMagnet:
		return fmt.Sprintf("%s%s", c.Kind, c.Point)
	default:
		return c.Kind.String()
	}
}

// ToProto converts the Command into the protobuf envelope sent to the SimulationActor.
func (c Command) ToProto() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":     structpb.NewStringValue(c.Kind.String()),
		"x":        structpb.NewNumberValue(c.Point.X),
		"y":        structpb.NewNumberValue(c.Point.Y),
		"scenario": structpb.NewStringValue(c.Scenario),
	}}
}

// CommandFromProto converts the protobuf envelope back into a Command.
func CommandFromProto(s *structpb.Struct) (Command, error) {
	fields := s.GetFields()
	name := fields["kind"].GetStringValue()
	kind, ok := parseCommandKind(name)
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return Command{
		Kind:     kind,
		Point:    geometry.NewVector(fields["x"].GetNumberValue(), fields["y"].GetNumberValue()),
		Scenario: fields["scenario"].GetStringValue(),
	}, nil
}

// Apply executes a command. Only resets can fail.
func (s *Simulation) Apply(c Command) error {
	switch c.Kind {
	case CmdPointerMove:
		s.SetPointer(c.Point)
	case CmdPointerLeave:
		s.PointerLeft()
	case CmdToggle:
		s.Toggle()
	case CmdStart:
		s.Start()
	case CmdStop:
		s.Stop()
	case CmdStep:
		s.Step()
	case CmdReset:
		return s.Reset(c.Scenario)
	case CmdPick:
		s.Pick(c.Point)
	case CmdMagnet:
		s.SetMagnet(c.Point)
	case CmdToggleGravity:
		s.ToggleGravity()
	default:
		return fmt.Errorf("%w %s", ErrUnknownCommand, c.Kind)
	}
	return nil
}
