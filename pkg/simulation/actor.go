package simulation

import (
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FrameRecorder receives every frame produced by the SimulationActor.
type FrameRecorder interface {
	Record(f Frame) error
	Close() error
}

// SimulationActor owns a Simulation and serializes every access to it through
// its mailbox. The UI talks to it with two messages:
//   - *structpb.Struct, a Command encoded with Command.ToProto
//   - *durationpb.Duration, a frame request; the simulation ticks by that
//     duration first when it is running (zero means the configured dt)
type SimulationActor struct {
	sim      *Simulation
	frames   chan<- Frame
	recorder FrameRecorder
}

// NewSimulationActor creates the actor. frames receives a Frame after each
// frame request and is written without blocking: a busy UI just skips frames.
// recorder may be nil.
func NewSimulationActor(sim *Simulation, frames chan<- Frame, recorder FrameRecorder) *SimulationActor {
	return &SimulationActor{
		sim:      sim,
		frames:   frames,
		recorder: recorder,
	}
}

func (s *SimulationActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("simulation actor starting with %d scenarios", len(s.sim.Scenarios()))
	return nil
}

func (s *SimulationActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		name := s.sim.Config().Scenario
		if err := s.sim.Reset(name); err != nil {
			ctx.Logger().Errorf("initial scenario: %v", err)
			return
		}
		s.pushFrame()

	case *structpb.Struct:
		cmd, err := CommandFromProto(msg)
		if err != nil {
			ctx.Logger().Errorf("dropping command: %v", err)
			return
		}
		if err := s.sim.Apply(cmd); err != nil {
			ctx.Logger().Errorf("command %s failed: %v", cmd, err)
			return
		}
		ctx.Logger().Debugf("applied %s", cmd)

	case *durationpb.Duration:
		if s.sim.Running() {
			dt := msg.AsDuration().Seconds()
			if dt <= 0 {
				dt = s.sim.Config().DeltaTime
			}
			s.sim.Tick(dt)
		}
		frame := s.pushFrame()
		if s.recorder != nil && s.sim.Running() {
			if err := s.recorder.Record(frame); err != nil {
				ctx.Logger().Errorf("telemetry: %v", err)
				s.recorder = nil
			}
		}

	default:
		ctx.Unhandled()
	}
}

func (s *SimulationActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("simulation actor stopped after %d ticks of %q", s.sim.Ticks(), s.sim.Scenario())
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}

func (s *SimulationActor) pushFrame() Frame {
	frame := s.sim.Frame()
	select {
	case s.frames <- frame:
	default:
		// UI busy, skip frame
	}
	return frame
}
