package simulation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestCommand_Proto(t *testing.T) {
	commands := []Command{
		PointerMove(geometry.NewVector(12.5, 40)),
		PointerLeave(),
		Toggle(),
		Start(),
		Stop(),
		StepOnce(),
		ResetTo("Obstacles"),
		Pick(geometry.NewVector(3, 4)),
		Magnet(geometry.NewVector(-1, 0)),
		ToggleGravity(),
	}
	for _, c := range commands {
		t.Run(c.String(), func(t *testing.T) {
			got, err := CommandFromProto(c.ToProto())
			if err != nil {
				t.Fatalf("CommandFromProto() unexpected error: %v", err)
			}
			if got.Kind != c.Kind || !got.Point.Eq(c.Point) || got.Scenario != c.Scenario {
				t.Errorf("CommandFromProto(ToProto(%v)) = %v", c, got)
			}
		})
	}

	bad := &structpb.Struct{Fields: map[string]*structpb.Value{"kind": structpb.NewStringValue("explode")}}
	if _, err := CommandFromProto(bad); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("CommandFromProto(explode) error = %v, want ErrUnknownCommand", err)
	}
	if _, err := CommandFromProto(nil); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("CommandFromProto(nil) error = %v, want ErrUnknownCommand", err)
	}
}

func TestSimulation_Apply(t *testing.T) {
	s := newTestSimulation(t, nil)
	if err := s.Apply(ResetTo("Seek pointer")); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		cmd   Command
		check func() bool
	}{
		{Start(), func() bool { return s.Running() }},
		{Toggle(), func() bool { return !s.Running() }},
		{StepOnce(), func() bool { return s.Ticks() == 1 && !s.Running() }},
		{PointerMove(geometry.NewVector(10, 20)), func() bool {
			p, inside := s.Pointer()
			return inside && p.Eq(geometry.NewVector(10, 20))
		}},
		{PointerLeave(), func() bool { _, inside := s.Pointer(); return !inside }},
		{Magnet(geometry.NewVector(3, -0.5)), func() bool {
			return s.Field().Magnet.Eq(geometry.NewVector(100, -50))
		}},
		{ToggleGravity(), func() bool { return s.Field().Gravity }},
		{Pick(s.Population()[0].Pos), func() bool { _, ok := s.Selected(); return ok }},
		{Stop(), func() bool { return !s.Running() }},
	}
	for _, st := range steps {
		if err := s.Apply(st.cmd); err != nil {
			t.Fatalf("Apply(%v) unexpected error: %v", st.cmd, err)
		}
		if !st.check() {
			t.Errorf("Apply(%v) did not take effect", st.cmd)
		}
	}

	if err := s.Apply(ResetTo("Nope")); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Apply(reset Nope) error = %v, want ErrUnknownScenario", err)
	}
	if err := s.Apply(Command{Kind: CommandKind(99)}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Apply(99) error = %v, want ErrUnknownCommand", err)
	}
	if err := s.Apply(ResetTo("Wander")); err != nil || s.Field().Gravity {
		t.Errorf("a reset should clear the field, err %v", err)
	}
}

// memoryRecorder is written by the actor goroutine and read by the test.
type memoryRecorder struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
}

func (m *memoryRecorder) Record(f Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, f)
	return nil
}

func (m *memoryRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memoryRecorder) snapshot() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames), m.closed
}

func TestSimulationActor(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Scenario = "Wander"
	sim := newTestSimulation(t, cfg)

	system, err := actor.NewActorSystem("test", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatalf("NewActorSystem() unexpected error: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	frames := make(chan Frame, 64)
	rec := &memoryRecorder{}
	pid, err := system.Spawn(ctx, "simulation", NewSimulationActor(sim, frames, rec))
	if err != nil {
		t.Fatalf("Spawn() unexpected error: %v", err)
	}

	for _, msg := range []*structpb.Struct{Start().ToProto()} {
		if err := actor.Tell(ctx, pid, msg); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := actor.Tell(ctx, pid, durationpb.New(100*time.Millisecond)); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(5 * time.Second)
	var last Frame
	for last.Tick < 3 {
		select {
		case last = <-frames:
		case <-deadline:
			t.Fatalf("timed out waiting for frames, last tick %d", last.Tick)
		}
	}
	if last.Scenario != "Wander" || !last.Running || len(last.Agents) != cfg.NumBoids {
		t.Errorf("last frame: %q running=%v with %d agents", last.Scenario, last.Running, len(last.Agents))
	}

	if err := system.Stop(ctx); err != nil {
		t.Fatalf("Stop() unexpected error: %v", err)
	}
	if n, closed := rec.snapshot(); n != 3 || !closed {
		t.Errorf("recorder got %d frames, closed=%v; want 3 and closed", n, closed)
	}
}
