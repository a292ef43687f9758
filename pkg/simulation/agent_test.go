package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < geometry.Epsilon
}

func TestNewMovable(t *testing.T) {
	tests := []struct {
		name      string
		maxSpeed  float64
		maxForce  float64
		wantParam string
	}{
		{"valid", 10, 2, ""},
		{"zero speed", 0, 2, "maxSpeed"},
		{"negative force", 10, -1, "maxSteeringForce"},
		{"NaN speed", math.NaN(), 2, "maxSpeed"},
		{"infinite force", 10, math.Inf(1), "maxSteeringForce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMovable(tt.maxSpeed, tt.maxForce)
			if tt.wantParam == "" {
				if err != nil || m == nil {
					t.Fatalf("NewMovable() unexpected error: %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Parameter != tt.wantParam {
				t.Fatalf("NewMovable() error = %v, want ConfigError on %s", err, tt.wantParam)
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error should wrap ErrInvalidConfiguration")
			}
		})
	}
}

func TestMovable_Move(t *testing.T) {
	m, _ := NewMovable(10, 5)
	e := &Entity{Pos: geometry.NewVector(0, 0), Vel: geometry.NewVector(9, -4)}
	m.Steering = geometry.NewVector(5, -8)
	m.Acceleration = m.Steering

	m.Move(e, 0.1)

	// pos += vel*dt + acc*0.5*dt
	if !floatEquals(e.Pos.X, 0.9+0.25) || !floatEquals(e.Pos.Y, -0.4-0.4) {
		t.Errorf("Pos = %v, want (1.15, -0.80)", e.Pos)
	}
	// vel += steering, then each component clamped to 10
	if !floatEquals(e.Vel.X, 10) || !floatEquals(e.Vel.Y, -10) {
		t.Errorf("Vel = %v, want (10, -10)", e.Vel)
	}
}

func TestAgent_MoveClampsToSpeedInEffect(t *testing.T) {
	tests := []struct {
		name     string
		maxSpeed float64
		steering geometry.Vector2D
	}{
		{"nominal", 10, geometry.NewVector(1e6, -1e6)},
		{"raised by a follower", 12, geometry.NewVector(-1e6, 1e6)},
		{"lowered by a follower", 0.5, geometry.NewVector(1e6, 1e6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAgent(Entity{Name: "a", Vel: geometry.NewVector(9, -9)}, 1)
			m, err := NewMovable(10, 2)
			if err != nil {
				t.Fatalf("NewMovable() error = %v", err)
			}
			a.Movable = m
			a.SetMaxSpeed(tt.maxSpeed)
			a.Movable.Steering = tt.steering
			a.Move(0.1, geometry.NewVector(1000, 1000))
			if math.Abs(a.Vel.X) > tt.maxSpeed+geometry.Epsilon || math.Abs(a.Vel.Y) > tt.maxSpeed+geometry.Epsilon {
				t.Errorf("Vel = %v, components should stay within %v", a.Vel, tt.maxSpeed)
			}
			if !floatEquals(math.Abs(a.Vel.X), tt.maxSpeed) {
				t.Errorf("|Vel.X| = %v, a huge force should saturate at %v", math.Abs(a.Vel.X), tt.maxSpeed)
			}
		})
	}
}

func TestAgent_MaxSpeed(t *testing.T) {
	a := NewAgent(Entity{Name: "a"}, 1)
	if a.MaxSpeed() != 0 || a.NominalMaxSpeed() != 0 {
		t.Errorf("an agent without Movable has no speed")
	}
	a.SetMaxSpeed(5) // no Movable, ignored

	a.Movable, _ = NewMovable(10, 2)
	a.SetMaxSpeed(4)
	if a.MaxSpeed() != 4 || a.NominalMaxSpeed() != 10 {
		t.Errorf("SetMaxSpeed(4): max %v nominal %v", a.MaxSpeed(), a.NominalMaxSpeed())
	}
	a.SetMaxSpeed(0)
	a.SetMaxSpeed(-3)
	if a.MaxSpeed() != 4 {
		t.Errorf("non positive speeds must be ignored, got %v", a.MaxSpeed())
	}

	s := newTestSimulation(t, nil)
	a.Steer(s, 0.1)
	if a.MaxSpeed() != 10 {
		t.Errorf("Steer should restore the nominal speed, got %v", a.MaxSpeed())
	}
}

func TestBallistic_Bounce(t *testing.T) {
	b := NewBallistic(5, 1, 0.5, 0.9, 100, 0)
	if !floatEquals(b.Mass, 25*math.Pi) {
		t.Errorf("Mass = %v, want 25π", b.Mass)
	}
	if b.Restitution != 0.5 || b.Friction != 0.9 {
		t.Errorf("Restitution, Friction = %v, %v, want 0.5, 0.9", b.Restitution, b.Friction)
	}
	size := geometry.NewVector(100, 100)

	tests := []struct {
		name    string
		pos     geometry.Vector2D
		vel     geometry.Vector2D
		wantPos geometry.Vector2D
		wantVel geometry.Vector2D
	}{
		{"left wall", geometry.NewVector(3, 50), geometry.NewVector(-10, 4), geometry.NewVector(7, 50), geometry.NewVector(5, 3.6)},
		{"right wall", geometry.NewVector(97, 50), geometry.NewVector(10, 0), geometry.NewVector(93, 50), geometry.NewVector(-5, 0)},
		{"floor", geometry.NewVector(50, 98), geometry.NewVector(2, 8), geometry.NewVector(50, 92), geometry.NewVector(1.8, -4)},
		{"inside", geometry.NewVector(50, 50), geometry.NewVector(1, 1), geometry.NewVector(50, 50), geometry.NewVector(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entity{Pos: tt.pos, Vel: tt.vel, Radius: 5}
			b.Bounce(e, size)
			if !e.Pos.Eq(tt.wantPos) || !e.Vel.Eq(tt.wantVel) {
				t.Errorf("Bounce() = pos %v vel %v, want pos %v vel %v", e.Pos, e.Vel, tt.wantPos, tt.wantVel)
			}
		})
	}
}

func TestBallistic_Acceleration(t *testing.T) {
	s := newTestSimulation(t, nil, WithScenario("Balls", func(p *Population) error {
		for _, x := range []float64{100, 300} {
			a := still(p, KindBall, geometry.NewVector(x, 100), 10)
			a.Ballistic = NewBallistic(10, 50, 1, 1, 100, 1e7)
		}
		return nil
	}))
	if err := s.Reset("Balls"); err != nil {
		t.Fatal(err)
	}
	left := s.Population()[0]

	if acc := left.Ballistic.Acceleration(left, s); !acc.Eq(geometry.Vector2D{}) {
		t.Errorf("no field, no pointer: acceleration should be zero, got %v", acc)
	}

	s.ToggleGravity()
	if acc := left.Ballistic.Acceleration(left, s); acc.X <= 0 || !floatEquals(acc.Y, 0) {
		t.Errorf("gravity should pull the left ball right, got %v", acc)
	}
	s.ToggleGravity()

	s.SetMagnet(geometry.NewVector(0, 3))
	if acc := left.Ballistic.Acceleration(left, s); !acc.Eq(geometry.NewVector(0, s.Config().MagnetStrength)) {
		t.Errorf("magnet should be clamped to one unit of strength, got %v", acc)
	}
	s.SetMagnet(geometry.Vector2D{})

	s.SetPointer(geometry.NewVector(150, 100))
	if acc := left.Ballistic.Acceleration(left, s); acc.X >= 0 {
		t.Errorf("the pointer should push the ball away, got %v", acc)
	}
	s.PointerLeft()
	if acc := left.Ballistic.Acceleration(left, s); !acc.Eq(geometry.Vector2D{}) {
		t.Errorf("a pointer outside the arena should not push, got %v", acc)
	}
}

func TestTrail(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.Push(geometry.NewVector(float64(i), 0))
	}
	got := tr.Points()
	if len(got) != 3 || got[0].X != 3 || got[2].X != 5 {
		t.Errorf("Points() = %v, want the last 3 points oldest first", got)
	}
	got[0].X = 42
	if tr.Points()[0].X == 42 {
		t.Errorf("Points() should return a copy")
	}

	empty := NewTrail(0)
	empty.Push(geometry.NewVector(1, 1))
	if len(empty.Points()) != 0 {
		t.Errorf("a zero length trail keeps nothing")
	}
}

func TestEye(t *testing.T) {
	owner := NewAgent(Entity{Pos: geometry.NewVector(0, 0), Vel: geometry.NewVector(1, 0)}, 1)
	at := func(x, y, r float64) *Agent {
		return NewAgent(Entity{Pos: geometry.NewVector(x, y), Radius: r}, 2)
	}

	tests := []struct {
		name   string
		fov    float64
		rng    float64
		target *Agent
		want   bool
	}{
		{"ahead", 90, 100, at(10, 0, 1), true},
		{"inside half aperture", 90, 100, at(10, 9, 1), true},
		{"outside half aperture", 90, 100, at(10, 11, 1), false},
		{"behind", 270, 100, at(-10, 0, 1), false},
		{"side with wide eye", 270, 100, at(0, -10, 1), true},
		{"omnidirectional", 360, 100, at(-10, 0, 1), true},
		{"surface in range", 360, 96, at(100, 0, 5), true},
		{"surface out of range", 360, 94, at(100, 0, 5), false},
		{"on top of the owner", 10, 100, at(0, 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eye := NewEye(owner, tt.fov, tt.rng)
			if got := eye.Sees(tt.target); got != tt.want {
				t.Errorf("Sees() = %v, want %v", got, tt.want)
			}
		})
	}

	resting := NewAgent(Entity{Pos: geometry.NewVector(0, 0)}, 1)
	if !NewEye(resting, 10, 100).InFieldOfView(at(-10, 0, 1)) {
		t.Errorf("an owner at rest sees all around")
	}
	if h := NewEye(owner, 90, 10).Heading(); !floatEquals(h, 0) {
		t.Errorf("Heading() = %v, want 0", h)
	}
}

func TestEye_Look(t *testing.T) {
	s := newTestSimulation(t, nil, WithScenario("Look", func(p *Population) error {
		o := still(p, KindBoid, geometry.NewVector(100, 100), 5)
		o.Vel = geometry.NewVector(1, 0)
		o.AddEye(180, 50)
		still(p, KindBoid, geometry.NewVector(200, 100), 5) // too far
		still(p, KindBoid, geometry.NewVector(130, 100), 5) // seen
		still(p, KindBoid, geometry.NewVector(70, 100), 5)  // behind
		still(p, KindBoid, geometry.NewVector(110, 130), 5) // seen
		return nil
	}))
	if err := s.Reset("Look"); err != nil {
		t.Fatal(err)
	}
	owner := s.Population()[0]

	seen := owner.Eyes[0].Look(s)
	if len(seen) != 2 || seen[0].Handle().Index != 2 || seen[1].Handle().Index != 4 {
		t.Fatalf("Look() returned %d agents, want indices 2 and 4 in population order", len(seen))
	}
	if owner.Eyes[0].Owner() != owner {
		t.Errorf("Owner() should return the agent holding the eye")
	}
}

// brainWorld installs an owner at (100, 100) moving right with an
// omnidirectional eye, surrounded by agents of the given kinds.
func brainWorld(t *testing.T, kinds ...EntityKind) (*Simulation, *Agent) {
	t.Helper()
	s := newTestSimulation(t, nil, WithScenario("Brain", func(p *Population) error {
		o := still(p, KindBoid, geometry.NewVector(100, 100), 5)
		o.Vel = geometry.NewVector(1, 0)
		o.Movable, _ = NewMovable(10, 2)
		o.AddEye(360, 100)
		for i, k := range kinds {
			still(p, k, geometry.NewVector(120+float64(i)*5, 100), 2)
		}
		return nil
	}))
	if err := s.Reset("Brain"); err != nil {
		t.Fatal(err)
	}
	return s, s.Population()[0]
}

// counting returns a factory building seeks and the number of calls it got.
func counting(calls *int) Factory {
	return func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		*calls++
		return behavior.NewSeek(targets, 1)
	}
}

func TestBrain_NoTarget(t *testing.T) {
	s, owner := brainWorld(t)
	var calls int
	border := behavior.NewBorderRepulsion(100, s.Size())
	owner.Brain = NewBrain(NewRuleTable().
		On(KindBoid, Grouped, counting(new(int))).
		OnNoTarget(func(_ *Agent, _ []behavior.Target) behavior.Behavior {
			calls++
			return behavior.NewWander(10, 20, false, 1, 1)
		}), border)

	owner.Brain.Process(owner, s)
	active := append([]behavior.Behavior(nil), owner.Brain.Active()...)
	if len(active) != 2 {
		t.Fatalf("Active() has %d behaviors, want border + wander", len(active))
	}
	if active[0] != behavior.Behavior(border) {
		t.Errorf("permanent behaviors come first")
	}
	if _, ok := active[1].(*behavior.Wander); !ok {
		t.Errorf("Active()[1] is %T, want *behavior.Wander", active[1])
	}
	if len(owner.Brain.Seen()) != 0 {
		t.Errorf("nothing should be seen")
	}

	owner.Brain.Process(owner, s)
	if calls != 1 || owner.Brain.Active()[1] != active[1] {
		t.Errorf("the no-target behavior should be built once and reused, built %d times", calls)
	}
}

func TestBrain_SingleAndGrouped(t *testing.T) {
	s, owner := brainWorld(t, KindPredator, KindBoid, KindPredator, KindBoid, KindPredator)
	var single, grouped int
	owner.Brain = NewBrain(NewRuleTable().
		On(KindPredator, Single, counting(&single)).
		On(KindBoid, Grouped, counting(&grouped)))

	owner.Brain.Process(owner, s)
	if len(owner.Brain.Seen()) != 5 {
		t.Fatalf("Seen() = %d agents, want 5", len(owner.Brain.Seen()))
	}
	active := append([]behavior.Behavior(nil), owner.Brain.Active()...)
	if len(active) != 4 || single != 3 || grouped != 1 {
		t.Fatalf("Active() = %d behaviors (%d single, %d grouped), want 3 + 1", len(active), single, grouped)
	}
	targeted, ok := active[3].(behavior.Targeted)
	if !ok || len(targeted.Targets()) != 2 {
		t.Errorf("the grouped instance should target both boids")
	}

	// same scene: every instance comes from the cache
	owner.Brain.Process(owner, s)
	if single != 3 || grouped != 1 {
		t.Errorf("instances should be reused, factories called %d and %d times", single, grouped)
	}
	for i, b := range owner.Brain.Active() {
		if b != active[i] {
			t.Errorf("Active()[%d] was rebuilt", i)
		}
	}
}

func TestBrain_FirstMatchWins(t *testing.T) {
	s, owner := brainWorld(t, KindBoid, KindPredator)
	var catchAll, boids int
	owner.Brain = NewBrain(NewRuleTable().
		On(KindAny, Grouped, counting(&catchAll)).
		On(KindBoid, Grouped, counting(&boids)))

	owner.Brain.Process(owner, s)
	if catchAll != 1 || boids != 0 {
		t.Errorf("the catch-all rule is declared first and should take everything, got any=%d boids=%d", catchAll, boids)
	}
	if len(owner.Brain.Active()) != 1 {
		t.Errorf("Active() = %d behaviors, want 1", len(owner.Brain.Active()))
	}
}

func TestBrain_PruneAndRetarget(t *testing.T) {
	s, owner := brainWorld(t, KindPredator, KindPredator)
	var single int
	owner.Brain = NewBrain(NewRuleTable().On(KindPredator, Single, counting(&single)))
	owner.Brain.Process(owner, s)
	if single != 2 {
		t.Fatalf("want one instance per predator, got %d", single)
	}

	// the second predator leaves: its instance is dropped, then rebuilt when it comes back
	far := s.Population()[2]
	far.Pos = geometry.NewVector(900, 700)
	s.Step()
	owner.Brain.Process(owner, s)
	if len(owner.Brain.Active()) != 1 {
		t.Fatalf("Active() = %d, want 1", len(owner.Brain.Active()))
	}
	far.Pos = geometry.NewVector(125, 100)
	s.Step()
	owner.Brain.Process(owner, s)
	if single != 3 {
		t.Errorf("the returning predator needs a fresh instance, factory called %d times", single)
	}
}

func TestBrain_ProcessClampsForce(t *testing.T) {
	s, owner := brainWorld(t, KindPredator)
	owner.Brain = NewBrain(NewRuleTable().On(KindPredator, Single, func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewFlee(targets, 100)
	}))
	f := owner.Brain.Process(owner, s)
	if f.Len() > 2+geometry.Epsilon {
		t.Errorf("Process() = %v, longer than the max steering force", f)
	}
}

func TestRuleTable_On(t *testing.T) {
	rt := NewRuleTable().
		On(KindBoid, Single, counting(new(int))).
		On(KindPredator, Single, counting(new(int))).
		On(KindBoid, Grouped, counting(new(int)))
	rules := rt.Rules()
	if len(rules) != 2 {
		t.Fatalf("Rules() = %d, redeclaring a kind should replace it", len(rules))
	}
	if rules[0].Kind != KindBoid || rules[0].Grouping != Grouped {
		t.Errorf("the replaced rule should keep its position, got %v %v", rules[0].Kind, rules[0].Grouping)
	}
	if rt.match(KindLeader) != -1 {
		t.Errorf("no rule should match a leader")
	}
}
