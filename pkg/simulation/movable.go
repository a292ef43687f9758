package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Movable integrates an entity motion from a steering force.
type Movable struct {
	Steering     geometry.Vector2D
	Acceleration geometry.Vector2D

	maxSpeed         float64
	nominalMaxSpeed  float64
	maxSteeringForce float64
}

// NewMovable fails fast on a non positive or NaN limit.
func NewMovable(maxSpeed, maxSteeringForce float64) (*Movable, error) {
	if err := positive("maxSpeed", maxSpeed); err != nil {
		return nil, err
	}
	if err := positive("maxSteeringForce", maxSteeringForce); err != nil {
		return nil, err
	}
	return &Movable{
		maxSpeed:         maxSpeed,
		nominalMaxSpeed:  maxSpeed,
		maxSteeringForce: maxSteeringForce,
	}, nil
}

func positive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return &ConfigError{Parameter: name, Value: value}
	}
	return nil
}

func (m *Movable) MaxSteeringForce() float64 { return m.maxSteeringForce }

// Move advances the entity by one step of dt:
//
//	pos += vel*dt + acc*0.5*dt
//	vel += steering
//
// then clamps each velocity component to [-maxSpeed, maxSpeed].
// The position term is the historical form of this integrator and is kept as is.
func (m *Movable) Move(e *Entity, dt float64) {
	e.Pos.AddAssign(e.Vel.Mul(dt).Add(m.Acceleration.Mul(0.5 * dt)))
	e.Vel.AddAssign(m.Steering)
	e.Vel.ClampX(-m.maxSpeed, m.maxSpeed)
	e.Vel.ClampY(-m.maxSpeed, m.maxSpeed)
}

// Piloted holds the behaviors bound directly to an agent, without a brain.
type Piloted struct {
	Behaviors []behavior.Behavior
}

// NewPiloted creates a Piloted component.
func NewPiloted(behaviors ...behavior.Behavior) *Piloted {
	return &Piloted{Behaviors: behaviors}
}

// Behave sums every bound behavior.
func (p *Piloted) Behave(v behavior.Vehicle, r behavior.Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, b := range p.Behaviors {
		force.AddAssign(b.Behave(v, r))
	}
	return force
}

// Ballistic agents are not piloted: they fall, bounce and get pushed around.
type Ballistic struct {
	Mass        float64
	Restitution float64
	Friction    float64
	Softening   float64 // keeps the pull finite when two balls overlap
	Push        float64 // strength of the pointer push
}

// NewBallistic derives the mass from the density and the disc area.
func NewBallistic(radius, density, bounce, friction, softening, push float64) *Ballistic {
	return &Ballistic{
		Mass:        density * math.Pi * radius * radius,
		Restitution: bounce,
		Friction:    friction,
		Softening:   softening,
		Push:        push,
	}
}

// softened is d/(|d|²+s²)^1.5, a gravity law that stays finite at d = 0.
func (b *Ballistic) softened(d geometry.Vector2D) geometry.Vector2D {
	den := math.Pow(d.LenSqr()+b.Softening*b.Softening, 1.5)
	if den == 0 {
		return geometry.Vector2D{}
	}
	return d.Mul(1 / den)
}

// Acceleration sums the magnet, the pointer push and, when the field is on,
// the pull of every other ball.
func (b *Ballistic) Acceleration(self *Agent, env Environment) geometry.Vector2D {
	field := env.Field()
	acc := field.Magnet

	if p, ok := env.Pointer(); ok {
		acc.AddAssign(b.softened(p.Sub(self.Pos)).Mul(-b.Push))
	}
	if field.Gravity {
		for _, other := range env.Population() {
			if other == self || other.Ballistic == nil {
				continue
			}
			acc.AddAssign(b.softened(other.Pos.Sub(self.Pos)).Mul(other.Ballistic.Mass))
		}
	}
	return acc
}

// Bounce reflects the entity off the walls of [0, size]: the normal velocity is
// reversed and scaled by Restitution, the tangential one damped by Friction, and the
// position mirrored across the wall.
func (b *Ballistic) Bounce(e *Entity, size geometry.Vector2D) {
	r := e.Radius
	if e.Pos.X <= r {
		e.Vel.X = -e.Vel.X * b.Restitution
		e.Vel.Y *= b.Friction
		e.Pos.X = 2*r - e.Pos.X
	} else if e.Pos.X >= size.X-r {
		e.Vel.X = -e.Vel.X * b.Restitution
		e.Vel.Y *= b.Friction
		e.Pos.X = 2*(size.X-r) - e.Pos.X
	}
	if e.Pos.Y <= r {
		e.Vel.Y = -e.Vel.Y * b.Restitution
		e.Vel.X *= b.Friction
		e.Pos.Y = 2*r - e.Pos.Y
	} else if e.Pos.Y >= size.Y-r {
		e.Vel.Y = -e.Vel.Y * b.Restitution
		e.Vel.X *= b.Friction
		e.Pos.Y = 2*(size.Y-r) - e.Pos.Y
	}
}

// Trail remembers the last positions of an agent, oldest first.
type Trail struct {
	points []geometry.Vector2D
	length int
}

// NewTrail creates a trail of at most length points.
func NewTrail(length int) *Trail {
	return &Trail{points: make([]geometry.Vector2D, 0, length), length: length}
}

// Push records a position, dropping the oldest one when full.
func (t *Trail) Push(p geometry.Vector2D) {
	if t.length <= 0 {
		return
	}
	if len(t.points) == t.length {
		copy(t.points, t.points[1:])
		t.points = t.points[:len(t.points)-1]
	}
	t.points = append(t.points, p)
}

// Points returns a copy of the recorded positions.
func (t *Trail) Points() []geometry.Vector2D {
	out := make([]geometry.Vector2D, len(t.points))
	copy(out, t.points)
	return out
}
