package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Seek steers toward every target, summing one seek force per target.
type Seek struct {
	targets
	Gain float64
}

// NewSeek creates a Seek behavior.
func NewSeek(list []Target, gain float64) *Seek {
	return &Seek{targets: newTargets(list), Gain: gain}
}

func (s *Seek) Kind() Kind { return KindSeek }

func (s *Seek) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, t := range resolveAll(v, r, s.list) {
		force.AddAssign(seekForce(v, t.pos))
	}
	return force.Mul(s.Gain)
}

// Flee is the exact opposite of Seek.
type Flee struct {
	Seek
}

// NewFlee creates a Flee behavior.
func NewFlee(list []Target, gain float64) *Flee {
	return &Flee{Seek: Seek{targets: newTargets(list), Gain: gain}}
}

func (f *Flee) Kind() Kind { return KindFlee }

func (f *Flee) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	return f.Seek.Behave(v, r).Neg()
}

// Pursuit seeks where each target will be after Ratio time units at its current velocity.
type Pursuit struct {
	targets
	Ratio float64
	Gain  float64
}

// NewPursuit creates a Pursuit behavior.
func NewPursuit(list []Target, ratio, gain float64) *Pursuit {
	return &Pursuit{targets: newTargets(list), Ratio: ratio, Gain: gain}
}

func (p *Pursuit) Kind() Kind { return KindPursuit }

func (p *Pursuit) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, t := range resolveAll(v, r, p.list) {
		force.AddAssign(seekForce(v, t.pos.Add(t.vel.Mul(p.Ratio))))
	}
	return force.Mul(p.Gain)
}

// Evade is the exact opposite of Pursuit.
type Evade struct {
	Pursuit
}

// NewEvade creates an Evade behavior.
func NewEvade(list []Target, ratio, gain float64) *Evade {
	return &Evade{Pursuit: Pursuit{targets: newTargets(list), Ratio: ratio, Gain: gain}}
}

func (e *Evade) Kind() Kind { return KindEvade }

func (e *Evade) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	return e.Pursuit.Behave(v, r).Neg()
}

// Arrive seeks its targets but lowers the desired speed linearly inside SlowingDistance.
type Arrive struct {
	targets
	SlowingDistance float64
	Gain            float64
}

// NewArrive creates an Arrive behavior.
func NewArrive(list []Target, slowingDistance, gain float64) *Arrive {
	return &Arrive{targets: newTargets(list), SlowingDistance: slowingDistance, Gain: gain}
}

func (a *Arrive) Kind() Kind { return KindArrive }

func (a *Arrive) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, t := range resolveAll(v, r, a.list) {
		offset := t.pos.Sub(v.Position())
		speed := v.MaxSpeed()
		if a.SlowingDistance > 0 {
			speed *= math.Min(offset.Len()/a.SlowingDistance, 1)
		}
		force.AddAssign(offset.Unit().Mul(speed).Sub(v.Velocity()))
	}
	return force.Mul(a.Gain)
}

// Cohesion seeks the centroid of its targets.
type Cohesion struct {
	targets
	Gain float64
}

// NewCohesion creates a Cohesion behavior.
func NewCohesion(list []Target, gain float64) *Cohesion {
	return &Cohesion{targets: newTargets(list), Gain: gain}
}

func (c *Cohesion) Kind() Kind { return KindCohesion }

func (c *Cohesion) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	group := resolveAll(v, r, c.list)
	if len(group) == 0 {
		return geometry.Vector2D{}
	}
	var centroid geometry.Vector2D
	for _, t := range group {
		centroid.AddAssign(t.pos)
	}
	centroid.MulAssign(1 / float64(len(group)))
	return seekForce(v, centroid).Mul(c.Gain)
}

// Alignment returns the mean velocity of its targets, scaled by Gain.
// It is not a delta against the vehicle velocity.
type Alignment struct {
	targets
	Gain float64
}

// NewAlignment creates an Alignment behavior.
func NewAlignment(list []Target, gain float64) *Alignment {
	return &Alignment{targets: newTargets(list), Gain: gain}
}

func (a *Alignment) Kind() Kind { return KindAlignment }

func (a *Alignment) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	group := resolveAll(v, r, a.list)
	if len(group) == 0 {
		return geometry.Vector2D{}
	}
	var mean geometry.Vector2D
	for _, t := range group {
		mean.AddAssign(t.vel)
	}
	return mean.Mul(a.Gain / float64(len(group)))
}
