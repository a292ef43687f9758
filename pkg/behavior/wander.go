package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// heading returns the vehicle direction of travel, falling back on the last
// known heading when the vehicle is at rest.
func heading(v Vehicle, last *geometry.Vector2D) geometry.Vector2D {
	if h := v.Velocity().Unit(); h.IsDefined() {
		*last = h
		return h
	}
	if !last.IsDefined() {
		*last = geometry.RandomUnit(v.Rand())
	}
	return *last
}

// Wander projects a circle Distance ahead of the vehicle and seeks a point on it
// (or inside it when Inside is set). The point is kept across ticks and only
// displaced by a random step of at most Jitter each call.
type Wander struct {
	Radius   float64
	Distance float64
	Inside   bool
	Jitter   float64
	Gain     float64

	offset  geometry.Vector2D // wander point relative to the circle center
	last    geometry.Vector2D
	center  geometry.Vector2D
	started bool
}

// NewWander creates a Wander behavior.
func NewWander(radius, distance float64, inside bool, jitter, gain float64) *Wander {
	return &Wander{Radius: radius, Distance: distance, Inside: inside, Jitter: jitter, Gain: gain}
}

func (w *Wander) Kind() Kind { return KindWander }

func (w *Wander) Behave(v Vehicle, _ Resolver) geometry.Vector2D {
	rng := v.Rand()
	if !w.started {
		w.offset = geometry.RandomUnit(rng).Mul(w.Radius)
		w.started = true
	}
	w.offset.AddAssign(geometry.RandomUnit(rng).Mul(w.Jitter * rng.Float64()))
	if w.Inside {
		w.offset.LimitLength(w.Radius)
	} else if w.offset.IsDefined() {
		w.offset.SetLen(w.Radius)
	} else {
		w.offset = geometry.RandomUnit(rng).Mul(w.Radius)
	}

	w.center = v.Position().Add(heading(v, &w.last).Mul(w.Distance))
	return seekForce(v, w.center.Add(w.offset)).Mul(w.Gain)
}

// Point returns the current wander point relative to the circle center.
func (w *Wander) Point() geometry.Vector2D {
	return w.offset
}

func (w *Wander) DebugShapes(v Vehicle) []Shape {
	if !w.started {
		return nil
	}
	return []Shape{
		{Kind: ShapeLine, From: v.Position(), To: w.center},
		{Kind: ShapeCircle, From: w.center, Radius: w.Radius},
		{Kind: ShapePoint, From: w.center.Add(w.offset), Radius: 2},
	}
}

// PseudoWander only keeps a running wander angle, drifted by at most Jitter radians
// per call. The desired direction is the heading projected Distance ahead plus a
// point of the circle at that angle relative to the heading.
type PseudoWander struct {
	Radius   float64
	Distance float64
	Jitter   float64
	Gain     float64

	angle float64
	last  geometry.Vector2D
}

// NewPseudoWander creates a PseudoWander behavior.
func NewPseudoWander(radius, distance, jitter, gain float64) *PseudoWander {
	return &PseudoWander{Radius: radius, Distance: distance, Jitter: jitter, Gain: gain}
}

func (p *PseudoWander) Kind() Kind { return KindPseudoWander }

func (p *PseudoWander) Behave(v Vehicle, _ Resolver) geometry.Vector2D {
	rng := v.Rand()
	p.angle = math.Remainder(p.angle+(rng.Float64()*2-1)*p.Jitter, 2*math.Pi)
	h := heading(v, &p.last)
	ahead := h.Mul(p.Distance).Add(geometry.NewVectorPolar(p.Radius, h.Angle()+p.angle))
	desired := ahead.Unit().Mul(v.MaxSpeed())
	return desired.Sub(v.Velocity()).Mul(p.Gain)
}

// Angle returns the running wander angle in radians.
func (p *PseudoWander) Angle() float64 {
	return p.angle
}

func (p *PseudoWander) DebugShapes(v Vehicle) []Shape {
	h := p.last
	center := v.Position().Add(h.Mul(p.Distance))
	return []Shape{
		{Kind: ShapeCircle, From: center, Radius: p.Radius},
		{Kind: ShapeLine, From: center, To: center.Add(geometry.NewVectorPolar(p.Radius, h.Angle()+p.angle))},
	}
}
