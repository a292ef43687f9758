package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// minDistance guards every inverse-square law: closer than this, overlap included,
// the force saturates to k/minDistance².
const minDistance = 0.05

func inverseSquare(k, distance float64) float64 {
	d := math.Max(distance, minDistance)
	return k / (d * d)
}

// BorderRepulsion pushes the vehicle away from the four walls of the rectangle
// [Min, Max] with a force K/d² per wall, d being the distance from the wall to the
// vehicle surface. At d <= minDistance the force saturates to K/minDistance².
type BorderRepulsion struct {
	K   float64
	Min geometry.Vector2D
	Max geometry.Vector2D
}

// NewBorderRepulsion creates a BorderRepulsion for the arena [0, size].
func NewBorderRepulsion(k float64, size geometry.Vector2D) *BorderRepulsion {
	return &BorderRepulsion{K: k, Max: size}
}

func (b *BorderRepulsion) Kind() Kind { return KindBorderRepulsion }

func (b *BorderRepulsion) Behave(v Vehicle, _ Resolver) geometry.Vector2D {
	p := v.Position()
	r := v.BoundingRadius()
	return geometry.Vector2D{
		X: inverseSquare(b.K, p.X-r-b.Min.X) - inverseSquare(b.K, b.Max.X-p.X-r),
		Y: inverseSquare(b.K, p.Y-r-b.Min.Y) - inverseSquare(b.K, b.Max.Y-p.Y-r),
	}
}

// repel is the pairwise inverse-square repulsion on surface distance.
// Coincident centers are separated along the X axis, the lower handle going left.
func repel(v Vehicle, t resolved, k float64) geometry.Vector2D {
	offset := v.Position().Sub(t.pos)
	surface := offset.Len() - v.BoundingRadius() - t.radius
	dir := offset.Unit()
	if !dir.IsDefined() {
		dir = geometry.Vector2D{X: 1}
		if t.entity && v.Handle().Less(t.handle) {
			dir.X = -1
		}
	}
	return dir.Mul(inverseSquare(k, surface))
}

// EntityRepulsion accumulates an inverse-square repulsion from each target.
type EntityRepulsion struct {
	targets
	K float64
}

// NewEntityRepulsion creates an EntityRepulsion behavior.
func NewEntityRepulsion(list []Target, k float64) *EntityRepulsion {
	return &EntityRepulsion{targets: newTargets(list), K: k}
}

func (e *EntityRepulsion) Kind() Kind { return KindEntityRepulsion }

func (e *EntityRepulsion) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, t := range resolveAll(v, r, e.list) {
		force.AddAssign(repel(v, t, e.K))
	}
	return force
}

// Separation applies an EntityRepulsion against each member of its group and sums them.
type Separation struct {
	targets
	K float64
}

// NewSeparation creates a Separation behavior.
func NewSeparation(list []Target, k float64) *Separation {
	return &Separation{targets: newTargets(list), K: k}
}

func (s *Separation) Kind() Kind { return KindSeparation }

func (s *Separation) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	member := EntityRepulsion{K: s.K}
	for _, t := range s.list {
		member.list = append(member.list[:0], t)
		force.AddAssign(member.Behave(v, r))
	}
	return force
}
