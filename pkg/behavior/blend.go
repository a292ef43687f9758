package behavior

import "github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"

// Weighted is one part of a Blend.
type Weighted struct {
	Behavior Behavior
	Weight   float64
}

// Blend sums weighted child behaviors, so a single rule can carry the three
// flocking forces over the same group.
type Blend struct {
	Parts []Weighted
}

// NewBlend creates a Blend behavior.
func NewBlend(parts ...Weighted) *Blend {
	return &Blend{Parts: parts}
}

func (b *Blend) Kind() Kind { return KindBlend }

func (b *Blend) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	var force geometry.Vector2D
	for _, p := range b.Parts {
		force.AddAssign(p.Behavior.Behave(v, r).Mul(p.Weight))
	}
	return force
}

// SetTargets rebinds every child able to take targets.
func (b *Blend) SetTargets(list []Target) {
	for _, p := range b.Parts {
		if rt, ok := p.Behavior.(Retargeter); ok {
			rt.SetTargets(list)
		}
	}
}

func (b *Blend) DebugShapes(v Vehicle) []Shape {
	var shapes []Shape
	for _, p := range b.Parts {
		if d, ok := p.Behavior.(Debugger); ok {
			shapes = append(shapes, d.DebugShapes(v)...)
		}
	}
	return shapes
}
