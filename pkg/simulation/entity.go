package simulation

import (
	"fmt"
	"image/color"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// EntityKind tags an agent archetype. Brain rule tables are keyed on it.
type EntityKind uint8

const (
	KindAny EntityKind = iota
	KindBoid
	KindPredator
	KindPrey
	KindLeader
	KindBall
	KindObstacle
)

var entityKindNames = [...]string{
	KindAny:      "any",
	KindBoid:     "boid",
	KindPredator: "predator",
	KindPrey:     "prey",
	KindLeader:   "leader",
	KindBall:     "ball",
	KindObstacle: "obstacle",
}

func (k EntityKind) String() string {
	if int(k) < len(entityKindNames) {
		return entityKindNames[k]
	}
	return fmt.Sprintf("entity-kind(%d)", uint8(k))
}

// Matches reports whether a rule keyed on k applies to an entity of kind other.
func (k EntityKind) Matches(other EntityKind) bool {
	return k == KindAny || k == other
}

// ColorPair is the fill and border color of an entity.
type ColorPair struct {
	Fill   color.RGBA
	Border color.RGBA
}

type Entity struct {
	Name   string
	Kind   EntityKind
	Colors ColorPair
	Pos    geometry.Vector2D
	Vel    geometry.Vector2D
	Radius float64
}

// DistanceTo gives the cartesian distance from this Entity and the other
func (e *Entity) DistanceTo(other *Entity) float64 {
	return e.Pos.Sub(other.Pos).Len()
}

// DistanceSquaredTo gives squared magnitude of the vector from this Entity and the other
func (e *Entity) DistanceSquaredTo(other *Entity) float64 {
	return e.Pos.Sub(other.Pos).LenSqr()
}

// SurfaceDistanceTo is the center distance minus both radii; negative when overlapping.
func (e *Entity) SurfaceDistanceTo(other *Entity) float64 {
	return e.DistanceTo(other) - e.Radius - other.Radius
}
