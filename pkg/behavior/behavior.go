// Package behavior holds the steering behavior catalog.
// A behavior maps a vehicle and its bound targets to a desired steering force.
// Behaviors never own the entities they target: targets are handles resolved
// through a Resolver on every call, so a target removed by a reset simply
// stops contributing.
package behavior

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// ErrMissingTarget reports a behavior that needs targets but has none bound.
// It is a soft error: the behavior still returns the zero vector.
var ErrMissingTarget = errors.New("behavior has no target")

// Kind identifies a behavior of the catalog.
type Kind uint8

const (
	KindSeek Kind = iota + 1
	KindFlee
	KindWander
	KindPseudoWander
	KindPursuit
	KindEvade
	KindBorderRepulsion
	KindEntityRepulsion
	KindSeparation
	KindCohesion
	KindAlignment
	KindFollowBiggestSeen
	KindArrive
	KindBlend
)

var kindNames = [...]string{
	KindSeek:              "seek",
	KindFlee:              "flee",
	KindWander:            "wander",
	KindPseudoWander:      "pseudo-wander",
	KindPursuit:           "pursuit",
	KindEvade:             "evade",
	KindBorderRepulsion:   "border-repulsion",
	KindEntityRepulsion:   "entity-repulsion",
	KindSeparation:        "separation",
	KindCohesion:          "cohesion",
	KindAlignment:         "alignment",
	KindFollowBiggestSeen: "follow-biggest-seen",
	KindArrive:            "arrive",
	KindBlend:             "blend",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Handle is a generation checked reference to an agent of the simulation arena.
// The zero Handle never resolves.
type Handle struct {
	Index      int
	Generation uint32
}

// Valid reports whether h can possibly resolve.
func (h Handle) Valid() bool {
	return h.Generation != 0
}

// Less orders handles by index then generation.
func (h Handle) Less(other Handle) bool {
	if h.Index != other.Index {
		return h.Index < other.Index
	}
	return h.Generation < other.Generation
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d@%d", h.Index, h.Generation)
}

// Body is the read-only view a behavior has on any entity.
type Body interface {
	Position() geometry.Vector2D
	Velocity() geometry.Vector2D
	BoundingRadius() float64
}

// Vehicle is the agent a behavior steers.
type Vehicle interface {
	Body
	Handle() Handle
	MaxSpeed() float64
	// SetMaxSpeed is used by FollowBiggestSeen to slow down behind a leader.
	SetMaxSpeed(speed float64)
	NominalMaxSpeed() float64
	// Rand is the agent's own random source; sharing it between agents
	// would make a parallel decide phase non-deterministic.
	Rand() *rand.Rand
}

// Resolver gives behaviors access to the world they live in.
type Resolver interface {
	Lookup(h Handle) (Body, bool)
	// Pointer returns the pointer position, ok is false when the pointer left the arena.
	Pointer() (geometry.Vector2D, bool)
}

// Behavior computes a steering force for a vehicle.
type Behavior interface {
	Kind() Kind
	Behave(v Vehicle, r Resolver) geometry.Vector2D
}

// Retargeter is implemented by behaviors whose target set can be rebound,
// which lets a brain keep a stateful instance alive across ticks.
type Retargeter interface {
	SetTargets(targets []Target)
}

// Targeted is implemented by behaviors that carry a target set.
type Targeted interface {
	Targets() []Target
}

// Check reports ErrMissingTarget for a targeted behavior without targets.
func Check(b Behavior) error {
	t, ok := b.(Targeted)
	if !ok {
		return nil
	}
	if len(t.Targets()) == 0 {
		return fmt.Errorf("%s: %w", b.Kind(), ErrMissingTarget)
	}
	return nil
}

// ShapeKind tells a renderer how to draw a debug Shape.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeLine
	ShapePoint
)

// Shape is a piece of debug geometry in world coordinates.
type Shape struct {
	Kind   ShapeKind
	From   geometry.Vector2D
	To     geometry.Vector2D
	Radius float64
}

// Debugger is implemented by behaviors able to expose their internal geometry.
type Debugger interface {
	DebugShapes(v Vehicle) []Shape
}

// targets is embedded by every targeted behavior.
type targets struct {
	list []Target
}

// SetTargets rebinds the target set. The slice is copied.
func (t *targets) SetTargets(list []Target) {
	t.list = append(t.list[:0], list...)
}

// Targets returns the bound target set.
func (t *targets) Targets() []Target {
	return t.list
}

func newTargets(list []Target) targets {
	var t targets
	t.SetTargets(list)
	return t
}

// seekForce is the classic Reynolds seek: desired velocity minus current velocity.
// A point exactly at the vehicle position gives a zero desired velocity, so the force brakes.
func seekForce(v Vehicle, point geometry.Vector2D) geometry.Vector2D {
	desired := point.Sub(v.Position()).Unit().Mul(v.MaxSpeed())
	return desired.Sub(v.Velocity())
}
