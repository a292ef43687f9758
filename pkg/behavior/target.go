package behavior

import "github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"

// NoPoint is the sentinel point meaning "no target"; point targets equal to it are skipped.
var NoPoint = geometry.Vector2D{X: -1, Y: -1}

type targetKind uint8

const (
	targetEntity targetKind = iota
	targetPoint
	targetPointer
)

// Target is either an entity of the arena, a fixed point or the live pointer position.
type Target struct {
	kind   targetKind
	handle Handle
	point  geometry.Vector2D
}

// EntityTarget targets the agent behind h.
func EntityTarget(h Handle) Target {
	return Target{kind: targetEntity, handle: h}
}

// PointTarget targets a fixed point.
func PointTarget(p geometry.Vector2D) Target {
	return Target{kind: targetPoint, point: p}
}

// PointerTarget follows the pointer, and is skipped while the pointer is outside the arena.
func PointerTarget() Target {
	return Target{kind: targetPointer}
}

// EntityTargets wraps handles into entity targets.
func EntityTargets(handles ...Handle) []Target {
	out := make([]Target, len(handles))
	for i, h := range handles {
		out[i] = EntityTarget(h)
	}
	return out
}

// Handle returns the target entity handle, ok is false for point targets.
func (t Target) Handle() (Handle, bool) {
	return t.handle, t.kind == targetEntity
}

// resolved is a target snapshot for one Behave call.
type resolved struct {
	pos    geometry.Vector2D
	vel    geometry.Vector2D
	radius float64
	handle Handle
	entity bool
}

func (t Target) resolve(r Resolver) (resolved, bool) {
	switch t.kind {
	case targetEntity:
		b, ok := r.Lookup(t.handle)
		if !ok {
			return resolved{}, false
		}
		return resolved{
			pos:    b.Position(),
			vel:    b.Velocity(),
			radius: b.BoundingRadius(),
			handle: t.handle,
			entity: true,
		}, true
	case targetPointer:
		p, ok := r.Pointer()
		if !ok || p.Eq(NoPoint) {
			return resolved{}, false
		}
		return resolved{pos: p}, true
	default:
		if t.point.Eq(NoPoint) {
			return resolved{}, false
		}
		return resolved{pos: t.point}, true
	}
}

// resolveAll resolves every live target, skipping the vehicle itself.
func resolveAll(v Vehicle, r Resolver, list []Target) []resolved {
	out := make([]resolved, 0, len(list))
	self := v.Handle()
	for _, t := range list {
		rt, ok := t.resolve(r)
		if !ok {
			continue
		}
		if rt.entity && rt.handle == self {
			continue
		}
		out = append(out, rt)
	}
	return out
}
