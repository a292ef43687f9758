package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Eye is a perception cone centered on the owner velocity.
// FieldOfView is the full aperture in degrees; a target is in view when its
// bearing deviates from the heading by at most half of it.
type Eye struct {
	FieldOfView float64
	Range       float64

	owner *Agent
}

// NewEye creates an eye for owner. The eye does not own its owner.
func NewEye(owner *Agent, fieldOfView, rng float64) *Eye {
	return &Eye{FieldOfView: fieldOfView, Range: rng, owner: owner}
}

// Owner returns the agent the eye belongs to.
func (e *Eye) Owner() *Agent {
	return e.owner
}

// InRange reports whether the target surface is within Range of the owner center.
func (e *Eye) InRange(t *Agent) bool {
	return e.owner.Pos.DistanceTo(t.Pos)-t.Radius <= e.Range
}

// InFieldOfView reports whether the target center is inside the cone.
// A target exactly on the owner, or an owner at rest, is always in view.
func (e *Eye) InFieldOfView(t *Agent) bool {
	if e.FieldOfView >= 360 {
		return true
	}
	offset := t.Pos.Sub(e.owner.Pos)
	forward := e.owner.Vel
	if !offset.IsDefined() || !forward.IsDefined() {
		return true
	}
	return math.Abs(geometry.Degrees(forward.AngleDisparity(offset))) <= e.FieldOfView/2
}

// Sees is InRange and InFieldOfView.
func (e *Eye) Sees(t *Agent) bool {
	return e.InRange(t) && e.InFieldOfView(t)
}

// Look returns every other agent seen, in population order since Nearby keeps it.
func (e *Eye) Look(env Environment) []*Agent {
	candidates := env.Nearby(e.owner.Pos, e.Range)
	seen := make([]*Agent, 0, len(candidates))
	for _, a := range candidates {
		if a == e.owner {
			continue
		}
		if e.Sees(a) {
			seen = append(seen, a)
		}
	}
	return seen
}

// Heading returns the orientation of the cone in radians.
func (e *Eye) Heading() float64 {
	return e.owner.Vel.Angle()
}
