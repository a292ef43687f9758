package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// minSpeedFactor keeps a follower from stopping dead behind its leader.
const minSpeedFactor = 0.05

// FollowBiggestSeen trails the largest target, provided it is bigger than MinRadius.
// While following, the vehicle max speed becomes its nominal speed scaled by
// distance/SlowingDistance, clamped to [0.05, MaxFactor]. The seek point sits
// 1.5 radii behind the leader along its reverse velocity.
// Without a big enough target the nominal speed is restored and the force is zero.
type FollowBiggestSeen struct {
	targets
	MinRadius       float64
	SlowingDistance float64
	MaxFactor       float64
	Gain            float64

	leader geometry.Vector2D
	follow bool
}

// NewFollowBiggestSeen creates a FollowBiggestSeen behavior.
func NewFollowBiggestSeen(list []Target, minRadius, slowingDistance, maxFactor, gain float64) *FollowBiggestSeen {
	return &FollowBiggestSeen{
		targets:         newTargets(list),
		MinRadius:       minRadius,
		SlowingDistance: slowingDistance,
		MaxFactor:       maxFactor,
		Gain:            gain,
	}
}

func (f *FollowBiggestSeen) Kind() Kind { return KindFollowBiggestSeen }

func (f *FollowBiggestSeen) Behave(v Vehicle, r Resolver) geometry.Vector2D {
	f.follow = false
	var biggest resolved
	found := false
	for _, t := range resolveAll(v, r, f.list) {
		if !found || t.radius > biggest.radius {
			biggest, found = t, true
		}
	}
	if !found || biggest.radius <= f.MinRadius {
		v.SetMaxSpeed(v.NominalMaxSpeed())
		return geometry.Vector2D{}
	}

	factor := math.Max(f.MaxFactor, minSpeedFactor)
	if f.SlowingDistance > 0 {
		dist := v.Position().DistanceTo(biggest.pos)
		factor = math.Max(minSpeedFactor, math.Min(dist/f.SlowingDistance, factor))
	}
	v.SetMaxSpeed(v.NominalMaxSpeed() * factor)

	f.leader = biggest.pos.Add(biggest.vel.Neg().Unit().Mul(1.5 * biggest.radius))
	f.follow = true
	return seekForce(v, f.leader).Mul(f.Gain)
}

func (f *FollowBiggestSeen) DebugShapes(v Vehicle) []Shape {
	if !f.follow {
		return nil
	}
	return []Shape{{Kind: ShapeLine, From: v.Position(), To: f.leader}}
}
