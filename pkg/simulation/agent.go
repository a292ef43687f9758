package simulation

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Agent is the unit ticked by the Simulation: an Entity plus optional components.
// The tick dispatches on which components are present.
type Agent struct {
	Entity

	Movable   *Movable
	Piloted   *Piloted
	Brain     *Brain
	Eyes      []*Eye
	Ballistic *Ballistic
	Trail     *Trail

	handle behavior.Handle
	rng    *rand.Rand
}

var _ behavior.Vehicle = (*Agent)(nil)

// NewAgent creates an agent with its own random source.
func NewAgent(e Entity, seed uint64) *Agent {
	return &Agent{
		Entity: e,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// AddEye attaches a new eye owned by the agent and returns it.
func (a *Agent) AddEye(fieldOfView, rng float64) *Eye {
	eye := NewEye(a, fieldOfView, rng)
	a.Eyes = append(a.Eyes, eye)
	return eye
}

// ============================================================================
// behavior.Vehicle
// ============================================================================

func (a *Agent) Position() geometry.Vector2D { return a.Pos }
func (a *Agent) Velocity() geometry.Vector2D { return a.Vel }
func (a *Agent) BoundingRadius() float64     { return a.Radius }
func (a *Agent) Handle() behavior.Handle     { return a.handle }
func (a *Agent) Rand() *rand.Rand            { return a.rng }

func (a *Agent) MaxSpeed() float64 {
	if a.Movable == nil {
		return 0
	}
	return a.Movable.maxSpeed
}

func (a *Agent) SetMaxSpeed(speed float64) {
	if a.Movable != nil && speed > 0 {
		a.Movable.maxSpeed = speed
	}
}

func (a *Agent) NominalMaxSpeed() float64 {
	if a.Movable == nil {
		return 0
	}
	return a.Movable.nominalMaxSpeed
}

// Steering returns the force computed by the last decide phase.
func (a *Agent) Steering() geometry.Vector2D {
	if a.Movable == nil {
		return geometry.Vector2D{}
	}
	return a.Movable.Steering
}

// ============================================================================
// Tick phases
// ============================================================================

// Steer is the decide phase. It only writes to the agent itself and reads the
// public state of the others, so agents can steer concurrently.
func (a *Agent) Steer(env Environment, dt float64) {
	m := a.Movable
	if m == nil {
		return
	}
	if a.Ballistic != nil {
		m.Acceleration = a.Ballistic.Acceleration(a, env)
		m.Steering = m.Acceleration.Mul(dt)
		m.Steering.LimitLength(m.maxSteeringForce)
		return
	}

	// behaviors such as FollowBiggestSeen lower it again while they apply
	m.maxSpeed = m.nominalMaxSpeed

	var force geometry.Vector2D
	if a.Brain != nil {
		force.AddAssign(a.Brain.Process(a, env))
	}
	if a.Piloted != nil {
		force.AddAssign(a.Piloted.Behave(a, env))
	}
	force.LimitLength(m.maxSteeringForce)
	m.Steering = force
	m.Acceleration = force
}

// Move is the move phase: integrate then bounce balls off the walls.
func (a *Agent) Move(dt float64, size geometry.Vector2D) {
	if a.Movable == nil {
		return
	}
	a.Movable.Move(&a.Entity, dt)
	if a.Ballistic != nil {
		a.Ballistic.Bounce(&a.Entity, size)
	}
}
