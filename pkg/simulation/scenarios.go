package simulation

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

//go:embed scenarios.txt
var scenariosTxt string

// catalog is the ordered list of scenario names shown to the user.
var catalog = parseCatalog(scenariosTxt)

var builders = map[string]ScenarioFunc{
	"Seek pointer":      seekPointer,
	"Flee pointer":      fleePointer,
	"Wander":            wanderers,
	"Pseudo wander":     pseudoWanderers,
	"Flocking":          flocking,
	"Predator and prey": predatorAndPrey,
	"Follow the leader": followTheLeader,
	"Bouncing balls":    bouncingBalls,
	"Obstacles":         obstacles,
	"Arrival":           arrival,
}

const pseudoWanderJitter = 0.3 // radians per tick

func parseCatalog(txt string) []string {
	var names []string
	for _, line := range strings.Split(txt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

var palette = map[EntityKind]ColorPair{
	KindBoid:     {Fill: color.RGBA{R: 80, G: 160, B: 255, A: 255}, Border: color.RGBA{R: 200, G: 230, B: 255, A: 255}},
	KindPrey:     {Fill: color.RGBA{R: 90, G: 220, B: 120, A: 255}, Border: color.RGBA{R: 210, G: 255, B: 220, A: 255}},
	KindPredator: {Fill: color.RGBA{R: 255, G: 60, B: 60, A: 255}, Border: color.RGBA{R: 255, G: 200, B: 200, A: 255}},
	KindLeader:   {Fill: color.RGBA{R: 255, G: 200, B: 40, A: 255}, Border: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	KindObstacle: {Fill: color.RGBA{R: 90, G: 90, B: 100, A: 255}, Border: color.RGBA{R: 160, G: 160, B: 170, A: 255}},
}

// ScenarioFunc fills a population for a named scenario.
type ScenarioFunc func(p *Population) error

// Population is the arena under construction handed to a ScenarioFunc.
// Handles returned by Add are valid once the population is installed.
type Population struct {
	Config *Config
	Size   geometry.Vector2D
	Rand   *rand.Rand

	agents     []*Agent
	generation uint32
}

// Add appends a to the population and returns its handle.
func (p *Population) Add(a *Agent) behavior.Handle {
	a.handle = behavior.Handle{Index: len(p.agents), Generation: p.generation}
	p.agents = append(p.agents, a)
	return a.handle
}

// Agents returns the agents added so far.
func (p *Population) Agents() []*Agent {
	return p.agents
}

// NewAgent creates an agent whose random source is seeded from the population one.
func (p *Population) NewAgent(e Entity) *Agent {
	return NewAgent(e, p.Rand.Uint64())
}

func (p *Population) uniform(min, max float64) float64 {
	return min + p.Rand.Float64()*(max-min)
}

func (p *Population) randomEntity(kind EntityKind, index int, radius float64) Entity {
	c := p.Config
	margin := radius + 10
	return Entity{
		Name:   fmt.Sprintf("%s-%03d", kind, index),
		Kind:   kind,
		Colors: palette[kind],
		Pos:    geometry.RandomCartesian(p.Rand, margin, p.Size.X-margin, margin, p.Size.Y-margin),
		Vel:    geometry.RandomPolar(p.Rand, c.MinSpeed, c.MaxSpeed, math.Pi, 0),
		Radius: radius,
	}
}

// piloted adds a movable agent steered by behaviors.
func (p *Population) piloted(e Entity, maxSpeed float64, behaviors ...behavior.Behavior) (*Agent, error) {
	m, err := NewMovable(maxSpeed, p.Config.MaxSteeringForce)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	a := p.NewAgent(e)
	a.Movable = m
	if len(behaviors) > 0 {
		a.Piloted = NewPiloted(behaviors...)
	}
	if p.Config.TrailLength > 0 {
		a.Trail = NewTrail(p.Config.TrailLength)
	}
	p.Add(a)
	return a, nil
}

// thinking adds a movable agent with one eye and a brain.
func (p *Population) thinking(e Entity, maxSpeed float64, rules *RuleTable, fov, rng float64) (*Agent, error) {
	a, err := p.piloted(e, maxSpeed)
	if err != nil {
		return nil, err
	}
	a.Brain = NewBrain(rules, p.border())
	a.AddEye(fov, rng)
	return a, nil
}

// ============================================================================
// Behavior factories
// ============================================================================

func (p *Population) border() behavior.Behavior {
	return behavior.NewBorderRepulsion(p.Config.BorderForce, p.Size)
}

func (p *Population) wander() Factory {
	c := p.Config
	return func(_ *Agent, _ []behavior.Target) behavior.Behavior {
		return behavior.NewWander(c.WanderRadius, c.WanderDistance, false, c.WanderJitter, 1)
	}
}

func (p *Population) pseudoWander() Factory {
	c := p.Config
	return func(_ *Agent, _ []behavior.Target) behavior.Behavior {
		return behavior.NewPseudoWander(c.WanderRadius, c.WanderDistance, pseudoWanderJitter, 1)
	}
}

func (p *Population) flock() Factory {
	c := p.Config
	return func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewBlend(
			behavior.Weighted{Behavior: behavior.NewCohesion(targets, 1), Weight: c.CohesionWeight},
			behavior.Weighted{Behavior: behavior.NewAlignment(targets, 1), Weight: c.AlignmentWeight},
			behavior.Weighted{Behavior: behavior.NewSeparation(targets, c.SeparationForce), Weight: 1},
		)
	}
}

func (p *Population) separation() Factory {
	c := p.Config
	return func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewSeparation(targets, c.SeparationForce)
	}
}

// ============================================================================
// Scenarios
// ============================================================================

func seekPointer(p *Population) error {
	c := p.Config
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		seek := behavior.NewSeek([]behavior.Target{behavior.PointerTarget()}, c.SeekGain)
		if _, err := p.piloted(e, c.MaxSpeed, seek, p.border()); err != nil {
			return err
		}
	}
	return nil
}

func fleePointer(p *Population) error {
	c := p.Config
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		flee := behavior.NewFlee([]behavior.Target{behavior.PointerTarget()}, c.SeekGain)
		if _, err := p.piloted(e, c.MaxSpeed, flee, p.border()); err != nil {
			return err
		}
	}
	return nil
}

func wanderers(p *Population) error {
	c := p.Config
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		wander := behavior.NewWander(c.WanderRadius, c.WanderDistance, i%2 == 1, c.WanderJitter, 1)
		if _, err := p.piloted(e, c.MaxSpeed, wander, p.border()); err != nil {
			return err
		}
	}
	return nil
}

func pseudoWanderers(p *Population) error {
	c := p.Config
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		wander := behavior.NewPseudoWander(c.WanderRadius, c.WanderDistance, pseudoWanderJitter, 1)
		if _, err := p.piloted(e, c.MaxSpeed, wander, p.border()); err != nil {
			return err
		}
	}
	return nil
}

func flocking(p *Population) error {
	c := p.Config
	rules := NewRuleTable().
		On(KindBoid, Grouped, p.flock()).
		OnNoTarget(p.wander())
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		if _, err := p.thinking(e, c.MaxSpeed, rules, c.FieldOfView, c.EyeRange); err != nil {
			return err
		}
	}
	return nil
}

func predatorAndPrey(p *Population) error {
	c := p.Config
	evade := func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewEvade(targets, c.PursuitRatio, c.SeekGain)
	}
	pursuit := func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewPursuit(targets, c.PursuitRatio, c.SeekGain)
	}
	preyRules := NewRuleTable().
		On(KindPredator, Single, evade).
		On(KindPrey, Grouped, p.flock()).
		OnNoTarget(p.pseudoWander())
	predatorRules := NewRuleTable().
		On(KindPrey, Grouped, pursuit).
		On(KindPredator, Grouped, p.separation()).
		OnNoTarget(p.wander())

	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindPrey, i, p.uniform(c.MinRadius, c.MaxRadius))
		if _, err := p.thinking(e, c.MaxSpeed, preyRules, c.FieldOfView, c.EyeRange); err != nil {
			return err
		}
	}
	for i := 0; i < c.NumPredators; i++ {
		e := p.randomEntity(KindPredator, i, c.MaxRadius*1.5)
		if _, err := p.thinking(e, c.MaxSpeed*1.1, predatorRules, math.Min(c.FieldOfView, 120), c.EyeRange*2); err != nil {
			return err
		}
	}
	return nil
}

func followTheLeader(p *Population) error {
	c := p.Config
	follow := func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewFollowBiggestSeen(targets, c.FollowMinRadius, c.SlowingDistance, c.FollowMaxFactor, c.SeekGain)
	}
	rules := NewRuleTable().
		On(KindLeader, Grouped, follow).
		On(KindBoid, Grouped, p.separation()).
		OnNoTarget(p.wander())

	leader := p.randomEntity(KindLeader, 0, math.Max(c.FollowMinRadius*1.5, c.MaxRadius*2))
	wander := behavior.NewWander(c.WanderRadius, c.WanderDistance, false, c.WanderJitter, 1)
	if _, err := p.piloted(leader, c.MaxSpeed*0.6, wander, p.border()); err != nil {
		return err
	}
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		if _, err := p.thinking(e, c.MaxSpeed, rules, c.FieldOfView, c.EyeRange*2); err != nil {
			return err
		}
	}
	return nil
}

func bouncingBalls(p *Population) error {
	c := p.Config
	for i := 0; i < c.NumBalls; i++ {
		radius := p.uniform(5, 30)
		e := Entity{
			Name: fmt.Sprintf("ball-%03d", i),
			Kind: KindBall,
			Colors: ColorPair{
				Fill:   color.RGBA{R: uint8(p.Rand.IntN(256)), G: uint8(p.Rand.IntN(256)), B: uint8(p.Rand.IntN(256)), A: 255},
				Border: color.RGBA{R: uint8(p.Rand.IntN(256)), G: uint8(p.Rand.IntN(256)), B: uint8(p.Rand.IntN(256)), A: 255},
			},
			Pos:    geometry.RandomCartesian(p.Rand, radius, p.Size.X-radius, radius, p.Size.Y-radius),
			Vel:    geometry.RandomCartesian(p.Rand, -10, 10, -10, 10),
			Radius: radius,
		}
		m, err := NewMovable(c.BallMaxSpeed, c.BallMaxForce)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		a := p.NewAgent(e)
		a.Movable = m
		a.Ballistic = NewBallistic(radius, c.BallDensity, c.Bounce, c.Friction, c.Softening, c.PushForce)
		if c.TrailLength > 0 {
			a.Trail = NewTrail(c.TrailLength)
		}
		p.Add(a)
	}
	return nil
}

func obstacles(p *Population) error {
	c := p.Config
	avoid := func(_ *Agent, targets []behavior.Target) behavior.Behavior {
		return behavior.NewEntityRepulsion(targets, c.RepulsionForce*10)
	}
	rules := NewRuleTable().
		On(KindObstacle, Single, avoid).
		On(KindBoid, Grouped, p.flock()).
		OnNoTarget(p.wander())

	for i := 0; i < c.NumObstacles; i++ {
		e := p.randomEntity(KindObstacle, i, p.uniform(20, 40))
		e.Vel = geometry.Vector2D{}
		p.Add(p.NewAgent(e))
	}
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		if _, err := p.thinking(e, c.MaxSpeed, rules, c.FieldOfView, c.EyeRange); err != nil {
			return err
		}
	}
	return nil
}

func arrival(p *Population) error {
	c := p.Config
	rules := NewRuleTable().On(KindBoid, Grouped, p.separation())
	for i := 0; i < c.NumBoids; i++ {
		e := p.randomEntity(KindBoid, i, p.uniform(c.MinRadius, c.MaxRadius))
		a, err := p.thinking(e, c.MaxSpeed, rules, 360, c.EyeRange/2)
		if err != nil {
			return err
		}
		a.Piloted = NewPiloted(behavior.NewArrive([]behavior.Target{behavior.PointerTarget()}, c.SlowingDistance, c.SeekGain))
	}
	return nil
}
