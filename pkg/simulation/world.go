package simulation

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	golog "github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

// pickMargin is added to an agent radius when picking it with the pointer.
const pickMargin = 20.0

// Environment is what an agent sees of the simulation while deciding.
type Environment interface {
	behavior.Resolver
	Population() []*Agent
	// Nearby returns the agents that may lie within radius of p, in population order.
	Nearby(p geometry.Vector2D, radius float64) []*Agent
	Field() Field
	Logger() golog.Logger
}

// Field is the global state acting on ballistic agents.
type Field struct {
	Gravity bool
	Magnet  geometry.Vector2D
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger, golog.DiscardLogger by default.
func WithLogger(logger golog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithScenario registers, or replaces, a named scenario.
func WithScenario(name string, build ScenarioFunc) Option {
	return func(s *Simulation) {
		if _, ok := s.builders[name]; !ok {
			s.names = append(s.names, name)
		}
		s.builders[name] = build
	}
}

// Simulation owns the agents of the current scenario and ticks them.
// It is not safe for concurrent use: drive it from one goroutine, or through
// the SimulationActor mailbox.
type Simulation struct {
	cfg    *Config
	size   geometry.Vector2D
	logger golog.Logger

	names    []string
	builders map[string]ScenarioFunc

	agents    []*Agent
	epoch     uint32
	scenario  string
	grid      *spatialGrid
	maxRadius float64

	pointer       geometry.Vector2D
	pointerInside bool
	running       bool
	selected      behavior.Handle
	field         Field
	ticks         uint64
}

var _ Environment = (*Simulation)(nil)

// New creates an empty simulation. Call Reset to load a scenario.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:      cfg,
		size:     geometry.NewVector(cfg.WorldWidth, cfg.WorldHeight),
		logger:   golog.DiscardLogger,
		builders: make(map[string]ScenarioFunc),
		grid:     newSpatialGrid(cfg.CellSize),
		pointer:  behavior.NoPoint,
	}
	for _, name := range catalog {
		s.names = append(s.names, name)
		s.builders[name] = builders[name]
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ============================================================================
// Scenario lifecycle
// ============================================================================

// Reset replaces the population with the one built by the named scenario.
// On failure the current population is kept and the error names the scenario.
func (s *Simulation) Reset(name string) error {
	build, ok := s.builders[name]
	if !ok || build == nil {
		return fmt.Errorf("reset %q: %w", name, ErrUnknownScenario)
	}
	return s.Install(name, build)
}

// Install builds a population with build and swaps it in. Handles of the previous
// population stop resolving.
func (s *Simulation) Install(name string, build ScenarioFunc) error {
	if err := s.cfg.Validate(); err != nil {
		s.logger.Errorf("scenario %q rejected: %v", name, err)
		return fmt.Errorf("scenario %q: %w", name, err)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	p := &Population{
		Config:     s.cfg,
		Size:       s.size,
		Rand:       rand.New(rand.NewPCG(s.cfg.Seed, h.Sum64())),
		generation: s.epoch + 1,
	}
	if err := build(p); err != nil {
		s.logger.Errorf("scenario %q rejected: %v", name, err)
		return fmt.Errorf("scenario %q: %w", name, err)
	}

	s.epoch++
	s.agents = p.agents
	s.scenario = name
	s.selected = behavior.Handle{}
	s.field = Field{}
	s.ticks = 0
	s.maxRadius = 0
	for _, a := range s.agents {
		s.maxRadius = math.Max(s.maxRadius, a.Radius)
	}
	s.grid.rebuild(s.agents)
	s.logger.Infof("scenario %q loaded with %d agents", name, len(s.agents))
	return nil
}

// Scenarios returns the scenario names in catalog order.
func (s *Simulation) Scenarios() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Scenario returns the name of the loaded scenario.
func (s *Simulation) Scenario() string { return s.scenario }

// Config returns the configuration the simulation was created with.
func (s *Simulation) Config() *Config { return s.cfg }

// Size returns the arena dimensions.
func (s *Simulation) Size() geometry.Vector2D { return s.size }

// Ticks returns the number of ticks since the last reset.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// ============================================================================
// Tick
// ============================================================================

// Tick advances the simulation by dt: every agent decides, then every agent
// moves, so no agent sees another one already moved within the same tick.
func (s *Simulation) Tick(dt float64) {
	s.grid.rebuild(s.agents)
	s.decide(dt)
	for _, a := range s.agents {
		a.Move(dt, s.size)
	}
	for _, a := range s.agents {
		if a.Trail != nil {
			a.Trail.Push(a.Pos)
		}
	}
	s.ticks++
}

// Step advances the simulation by one tick of the configured dt, running or not.
func (s *Simulation) Step() {
	s.Tick(s.cfg.DeltaTime)
}

func (s *Simulation) decide(dt float64) {
	workers := runtime.GOMAXPROCS(0)
	n := len(s.agents)
	if !s.cfg.ParallelPerception || workers < 2 || n < 2*workers {
		for _, a := range s.agents {
			a.Steer(s, dt)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		part := s.agents[start:min(start+chunk, n)]
		g.Go(func() error {
			for _, a := range part {
				a.Steer(s, dt)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// ============================================================================
// Run state and input
// ============================================================================

func (s *Simulation) Running() bool { return s.running }
func (s *Simulation) Start()        { s.running = true }
func (s *Simulation) Stop()         { s.running = false }
func (s *Simulation) Toggle()       { s.running = !s.running }

// SetPointer moves the pointer inside the arena.
func (s *Simulation) SetPointer(p geometry.Vector2D) {
	s.pointer = p
	s.pointerInside = true
}

// PointerLeft records that the pointer left the arena.
func (s *Simulation) PointerLeft() {
	s.pointer = behavior.NoPoint
	s.pointerInside = false
}

// SetMagnet points the gravity magnet; each component is clamped to [-1, 1].
func (s *Simulation) SetMagnet(direction geometry.Vector2D) {
	direction.ClampX(-1, 1)
	direction.ClampY(-1, 1)
	s.field.Magnet = direction.Mul(s.cfg.MagnetStrength)
}

// ToggleGravity switches the pull between balls on or off.
func (s *Simulation) ToggleGravity() {
	s.field.Gravity = !s.field.Gravity
}

// Pick selects the agent nearest to p whose radius, plus a margin, contains p.
// Picking empty space clears the selection.
func (s *Simulation) Pick(p geometry.Vector2D) (behavior.Handle, bool) {
	s.selected = behavior.Handle{}
	best := math.Inf(1)
	for _, a := range s.agents {
		d := a.Pos.DistanceTo(p)
		if d <= a.Radius+pickMargin && d < best {
			best = d
			s.selected = a.handle
		}
	}
	return s.selected, s.selected.Valid()
}

// Selected returns the picked agent, if it still exists.
func (s *Simulation) Selected() (*Agent, bool) {
	return s.Agent(s.selected)
}

// ============================================================================
// Environment
// ============================================================================

// Agent returns the agent behind h, provided h belongs to the current population.
func (s *Simulation) Agent(h behavior.Handle) (*Agent, bool) {
	if !h.Valid() || h.Generation != s.epoch || h.Index < 0 || h.Index >= len(s.agents) {
		return nil, false
	}
	return s.agents[h.Index], true
}

func (s *Simulation) Lookup(h behavior.Handle) (behavior.Body, bool) {
	a, ok := s.Agent(h)
	if !ok {
		return nil, false
	}
	return a, true
}

func (s *Simulation) Pointer() (geometry.Vector2D, bool) {
	return s.pointer, s.pointerInside
}

func (s *Simulation) Population() []*Agent {
	return s.agents
}

func (s *Simulation) Nearby(p geometry.Vector2D, radius float64) []*Agent {
	nearby := s.grid.query(p, radius+s.maxRadius)
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].handle.Index < nearby[j].handle.Index })
	return nearby
}

func (s *Simulation) Field() Field {
	return s.field
}

func (s *Simulation) Logger() golog.Logger {
	return s.logger
}
