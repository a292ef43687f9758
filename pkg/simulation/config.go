package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight" toml:"worldHeight"`

	// Run
	Seed           uint64  `json:"seed" yaml:"seed" toml:"seed"`
	DeltaTime      float64 `json:"deltaTime" yaml:"deltaTime" toml:"deltaTime"`
	TickIntervalMs int     `json:"tickIntervalMs" yaml:"tickIntervalMs" toml:"tickIntervalMs"`
	Scenario       string  `json:"scenario" yaml:"scenario" toml:"scenario"`

	// Population
	NumBoids     int     `json:"numBoids" yaml:"numBoids" toml:"numBoids"`
	NumPredators int     `json:"numPredators" yaml:"numPredators" toml:"numPredators"`
	NumBalls     int     `json:"numBalls" yaml:"numBalls" toml:"numBalls"`
	NumObstacles int     `json:"numObstacles" yaml:"numObstacles" toml:"numObstacles"`
	MinRadius    float64 `json:"minRadius" yaml:"minRadius" toml:"minRadius"`
	MaxRadius    float64 `json:"maxRadius" yaml:"maxRadius" toml:"maxRadius"`

	// Physics
	MinSpeed         float64 `json:"minSpeed" yaml:"minSpeed" toml:"minSpeed"`
	MaxSpeed         float64 `json:"maxSpeed" yaml:"maxSpeed" toml:"maxSpeed"`
	MaxSteeringForce float64 `json:"maxSteeringForce" yaml:"maxSteeringForce" toml:"maxSteeringForce"`

	// Perception
	FieldOfView float64 `json:"fieldOfView" yaml:"fieldOfView" toml:"fieldOfView"` // degrees, full aperture
	EyeRange    float64 `json:"eyeRange" yaml:"eyeRange" toml:"eyeRange"`

	// Steering
	BorderForce     float64 `json:"borderForce" yaml:"borderForce" toml:"borderForce"`
	RepulsionForce  float64 `json:"repulsionForce" yaml:"repulsionForce" toml:"repulsionForce"`
	SeekGain        float64 `json:"seekGain" yaml:"seekGain" toml:"seekGain"`
	PursuitRatio    float64 `json:"pursuitRatio" yaml:"pursuitRatio" toml:"pursuitRatio"`
	CohesionWeight  float64 `json:"cohesionWeight" yaml:"cohesionWeight" toml:"cohesionWeight"`
	AlignmentWeight float64 `json:"alignmentWeight" yaml:"alignmentWeight" toml:"alignmentWeight"`
	SeparationForce float64 `json:"separationForce" yaml:"separationForce" toml:"separationForce"`
	WanderRadius    float64 `json:"wanderRadius" yaml:"wanderRadius" toml:"wanderRadius"`
	WanderDistance  float64 `json:"wanderDistance" yaml:"wanderDistance" toml:"wanderDistance"`
	WanderJitter    float64 `json:"wanderJitter" yaml:"wanderJitter" toml:"wanderJitter"`
	FollowMinRadius float64 `json:"followMinRadius" yaml:"followMinRadius" toml:"followMinRadius"`
	SlowingDistance float64 `json:"slowingDistance" yaml:"slowingDistance" toml:"slowingDistance"`
	FollowMaxFactor float64 `json:"followMaxFactor" yaml:"followMaxFactor" toml:"followMaxFactor"`

	// Balls
	BallDensity    float64 `json:"ballDensity" yaml:"ballDensity" toml:"ballDensity"`
	Bounce         float64 `json:"bounce" yaml:"bounce" toml:"bounce"`
	Friction       float64 `json:"friction" yaml:"friction" toml:"friction"`
	Softening      float64 `json:"softening" yaml:"softening" toml:"softening"`
	PushForce      float64 `json:"pushForce" yaml:"pushForce" toml:"pushForce"`
	MagnetStrength float64 `json:"magnetStrength" yaml:"magnetStrength" toml:"magnetStrength"`
	BallMaxSpeed   float64 `json:"ballMaxSpeed" yaml:"ballMaxSpeed" toml:"ballMaxSpeed"`
	BallMaxForce   float64 `json:"ballMaxForce" yaml:"ballMaxForce" toml:"ballMaxForce"`
	TrailLength    int     `json:"trailLength" yaml:"trailLength" toml:"trailLength"`

	// Engine
	CellSize           float64 `json:"cellSize" yaml:"cellSize" toml:"cellSize"`
	ParallelPerception bool    `json:"parallelPerception" yaml:"parallelPerception" toml:"parallelPerception"`

	// Telemetry
	TelemetryDir      string `json:"telemetryDir" yaml:"telemetryDir" toml:"telemetryDir"`
	TelemetryInterval int    `json:"telemetryInterval" yaml:"telemetryInterval" toml:"telemetryInterval"`

	// Visualization
	ShowEyes   bool `json:"showEyes" yaml:"showEyes" toml:"showEyes"`
	ShowDebug  bool `json:"showDebug" yaml:"showDebug" toml:"showDebug"`
	ShowTrails bool `json:"showTrails" yaml:"showTrails" toml:"showTrails"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:         1000,
		WorldHeight:        800,
		Seed:               1,
		DeltaTime:          0.1,
		TickIntervalMs:     16,
		Scenario:           "Flocking",
		NumBoids:           60,
		NumPredators:       3,
		NumBalls:           40,
		NumObstacles:       6,
		MinRadius:          4,
		MaxRadius:          8,
		MinSpeed:           10,
		MaxSpeed:           25,
		MaxSteeringForce:   2,
		FieldOfView:        270,
		EyeRange:           80,
		BorderForce:        400,
		RepulsionForce:     60,
		SeekGain:           1,
		PursuitRatio:       1.5,
		CohesionWeight:     0.4,
		AlignmentWeight:    0.3,
		SeparationForce:    40,
		WanderRadius:       15,
		WanderDistance:     30,
		WanderJitter:       3,
		FollowMinRadius:    10,
		SlowingDistance:    80,
		FollowMaxFactor:    1.2,
		BallDensity:        50,
		Bounce:             0.95,
		Friction:           0.95,
		Softening:          100,
		PushForce:          1e7,
		MagnetStrength:     100,
		BallMaxSpeed:       200,
		BallMaxForce:       50,
		TrailLength:        15,
		CellSize:           80,
		ParallelPerception: false,
		TelemetryDir:       "",
		TelemetryInterval:  60,
		ShowEyes:           false,
		ShowDebug:          false,
		ShowTrails:         true,
	}
}

// Size returns the world dimensions.
func (c *Config) Size() (float64, float64) {
	return c.WorldWidth, c.WorldHeight
}

// Validate rejects values that would make agents misbehave.
// Scenario builders call it before creating any agent.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"worldWidth", c.WorldWidth},
		{"worldHeight", c.WorldHeight},
		{"deltaTime", c.DeltaTime},
		{"maxSpeed", c.MaxSpeed},
		{"maxSteeringForce", c.MaxSteeringForce},
		{"maxRadius", c.MaxRadius},
		{"ballMaxSpeed", c.BallMaxSpeed},
		{"ballMaxForce", c.BallMaxForce},
		{"tickIntervalMs", float64(c.TickIntervalMs)},
	}
	for _, chk := range checks {
		if err := positive(chk.name, chk.value); err != nil {
			return err
		}
	}
	if c.MinSpeed < 0 || c.MinSpeed > c.MaxSpeed {
		return &ConfigError{Parameter: "minSpeed", Value: c.MinSpeed}
	}
	if c.MinRadius <= 0 || c.MinRadius > c.MaxRadius {
		return &ConfigError{Parameter: "minRadius", Value: c.MinRadius}
	}
	return nil
}

// LoadConfig loads a configuration file over DefaultConfig and validates it
// against the embedded JSON schema. The format follows the file extension:
// .json, .yaml / .yml or .toml.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Normalize to JSON, the schema only speaks JSON
	doc, err := toJSON(configFile, b)
	if err != nil {
		return nil, err
	}

	// 4. Validate
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 5. Unmarshal into the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", configFile, err)
	}
	return cfg, nil
}

func toJSON(configFile string, b []byte) ([]byte, error) {
	var doc map[string]interface{}
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".json":
		return b, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(b), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config to json: %w", err)
	}
	return out, nil
}
