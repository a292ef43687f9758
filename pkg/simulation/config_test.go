package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() unexpected error: %v", err)
	}
	if w, h := cfg.Size(); w != 1000 || h != 800 {
		t.Errorf("Size() = %v, %v", w, h)
	}
	s := newTestSimulation(t, cfg)
	if err := s.Reset(cfg.Scenario); err != nil {
		t.Errorf("the default scenario %q should load: %v", cfg.Scenario, err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantParam string
	}{
		{"zero width", func(c *Config) { c.WorldWidth = 0 }, "worldWidth"},
		{"negative dt", func(c *Config) { c.DeltaTime = -0.1 }, "deltaTime"},
		{"min speed above max", func(c *Config) { c.MinSpeed = c.MaxSpeed + 1 }, "minSpeed"},
		{"min radius above max", func(c *Config) { c.MinRadius = c.MaxRadius * 2 }, "minRadius"},
		{"zero ball force", func(c *Config) { c.BallMaxForce = 0 }, "ballMaxForce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Parameter != tt.wantParam {
				t.Errorf("Validate() error = %v, want a ConfigError on %s", err, tt.wantParam)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		want     func(c *Config) bool
		errorHas string
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"worldWidth": 640, "numBoids": 12, "scenario": "Wander", "showEyes": true}`,
			want: func(c *Config) bool {
				return c.WorldWidth == 640 && c.NumBoids == 12 && c.Scenario == "Wander" && c.ShowEyes && c.WorldHeight == 800
			},
		},
		{
			name:    "yaml",
			file:    "config.yaml",
			content: "worldHeight: 600\nseed: 42\nparallelPerception: true\nfieldOfView: 300\n",
			want: func(c *Config) bool {
				return c.WorldHeight == 600 && c.Seed == 42 && c.ParallelPerception && c.FieldOfView == 300
			},
		},
		{
			name:    "toml",
			file:    "config.toml",
			content: "scenario = \"Bouncing balls\"\nnumBalls = 7\nbounce = 0.8\ntelemetryDir = \"out\"\n",
			want: func(c *Config) bool {
				return c.Scenario == "Bouncing balls" && c.NumBalls == 7 && c.Bounce == 0.8 && c.TelemetryDir == "out"
			},
		},
		{
			name:     "schema rejects a negative width",
			file:     "bad.json",
			content:  `{"worldWidth": -5}`,
			errorHas: "validation failed",
		},
		{
			name:     "schema rejects an unknown key",
			file:     "bad.yaml",
			content:  "worldWidht: 100\n",
			errorHas: "validation failed",
		},
		{
			name:     "schema rejects a wrong type",
			file:     "bad.toml",
			content:  "numBoids = \"many\"\n",
			errorHas: "validation failed",
		},
		{
			name:     "cross field check",
			file:     "bad.json",
			content:  `{"minSpeed": 30, "maxSpeed": 20}`,
			errorHas: "minSpeed",
		},
		{
			name:     "malformed yaml",
			file:     "broken.yml",
			content:  "worldWidth: [1, 2\n",
			errorHas: "decode config yaml",
		},
		{
			name:     "unsupported extension",
			file:     "config.ini",
			content:  "worldWidth=1",
			errorHas: "unsupported config format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if tt.errorHas != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errorHas) {
					t.Fatalf("LoadConfig() error = %v, want one containing %q", err, tt.errorHas)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() unexpected error: %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("LoadConfig() = %+v", cfg)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("LoadConfig() on a missing file should fail")
	}
}

func TestLoadConfig_Shipped(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "configs", "*"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no shipped configuration found: %v", err)
	}
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			cfg, err := LoadConfig(f)
			if err != nil {
				t.Fatalf("LoadConfig(%s) unexpected error: %v", f, err)
			}
			s := newTestSimulation(t, cfg)
			if err := s.Reset(cfg.Scenario); err != nil {
				t.Errorf("scenario %q of %s does not load: %v", cfg.Scenario, f, err)
			}
		})
	}
}
