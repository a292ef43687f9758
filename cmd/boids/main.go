package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/term"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "configuration file (.json, .yaml or .toml)")
	scenario := flag.String("scenario", "", "scenario to start with, overrides the configuration")
	flag.Parse()

	if err := run(*configPath, *scenario); err != nil {
		fmt.Fprintf(os.Stderr, "boids: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenario string) error {
	cfg := simulation.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}

	// The terminal owns stdout, log to stderr only when something goes wrong.
	logger := golog.New(golog.ErrorLevel, os.Stderr)
	sim, err := simulation.New(cfg, simulation.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := sim.Reset(cfg.Scenario); err != nil {
		return err
	}

	screen, err := term.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	ui := term.New(screen, sim.Size())
	defer ui.Close()

	ticker := time.NewTicker(time.Duration(cfg.TickIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for _, c := range ui.Poll() {
			if err := sim.Apply(c); err != nil {
				logger.Errorf("%s: %v", c, err)
			}
		}
		if ui.Quit() {
			return nil
		}
		if sim.Running() {
			sim.Tick(cfg.DeltaTime)
		}
		if err := ui.Render(sim.Frame()); err != nil {
			return err
		}
	}
	return nil
}
