package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/game"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/telemetry"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "configuration file (.json, .yaml or .toml)")
	scenario := flag.String("scenario", "", "scenario to start with, overrides the configuration")
	flag.Parse()

	ctx := context.Background()
	logger := golog.New(golog.InfoLevel, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *scenario != "" {
		cfg.Scenario = *scenario
	}

	sim, err := simulation.New(cfg, simulation.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	var recorder simulation.FrameRecorder
	fileRecorder, err := telemetry.NewFileRecorder(cfg.TelemetryDir, cfg.TelemetryInterval)
	if err != nil {
		log.Fatal(err)
	}
	if fileRecorder != nil {
		recorder = fileRecorder
	}

	system, err := actor.NewActorSystem("SteeringBoids", actor.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Errorf("stopping actor system: %v", err)
		}
	}()

	// Buffer to avoid blocking the actor while a frame is drawn
	frames := make(chan simulation.Frame, 10)
	pid, err := system.Spawn(ctx, "simulation", simulation.NewSimulationActor(sim, frames, recorder))
	if err != nil {
		log.Fatalf("Failed to spawn simulation: %v", err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth+game.PanelWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Steering boids")

	g := game.New(ctx, cfg, pid, frames, sim.Scenarios(), logger)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
