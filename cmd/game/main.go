package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tatianab/party-house/internal/config"
	"github.com/tatianab/party-house/internal/controller"
	"github.com/tatianab/party-house/internal/engine"
	"github.com/tatianab/party-house/internal/logger"
	"github.com/tatianab/party-house/internal/models"
	"github.com/tatianab/party-house/internal/streak"
	"github.com/tatianab/party-house/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns stdout, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, out)

	store, err := streak.Open(cfg.StreakBackend, cfg.SaveDir)
	if err != nil {
		fmt.Printf("Error opening streak store: %v\n", err)
		os.Exit(1)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	rng, err := engine.NewRand(cfg.Seed)
	if err != nil {
		fmt.Printf("Error seeding random source: %v\n", err)
		os.Exit(1)
	}
	kick, _ := cfg.Kick()
	eng, err := engine.NewEngine(models.DefaultCatalog(),
		engine.WithRand(rng),
		engine.WithMaxRounds(cfg.MaxRounds),
		engine.WithKickPolicy(kick),
		engine.WithLogger(log),
	)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		os.Exit(1)
	}

	bridge := tui.NewBridge()
	ctrl := controller.New(eng, bridge, bridge, store, log)

	if err := tui.Run(ctrl, bridge); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
