package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Jk-Krishna/cronos-app/internal/config"
	"github.com/Jk-Krishna/cronos-app/internal/demo"
	"github.com/Jk-Krishna/cronos-app/internal/logging"
	"github.com/Jk-Krishna/cronos-app/internal/store"
	"github.com/Jk-Krishna/cronos-app/internal/sweep"
	"github.com/Jk-Krishna/cronos-app/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to config file")
		seedDemo    = flag.Bool("seed-demo", false, "seed a demo group, admin, and a week of history")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("cronos %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *seedDemo {
		if err := demo.Seed(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding demo data: %v\n", err)
			os.Exit(1)
		}
		log.Info("seeded demo data")
	}

	// The sweeper marks overdue tasks missed and seeds each new day
	// while the UI runs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := sweep.New(s, cfg.SweepInterval, cfg.GracePeriod, log)
	go sweeper.Run(ctx)

	log.Info("starting", zap.String("version", version), zap.String("db", cfg.DBPath))

	app := ui.NewApp(s, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
