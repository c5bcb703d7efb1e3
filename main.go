package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reach/config"
	"github.com/pthm-cable/reach/game"
	"github.com/pthm-cable/reach/runner"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Follow the configured path without a window")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot (empty = telemetry.output_dir)")
	plotFile := flag.String("plot", "", "Headless: write a plot of the run to this file (.png, .svg, .pdf)")
	maxSolves := flag.Int("max-solves", 0, "Headless: stop after N path points (0 = one pass of the shape)")
	planner := flag.Bool("planner", false, "Route every goal through the waypoint planner")
	debug := flag.Bool("debug", false, "Log every finished solve")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	dir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}
	usePlanner := *planner || cfg.Planner.Enabled

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		slog.Info("starting headless run",
			"shape", cfg.Path.Shape,
			"max_solves", *maxSolves,
			"planner", usePlanner,
			"output_dir", dir,
		)
		stats, err := runner.Run(ctx, cfg, runner.Options{
			OutputDir:  dir,
			PlotFile:   *plotFile,
			MaxSolves:  *maxSolves,
			UsePlanner: usePlanner,
		})
		if err != nil {
			slog.Error("headless run failed", "error", err, "stats", stats)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Reach")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(ctx, cfg, game.Options{OutputDir: dir, UsePlanner: usePlanner})
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()
	}
}
