package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/camera"
	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/renderer"
	"github.com/pthm-cable/coopkeeper/storage"
	"github.com/pthm-cable/coopkeeper/ui"
)


func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics (the autopilot plays)")
	autopilot := flag.Bool("autopilot", false, "Let the bot play in graphical mode")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file for the high score (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks in total (0 = unlimited)")
	maxRounds := flag.Int("max-rounds", 0, "Stop after N rounds (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Use config stats window if not overridden by CLI
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	store, closeStore, err := openStore(cfg, *dbPath)
	if err != nil {
		slog.Error("failed to open high score store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Store:     store,
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	stop := stopper{maxTicks: *maxTicks, maxRounds: *maxRounds}

	if *headless {
		runHeadless(g, cfg, stop)
		return
	}
	runWindow(g, cfg, stop, *autopilot)
}

// openStore picks the SQLite store when a path is configured, else memory.
func openStore(cfg *config.Config, flagPath string) (storage.HighScores, func(), error) {
	path := cfg.Storage.Path
	if flagPath != "" {
		path = flagPath
	}
	if path == "" {
		return storage.NewMemory(), func() {}, nil
	}

	db, err := storage.OpenSQLite(path, cfg.Storage.HighScoreKey)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("high scores stored in sqlite", "path", path)
	return db, func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close high score store", "error", err)
		}
	}, nil
}

// stopper ends a run after a tick or round budget.
type stopper struct {
	maxTicks  int
	maxRounds int
	ticks     int
}

func (s *stopper) done(g *game.Game) bool {
	if s.maxTicks > 0 && s.ticks >= s.maxTicks {
		slog.Info("max ticks reached", "ticks", s.ticks)
		return true
	}
	if s.maxRounds > 0 && g.Rounds() >= s.maxRounds {
		slog.Info("max rounds reached", "rounds", g.Rounds())
		return true
	}
	return false
}

// runHeadless steps the game at the fixed physics rate with the autopilot
// at the controls. Pure CPU, no raylib window.
func runHeadless(g *game.Game, cfg *config.Config, stop stopper) {
	bot := game.NewAutopilot(cfg)

	slog.Info("starting headless run",
		"stats_window", cfg.Telemetry.StatsWindow,
		"dt", cfg.Physics.DT,
		"max_ticks", stop.maxTicks,
		"max_rounds", stop.maxRounds,
	)

	for !stop.done(g) {
		g.Update(cfg.Physics.DT, bot.Intent(g.Snapshot()))
		stop.ticks++
	}
}

// runWindow opens a raylib window and plays at the display frame rate.
func runWindow(g *game.Game, cfg *config.Config, stop stopper, autopilot bool) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Coopkeeper")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	cam := camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), float32(cfg.Field.Width), float32(cfg.Field.Height))
	field := renderer.NewFieldRenderer(cam)
	bot := game.NewAutopilot(cfg)

	hud := ui.NewHUD()
	screens := ui.NewScreens()
	screens.Autopilot = autopilot
	overlays := ui.NewOverlayRegistry()
	controls := ui.NewControlsPanel(10, 80, 220)
	inspector := ui.NewInspector(0, 80, 220)
	perfPanel := ui.NewPerfPanel(0, 0)

	selected := -1
	clickedStart := false

	for !rl.WindowShouldClose() && !stop.done(g) {
		renderer.HandleWindow(cam)
		for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
			if key == rl.KeyTab {
				controls.Toggle()
				continue
			}
			overlays.HandleKeyPress(key)
		}

		snap := g.Snapshot()
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && snap.State == game.StatePlaying {
			mouse := rl.GetMousePosition()
			selected = renderer.PickChicken(snap, cam, mouse.X, mouse.Y)
		}

		intent := renderer.ReadKeys().Intent()
		if screens.Autopilot && snap.State == game.StatePlaying {
			intent = bot.Intent(snap)
		}
		intent.Start = intent.Start || clickedStart
		clickedStart = false

		wasPlaying := snap.State == game.StatePlaying
		g.Update(float64(rl.GetFrameTime()), intent)
		if wasPlaying {
			stop.ticks++
		} else if g.State() == game.StatePlaying {
			// New round, new flock
			selected = -1
		}
		g.RecordFrame()

		snap = g.Snapshot()
		if overlays.IsEnabled(ui.OverlayFollowHero) {
			cam.Follow(float32(snap.Hero.Pos.X), float32(snap.Hero.Pos.Y))
		}

		screenW, screenH := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

		rl.BeginDrawing()

		field.Draw(snap, overlays.FieldOverlays(selected))

		hud.Draw(ui.NewHUDData(snap, rl.GetFPS()))
		hud.DrawControls(screenH)
		controls.Draw(overlays)

		if overlays.IsEnabled(ui.OverlayInspector) {
			inspector.SetPosition(screenW-230, 80)
			if ch, ok := renderer.Selected(snap, selected); ok {
				inspector.Draw(ch)
			} else {
				inspector.DrawHint()
			}
		}
		if overlays.IsEnabled(ui.OverlayPerf) {
			perfPanel.SetPosition(screenW-260, screenH-200)
			perfPanel.Draw(g.PerfStats())
		}

		switch snap.State {
		case game.StateStart:
			clickedStart = screens.DrawStart(screenW, screenH, snap.HighScore)
		case game.StateGameOver:
			clickedStart = screens.DrawGameOver(screenW, screenH, snap.LastRound)
		}

		rl.EndDrawing()
	}
}
