package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score     string
	HighScore string
	Lives     int
	Clock     string // "m:ss" left, or "--:--" for unlimited rounds
	LowTime   bool   // under ten seconds left

	InCoop   int
	Escaped  int
	Captured int
	Hungry   int // uncaptured chickens below the hungry threshold
	Holes    int
	MaxHoles int
	Raccoons int

	Holding string // what the hero carries, empty when empty-handed
	FPS     int32
}

// NewHUDData formats a frame snapshot for the HUD.
func NewHUDData(s *game.Snapshot, fps int32) HUDData {
	d := HUDData{
		Score:     humanize.Comma(int64(s.Score)),
		HighScore: humanize.Comma(int64(s.HighScore)),
		Lives:     s.Lives,
		Clock:     "--:--",
		InCoop:    s.InCoop,
		Escaped:   s.Escaped,
		Captured:  s.Captured,
		Hungry:    s.Hungry,
		Holes:     len(s.Holes),
		MaxHoles:  s.MaxHoles,
		Raccoons:  len(s.Raccoons),
		Holding:   holding(s.Hero),
		FPS:       fps,
	}
	if s.Timed {
		d.Clock = FormatClock(s.Remaining)
		d.LowTime = s.Remaining < 10
	}
	return d
}

// FormatClock renders seconds as m:ss, rounding up so 0:00 means time is up.
func FormatClock(seconds float64) string {
	total := int(math.Ceil(max(seconds, 0)))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func holding(h game.HeroView) string {
	switch h.Carrying {
	case pickups.KindNone:
		return ""
	case pickups.KindBasket:
		return fmt.Sprintf("basket (%d eggs, room for %d)", h.Eggs, h.Uses)
	default:
		return fmt.Sprintf("%s (%d uses)", h.Carrying, h.Uses)
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	theme := h.renderer.Theme

	// Score line
	rl.DrawText(fmt.Sprintf("Score %s", data.Score), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Best %s", data.HighScore), 200, 14, 16, theme.SectionHeader)

	clockColor := rl.White
	if data.LowTime {
		clockColor = theme.WarnColor
	}
	rl.DrawText(data.Clock, 340, 10, 20, clockColor)

	livesColor := rl.LightGray
	if data.Lives <= 1 {
		livesColor = theme.WarnColor
	}
	rl.DrawText(fmt.Sprintf("Lives: %d", data.Lives), 440, 14, 16, livesColor)

	// Flock and threats
	rl.DrawText(
		fmt.Sprintf("In coop: %d | Out: %d | Lost: %d | Hungry: %d | Holes: %d/%d | Raccoons: %d",
			data.InCoop, data.Escaped, data.Captured, data.Hungry, data.Holes, data.MaxHoles, data.Raccoons),
		10, 35, 16, rl.LightGray,
	)

	status := fmt.Sprintf("FPS: %d", data.FPS)
	if data.Holding != "" {
		status = "Holding " + data.Holding + " | " + status
	}
	rl.DrawText(status, 10, 55, 16, rl.LightGray)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText(Legend(), 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := int32(len(phases))*14 + 60
	r.DrawPanel(p.x, p.y, 250, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Step: %s  FPS: %.0f", stats.AvgStep.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
