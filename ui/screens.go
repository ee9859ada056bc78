package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/telemetry"
)

const (
	screenPanelW = 360
	buttonW      = 160
	buttonH      = 32
)

// Screens draws the start and game over panels.
// Draw calls report a button press; the caller turns it into a start intent
// on the next frame.
type Screens struct {
	renderer  *Renderer
	Autopilot bool
}

// NewScreens creates the lifecycle panels.
func NewScreens() *Screens {
	return &Screens{renderer: NewRenderer()}
}

// DrawStart renders the title panel. Returns true when Start was clicked.
func (s *Screens) DrawStart(screenW, screenH int32, highScore int) bool {
	r := s.renderer
	lines := []string{
		"Keep the flock inside the fence.",
		"Patch holes, herd strays, chase off raccoons,",
		"feed the hungry and bank the eggs.",
	}
	height := int32(len(lines))*r.Theme.LineHeight + 150
	x, y := centered(screenW, screenH, screenPanelW, height)
	r.DrawPanel(x, y, screenPanelW, height)

	cx := x + r.Theme.Padding*2
	cy := y + r.Theme.Padding*2
	rl.DrawText("Coopkeeper", cx, cy, 28, r.Theme.SectionHeader)
	cy += 36
	for _, line := range lines {
		rl.DrawText(line, cx, cy, r.Theme.FontSize, r.Theme.LabelColor)
		cy += r.Theme.LineHeight
	}
	cy += 6
	rl.DrawText(fmt.Sprintf("Best: %s", humanize.Comma(int64(highScore))), cx, cy, 16, r.Theme.ValueColor)
	cy += 26

	s.Autopilot = gui.CheckBox(rl.Rectangle{X: float32(cx), Y: float32(cy), Width: 16, Height: 16}, "Autopilot", s.Autopilot)
	return s.button(x, y, height, "Start [Enter]")
}

// DrawGameOver renders the round summary. Returns true when Play Again was clicked.
func (s *Screens) DrawGameOver(screenW, screenH int32, last *telemetry.RoundStats) bool {
	r := s.renderer
	rows := SummaryRows(last)
	height := int32(len(rows))*r.Theme.LineHeight + 120
	x, y := centered(screenW, screenH, screenPanelW, height)
	r.DrawPanel(x, y, screenPanelW, height)

	cx := x + r.Theme.Padding*2
	cy := y + r.Theme.Padding*2
	title := "Game Over"
	if last != nil && last.NewHigh {
		title = "New High Score!"
	}
	rl.DrawText(title, cx, cy, 28, r.Theme.SectionHeader)
	cy += 40
	for _, row := range rows {
		cy = r.DrawLabelValue(cx, cy, row[0], row[1])
	}

	return s.button(x, y, height, "Play Again [Enter]")
}

func (s *Screens) button(x, y, height int32, label string) bool {
	bounds := rl.Rectangle{
		X:      float32(x + (screenPanelW-buttonW)/2),
		Y:      float32(y + height - buttonH - s.renderer.Theme.Padding*2),
		Width:  buttonW,
		Height: buttonH,
	}
	return gui.Button(bounds, label)
}

// SummaryRows returns the label/value pairs shown after a round.
func SummaryRows(last *telemetry.RoundStats) [][2]string {
	if last == nil {
		return nil
	}
	return [][2]string{
		{"Result", ReasonLabel(last.Reason)},
		{"Score", humanize.Comma(int64(last.Score))},
		{"Best", humanize.Comma(int64(last.HighScore))},
		{"Time", FormatClock(last.Elapsed)},
		{"Eggs", fmt.Sprintf("%d (%d golden)", last.EggsDeposited, last.GoldenDeposited)},
		{"Repairs", fmt.Sprintf("%d of %d holes", last.Repairs, last.HolesOpened)},
		{"Escapes", fmt.Sprintf("%d, %d herded back", last.Escapes, last.Herds)},
		{"Raccoons", fmt.Sprintf("%d seen, %d chased off", last.RaccoonsSpawned, last.Neutralized)},
		{"Lost", humanize.Comma(int64(last.Captures))},
	}
}

// ReasonLabel returns display text for a round end reason.
func ReasonLabel(reason string) string {
	switch reason {
	case telemetry.ReasonNoLives:
		return "Out of lives"
	case telemetry.ReasonFlockLost:
		return "The whole flock is gone"
	case telemetry.ReasonTimeUp:
		return "Time's up"
	case telemetry.ReasonAborted:
		return "Abandoned"
	default:
		return reason
	}
}

func centered(screenW, screenH, w, h int32) (int32, int32) {
	return (screenW - w) / 2, (screenH - h) / 2
}
