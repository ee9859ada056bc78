package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Binding is a fixed key and what it does.
type Binding struct {
	Keys   string
	Action string
}

// Bindings lists the play and view keys. Overlay keys live in the registry.
var Bindings = []Binding{
	{Keys: "WASD/Arrows", Action: "move"},
	{Keys: "E/Space", Action: "drop item"},
	{Keys: "Enter", Action: "start round"},
	{Keys: "Click", Action: "inspect chicken"},
	{Keys: "Tab", Action: "controls"},
	{Keys: "Wheel, +/-", Action: "zoom"},
	{Keys: "Home", Action: "reset view"},
	{Keys: "F11", Action: "fullscreen"},
}

// Legend joins the bindings into the one-line footer.
func Legend() string {
	parts := make([]string, len(Bindings))
	for i, b := range Bindings {
		parts[i] = b.Keys + ": " + b.Action
	}
	return strings.Join(parts, " | ")
}

// ControlRow is one line of the controls panel.
type ControlRow struct {
	Header bool // category heading; only Label is set
	Key    string
	Label  string
	Toggle bool // overlay switch, On holds its state
	On     bool
}

// ControlRows lays out the controls panel: play keys first, then every
// overlay by category with its current state.
func ControlRows(overlays *OverlayRegistry) []ControlRow {
	rows := []ControlRow{{Header: true, Label: "Keys"}}
	for _, b := range Bindings {
		rows = append(rows, ControlRow{Key: b.Keys, Label: b.Action})
	}
	for _, c := range overlays.Categories() {
		rows = append(rows, ControlRow{Header: true, Label: c.Label()})
		for _, d := range overlays.ByCategory(c) {
			rows = append(rows, ControlRow{
				Key:    d.KeyLabel,
				Label:  d.Name,
				Toggle: true,
				On:     overlays.IsEnabled(d.ID),
			})
		}
	}
	return rows
}

// ControlsPanel shows the key bindings and overlay switches.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle shows or hides the panel and returns the new visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel when visible.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}
	r := c.renderer
	th := r.Theme
	rows := ControlRows(overlays)

	height := int32(len(rows))*th.LineHeight + th.Padding*2 + 20
	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + th.Padding
	y := c.y + th.Padding
	rl.DrawText("Controls [Tab]", x, y, 16, rl.White)
	y += 20

	offColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	for _, row := range rows {
		if row.Header {
			rl.DrawText(row.Label, x, y+2, th.HeaderFontSize, th.SectionHeader)
			y += th.LineHeight
			continue
		}

		labelX := x
		labelColor := th.LabelColor
		if row.Toggle {
			dot := offColor
			if row.On {
				dot = th.BarFillHigh
				labelColor = rl.White
			}
			rl.DrawRectangle(x, y+2, 8, 8, dot)
			labelX += 14
		}
		rl.DrawText(row.Label, labelX, y, th.FontSize, labelColor)

		key := fmt.Sprintf("[%s]", row.Key)
		w := rl.MeasureText(key, th.FontSize)
		rl.DrawText(key, c.x+c.width-th.Padding-w, y, th.FontSize, rl.Gray)
		y += th.LineHeight
	}
}
