package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/renderer"
)

// Inspector renders the panel for the selected chicken.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: ChickenSections(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given chicken.
func (ins *Inspector) Draw(ch game.ChickenView) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	height := r.SectionsHeight(ins.sections, ch) + padding*2 + 24
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Chicken #%d", ch.Index), ins.x+padding, y, 16, rl.White)
	y += 24

	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, ch, contentWidth)
	}
	return ins.y + height
}

// DrawHint renders the empty-selection prompt.
func (ins *Inspector) DrawHint() {
	rl.DrawText("Click a chicken to inspect it", ins.x, ins.y, ins.renderer.Theme.FontSize, rl.Gray)
}

// ChickenSections describes the inspector layout for a game.ChickenView.
func ChickenSections() []SectionDescriptor {
	view := func(d any) game.ChickenView { return d.(game.ChickenView) }
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	return []SectionDescriptor{
		{
			ID:    "identity",
			Title: "Breed",
			Fields: []FieldDescriptor{
				{
					ID:         "breed",
					Label:      "Breed",
					Widget:     WidgetText,
					TextGetter: func(d any) string { return view(d).Breed.String() },
				},
				{
					ID:          "color",
					Label:       "Color",
					Widget:      WidgetColorSwatch,
					ColorGetter: func(d any) rl.Color { return renderer.BreedColor(view(d).Breed) },
				},
				{
					ID:         "special",
					Label:      "Special",
					Widget:     WidgetText,
					TextGetter: func(d any) string { return view(d).Special.String() },
					Visible:    func(d any) bool { return view(d).Special != flock.SpecialNone },
				},
			},
		},
		{
			ID:    "status",
			Title: "Status",
			Fields: []FieldDescriptor{
				{
					ID:         "state",
					Label:      "State",
					Widget:     WidgetText,
					TextGetter: func(d any) string { return view(d).State.String() },
				},
				{
					ID:     "hunger",
					Label:  "Hunger",
					Widget: WidgetMeter,
					Range:  FieldRange{Min: 0, Max: flock.MaxHunger},
					Getter: func(d any) float32 { return float32(view(d).Hunger) },
				},
				{
					ID:         "egg",
					Label:      "Egg",
					Widget:     WidgetText,
					TextGetter: func(d any) string { return yesNo(view(d).HasEgg) },
				},
				{
					ID:         "calm",
					Label:      "Calm",
					Widget:     WidgetText,
					TextGetter: func(d any) string { return yesNo(view(d).Calm) },
				},
			},
		},
		{
			ID:    "position",
			Title: "Position",
			Fields: []FieldDescriptor{
				{
					ID:         "pos",
					Label:      "At",
					Widget:     WidgetText,
					TextGetter: func(d any) string { p := view(d).Pos; return fmt.Sprintf("%.0f, %.0f", p.X, p.Y) },
				},
			},
			Visible: func(d any) bool { return view(d).State != flock.StateCaptured },
		},
	}
}
