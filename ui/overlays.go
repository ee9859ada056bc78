package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/renderer"
)

// OverlayID names a toggleable field layer or panel.
type OverlayID string

const (
	OverlayEscapeLine  OverlayID = "escape_line"
	OverlayHungerBars  OverlayID = "hunger_bars"
	OverlayBreedLabels OverlayID = "breed_labels"
	OverlayFollowHero  OverlayID = "follow_hero"
	OverlayInspector   OverlayID = "inspector"
	OverlayPerf        OverlayID = "perf"
	OverlayBodies      OverlayID = "bodies"
)

// OverlayCategory groups overlays in the controls panel.
type OverlayCategory string

const (
	CategoryField  OverlayCategory = "field"
	CategoryPanels OverlayCategory = "panels"
	CategoryDebug  OverlayCategory = "debug"
)

// categoryOrder is the display order of categories.
var categoryOrder = []OverlayCategory{CategoryField, CategoryPanels, CategoryDebug}

// Label returns the panel heading for the category.
func (c OverlayCategory) Label() string {
	switch c {
	case CategoryField:
		return "Field"
	case CategoryPanels:
		return "Panels"
	case CategoryDebug:
		return "Debug"
	default:
		return string(c)
	}
}

// OverlayDescriptor describes one toggle.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // raylib key code
	KeyLabel string // shown in the controls panel
	Category OverlayCategory
	Default  bool      // on when the window opens
	Excludes OverlayID // switched off when this one is switched on
}

// coopOverlays is the overlay table in display order.
// Movement and interaction keys (WASD, arrows, E, Space, Enter) stay free.
var coopOverlays = []OverlayDescriptor{
	{ID: OverlayEscapeLine, Name: "Escape line", Key: rl.KeyL, KeyLabel: "L", Category: CategoryField, Default: true},
	{ID: OverlayHungerBars, Name: "Hunger bars", Key: rl.KeyH, KeyLabel: "H", Category: CategoryField, Excludes: OverlayBreedLabels},
	{ID: OverlayBreedLabels, Name: "Breed labels", Key: rl.KeyN, KeyLabel: "N", Category: CategoryField, Excludes: OverlayHungerBars},
	{ID: OverlayFollowHero, Name: "Follow hero", Key: rl.KeyF, KeyLabel: "F", Category: CategoryField},
	{ID: OverlayInspector, Name: "Chicken inspector", Key: rl.KeyI, KeyLabel: "I", Category: CategoryPanels, Default: true},
	{ID: OverlayPerf, Name: "Frame timings", Key: rl.KeyP, KeyLabel: "P", Category: CategoryPanels},
	{ID: OverlayBodies, Name: "Contact circles", Key: rl.KeyB, KeyLabel: "B", Category: CategoryDebug},
}

// OverlayRegistry holds the on/off state of every overlay.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays switched on.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{
		descriptors: coopOverlays,
		enabled:     make(map[OverlayID]bool, len(coopOverlays)),
	}
	for _, d := range coopOverlays {
		r.enabled[d.ID] = d.Default
	}
	return r
}

// Toggle flips an overlay and returns its new state.
// Unknown IDs are ignored and report false.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	for _, d := range r.descriptors {
		if d.ID != id {
			continue
		}
		on := !r.enabled[id]
		r.enabled[id] = on
		if on && d.Excludes != "" {
			r.enabled[d.Excludes] = false
		}
		return on
	}
	return false
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay, its new state, and whether the key was bound.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, d := range r.descriptors {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}

// ByCategory returns the overlays in one category, in table order.
func (r *OverlayRegistry) ByCategory(c OverlayCategory) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories that hold overlays, in display order.
func (r *OverlayRegistry) Categories() []OverlayCategory {
	var out []OverlayCategory
	for _, c := range categoryOrder {
		if len(r.ByCategory(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// FieldOverlays returns the field layers to draw, marking the selected chicken.
func (r *OverlayRegistry) FieldOverlays(selected int) renderer.Overlays {
	return renderer.Overlays{
		EscapeLine:  r.IsEnabled(OverlayEscapeLine),
		HungerBars:  r.IsEnabled(OverlayHungerBars),
		BreedLabels: r.IsEnabled(OverlayBreedLabels),
		Bodies:      r.IsEnabled(OverlayBodies),
		Selected:    selected,
	}
}
