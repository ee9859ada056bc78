package ui

import (
	"testing"

	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/telemetry"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{0.2, "0:01"},
		{59.5, "1:00"},
		{125, "2:05"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.seconds); got != tc.want {
			t.Errorf("FormatClock(%g) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestNewHUDData(t *testing.T) {
	s := &game.Snapshot{
		Score:     12345,
		HighScore: 1500000,
		Lives:     2,
		InCoop:    10,
		Escaped:   1,
		Captured:  1,
		Hungry:    4,
		Holes:     make([]coop.Hole, 2),
		MaxHoles:  3,
		Timed:     true,
		Remaining: 8.5,
		Hero:      game.HeroView{Carrying: pickups.KindBasket, Uses: 4, Eggs: 2},
	}
	d := NewHUDData(s, 60)

	if d.Score != "12,345" || d.HighScore != "1,500,000" {
		t.Errorf("scores formatted as %q and %q", d.Score, d.HighScore)
	}
	if d.Clock != "0:09" || !d.LowTime {
		t.Errorf("clock = %q low=%v", d.Clock, d.LowTime)
	}
	if d.Hungry != 4 || d.Holes != 2 || d.MaxHoles != 3 {
		t.Errorf("hungry=%d holes=%d/%d, want 4 and 2/3", d.Hungry, d.Holes, d.MaxHoles)
	}
	if d.Holding != "basket (2 eggs, room for 4)" {
		t.Errorf("holding = %q", d.Holding)
	}

	s.Timed = false
	s.Hero = game.HeroView{}
	d = NewHUDData(s, 60)
	if d.Clock != "--:--" || d.LowTime || d.Holding != "" {
		t.Errorf("unlimited round: clock=%q low=%v holding=%q", d.Clock, d.LowTime, d.Holding)
	}
}

func TestSummaryRows(t *testing.T) {
	if rows := SummaryRows(nil); rows != nil {
		t.Errorf("no round should give no rows, got %v", rows)
	}

	last := &telemetry.RoundStats{Reason: telemetry.ReasonTimeUp, Score: 2500, Elapsed: 90}
	last.EggsDeposited = 7
	last.GoldenDeposited = 1
	rows := SummaryRows(last)

	want := map[string]string{
		"Result": "Time's up",
		"Score":  "2,500",
		"Time":   "1:30",
		"Eggs":   "7 (1 golden)",
	}
	for _, row := range rows {
		if v, ok := want[row[0]]; ok && v != row[1] {
			t.Errorf("%s = %q, want %q", row[0], row[1], v)
		}
	}
	if ReasonLabel("mystery") != "mystery" {
		t.Error("unknown reasons should pass through")
	}
}

func TestOverlayRegistry(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.IsEnabled(OverlayEscapeLine) || !reg.IsEnabled(OverlayInspector) {
		t.Error("default overlays should start enabled")
	}
	if reg.IsEnabled(OverlayHungerBars) {
		t.Error("hunger bars should start disabled")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyH)
	if !ok || id != OverlayHungerBars || !on {
		t.Fatalf("H toggled %q on=%v ok=%v", id, on, ok)
	}
	reg.Toggle(OverlayBreedLabels)
	if reg.IsEnabled(OverlayHungerBars) {
		t.Error("breed labels should switch off hunger bars")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyW); ok {
		t.Error("movement keys must not toggle overlays")
	}

	cats := reg.Categories()
	if len(cats) != 3 || cats[0] != CategoryField {
		t.Errorf("categories = %v", cats)
	}

	reg.Toggle(OverlayBodies)
	got := reg.FieldOverlays(7)
	if !got.EscapeLine || got.HungerBars || !got.BreedLabels || !got.Bodies || got.Selected != 7 {
		t.Errorf("field overlays = %+v", got)
	}
}

func TestOverlayKeysUnique(t *testing.T) {
	seen := make(map[int32]OverlayID)
	for _, d := range coopOverlays {
		if prev, ok := seen[d.Key]; ok {
			t.Errorf("%s and %s share key %s", prev, d.ID, d.KeyLabel)
		}
		seen[d.Key] = d.ID
		if d.Excludes != "" {
			found := false
			for _, o := range coopOverlays {
				if o.ID == d.Excludes && o.Excludes == d.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("%s excludes %s but not the other way round", d.ID, d.Excludes)
			}
		}
	}
}

func TestControlRows(t *testing.T) {
	reg := NewOverlayRegistry()
	rows := ControlRows(reg)

	if !rows[0].Header || rows[0].Label != "Keys" {
		t.Fatalf("first row = %+v, want Keys header", rows[0])
	}
	for i, b := range Bindings {
		r := rows[i+1]
		if r.Header || r.Toggle || r.Key != b.Keys || r.Label != b.Action {
			t.Errorf("row %d = %+v, want binding %+v", i+1, r, b)
		}
	}

	headers := 0
	toggles := make(map[string]bool)
	for _, r := range rows {
		switch {
		case r.Header:
			headers++
		case r.Toggle:
			toggles[r.Label] = r.On
		}
	}
	if headers != 1+len(reg.Categories()) {
		t.Errorf("headers = %d, want %d", headers, 1+len(reg.Categories()))
	}
	if len(toggles) != len(coopOverlays) {
		t.Errorf("toggle rows = %d, want %d", len(toggles), len(coopOverlays))
	}
	if !toggles["Escape line"] || toggles["Hunger bars"] {
		t.Errorf("toggle state does not follow defaults: %v", toggles)
	}

	reg.Toggle(OverlayHungerBars)
	for _, r := range ControlRows(reg) {
		if r.Toggle && r.Label == "Hunger bars" && !r.On {
			t.Error("toggled overlay still shown as off")
		}
	}
}

func TestLegend(t *testing.T) {
	legend := Legend()
	for _, want := range []string{"WASD/Arrows: move", "E/Space: drop item", "Enter: start round", "Home: reset view"} {
		if !strings.Contains(legend, want) {
			t.Errorf("legend %q missing %q", legend, want)
		}
	}
	if n := strings.Count(legend, " | "); n != len(Bindings)-1 {
		t.Errorf("legend has %d separators, want %d", n, len(Bindings)-1)
	}
}

func TestFieldRangeNormalize(t *testing.T) {
	r := FieldRange{Min: 0, Max: flock.MaxHunger}
	tests := []struct {
		v, want float32
	}{
		{-5, 0},
		{50, 0.5},
		{150, 1},
	}
	for _, tc := range tests {
		if got := r.Normalize(tc.v); got != tc.want {
			t.Errorf("Normalize(%g) = %g, want %g", tc.v, got, tc.want)
		}
	}
	if (FieldRange{Min: 1, Max: 1}).Normalize(3) != 0 {
		t.Error("empty range should normalise to 0")
	}
}

func TestChickenSections(t *testing.T) {
	ch := game.ChickenView{
		Index:   3,
		Breed:   flock.BreedSilkie,
		Special: flock.SpecialNone,
		State:   flock.StateInCoop,
		Hunger:  40,
		HasEgg:  true,
	}
	r := NewRenderer()
	sections := ChickenSections()

	values := make(map[string]string)
	for _, sd := range sections {
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(ch) {
				continue
			}
			if fd.TextGetter != nil {
				values[fd.ID] = fd.TextGetter(ch)
			}
		}
	}
	if values["breed"] != flock.BreedSilkie.String() || values["egg"] != "yes" || values["state"] != flock.StateInCoop.String() {
		t.Errorf("field values = %v", values)
	}
	if _, ok := values["special"]; ok {
		t.Error("special row should hide for ordinary breeds")
	}

	open := r.SectionsHeight(sections, ch)
	ch.State = flock.StateCaptured
	if captured := r.SectionsHeight(sections, ch); captured >= open {
		t.Errorf("captured layout height %d should drop the position section (was %d)", captured, open)
	}
}
