package renderer

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/camera"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/game"
)

func TestKeysIntent(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
		want r2.Vec
	}{
		{"idle", Keys{}, r2.Vec{}},
		{"up", Keys{Up: true}, r2.Vec{Y: -1}},
		{"diagonal", Keys{Down: true, Right: true}, r2.Vec{X: 1, Y: 1}},
		{"opposites cancel", Keys{Left: true, Right: true, Up: true}, r2.Vec{Y: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.keys.Intent()
			if got.Move != tc.want {
				t.Errorf("move = %v, want %v", got.Move, tc.want)
			}
		})
	}

	in := Keys{Interact: true, Start: true}.Intent()
	if !in.Interact || !in.Start {
		t.Errorf("buttons lost: %+v", in)
	}
}

func TestBreedColorsDistinct(t *testing.T) {
	seen := make(map[[3]uint8]flock.Breed)
	for b := flock.Breed(0); b < flock.NumBreeds; b++ {
		c := BreedColor(b)
		key := [3]uint8{c.R, c.G, c.B}
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s share a color", prev, b)
		}
		seen[key] = b
	}
}

func TestStateTint(t *testing.T) {
	base := BreedColor(flock.BreedLeghorn)

	if got := StateTint(base, flock.StateInCoop, 0); got != base {
		t.Errorf("in-coop tint changed color: %v", got)
	}
	if got := StateTint(base, flock.StateEscaped, 0); got == base {
		t.Error("escaped chicken should flash")
	}
	if got := StateTint(base, flock.StateEscaped, 15); got != base {
		t.Error("flash should alternate")
	}
	if got := StateTint(base, flock.StateCaptured, 0); got.A != 0 {
		t.Error("captured chicken should be invisible")
	}
}

func TestPickChicken(t *testing.T) {
	cam := camera.New(800, 600, 800, 600)
	s := &game.Snapshot{
		Chickens: []game.ChickenView{
			{Index: 0, Pos: r2.Vec{X: 100, Y: 100}, Radius: 8},
			{Index: 1, Pos: r2.Vec{X: 110, Y: 100}, Radius: 8},
			{Index: 2, Pos: r2.Vec{X: 300, Y: 300}, Radius: 8, State: flock.StateCaptured},
		},
	}

	tests := []struct {
		name   string
		sx, sy float32
		want   int
	}{
		{"direct hit", 100, 100, 0},
		{"overlap goes to closest", 107, 100, 1},
		{"slop", 100, 113, 0},
		{"miss", 200, 200, -1},
		{"captured ignored", 300, 300, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PickChicken(s, cam, tc.sx, tc.sy); got != tc.want {
				t.Errorf("picked %d, want %d", got, tc.want)
			}
		})
	}

	if _, ok := Selected(s, 2); ok {
		t.Error("captured chicken should not stay selected")
	}
	if ch, ok := Selected(s, 1); !ok || ch.Index != 1 {
		t.Error("lookup by index failed")
	}
}

func TestFieldCullsOffscreenChickens(t *testing.T) {
	cam := camera.New(800, 600, 800, 600)
	cam.SetZoom(2)
	cam.Follow(200, 150)
	f := NewFieldRenderer(cam)

	tests := []struct {
		name string
		pos  r2.Vec
		want bool
	}{
		{"in view", r2.Vec{X: 100, Y: 100}, true},
		{"label reaches into view", r2.Vec{X: 420, Y: 100}, true},
		{"far right", r2.Vec{X: 500, Y: 100}, false},
		{"far below", r2.Vec{X: 100, Y: 420}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.visible(tc.pos, 8+labelReach); got != tc.want {
				t.Errorf("visible(%v) = %v, want %v", tc.pos, got, tc.want)
			}
		})
	}
}
