package renderer

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/camera"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// pickSlop is extra screen-space reach around a chicken, in pixels.
const pickSlop = 6

// PickChicken returns the roster index of the chicken under a screen point,
// or -1. Overlaps go to the closest center. Captured chickens are not pickable.
func PickChicken(s *game.Snapshot, cam *camera.Camera, sx, sy float32) int {
	wx, wy := cam.ScreenToWorld(sx, sy)
	p := r2.Vec{X: float64(wx), Y: float64(wy)}
	slop := float64(pickSlop / cam.Zoom)

	best, bestD := -1, 0.0
	for _, ch := range s.Chickens {
		if ch.State == flock.StateCaptured {
			continue
		}
		reach := ch.Radius + slop
		d := spatial.DistanceSq(p, ch.Pos)
		if d > reach*reach {
			continue
		}
		if best < 0 || d < bestD {
			best, bestD = ch.Index, d
		}
	}
	return best
}

// Selected looks up a chicken by roster index.
func Selected(s *game.Snapshot, index int) (game.ChickenView, bool) {
	for _, ch := range s.Chickens {
		if ch.Index == index {
			return ch, ch.State != flock.StateCaptured
		}
	}
	return game.ChickenView{}, false
}
