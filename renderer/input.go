package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/camera"
	"github.com/pthm-cable/coopkeeper/game"
)

// Keys holds the held and pressed state read for one frame.
type Keys struct {
	Up, Down, Left, Right bool
	Interact              bool
	Start                 bool
}

// ReadKeys polls the keyboard. WASD and the arrows move, E or Space drops
// the carried item, Enter starts a round.
func ReadKeys() Keys {
	return Keys{
		Up:       rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Down:     rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:     rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Interact: rl.IsKeyPressed(rl.KeyE) || rl.IsKeyPressed(rl.KeySpace),
		Start:    rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter),
	}
}

// Intent converts key state into a game intent.
// Opposite keys cancel; diagonals are left for the hero to normalise.
func (k Keys) Intent() game.Intent {
	var move r2.Vec
	if k.Up {
		move.Y--
	}
	if k.Down {
		move.Y++
	}
	if k.Left {
		move.X--
	}
	if k.Right {
		move.X++
	}
	return game.Intent{Move: move, Interact: k.Interact, Start: k.Start}
}

// HandleWindow applies window and camera controls: resize, F11 fullscreen,
// mouse wheel and +/- zoom, Home to reset.
func HandleWindow(cam *camera.Camera) {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsWindowResized() {
		cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
