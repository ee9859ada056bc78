package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/camera"
	"github.com/pthm-cable/coopkeeper/components"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/game"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
)

// Overlays selects the optional layers drawn over the field.
type Overlays struct {
	EscapeLine  bool
	HungerBars  bool
	BreedLabels bool
	Bodies      bool
	Selected    int // roster index of the inspected chicken, -1 for none
}

// FieldRenderer draws the coop field through a camera.
type FieldRenderer struct {
	cam *camera.Camera
}

// NewFieldRenderer creates a renderer bound to cam.
func NewFieldRenderer(cam *camera.Camera) *FieldRenderer {
	return &FieldRenderer{cam: cam}
}

// Draw renders one frame of the field. Call between BeginDrawing and EndDrawing.
func (f *FieldRenderer) Draw(s *game.Snapshot, o Overlays) {
	rl.ClearBackground(rl.Color{R: 20, G: 24, B: 18, A: 255})

	rl.DrawRectangleRec(f.rect(s.Field), GrassColor)
	rl.DrawRectangleRec(f.rect(s.Coop), CoopFloor)

	if o.EscapeLine {
		rl.DrawRectangleLinesEx(f.rect(s.Coop.Inset(-s.EscapeMargin)), 1, EscapeColor)
	}
	rl.DrawRectangleLinesEx(f.rect(s.Coop), max(f.cam.Scale(3), 1), FenceColor)

	for _, h := range s.Holes {
		f.drawHole(h.Pos, h.Radius, h.Age)
	}

	f.drawCrate(s.Crate)
	for _, it := range s.Items {
		if it.Available {
			f.drawItem(it)
		}
	}

	for _, ch := range s.Chickens {
		if ch.State == flock.StateCaptured || !f.visible(ch.Pos, ch.Radius+labelReach) {
			continue
		}
		f.drawChicken(ch, s.Tick, o)
	}

	for _, r := range s.Raccoons {
		f.drawRaccoon(r, s.Chickens)
	}

	f.drawHero(s.Hero)

	if o.Bodies {
		f.drawBodies(s)
	}
}

// labelReach is how far a chicken's hunger bar or breed label can extend past its body.
const labelReach = 48.0

func (f *FieldRenderer) visible(p r2.Vec, radius float64) bool {
	return f.cam.IsVisible(float32(p.X), float32(p.Y), float32(radius))
}

func (f *FieldRenderer) point(p r2.Vec) rl.Vector2 {
	x, y := f.cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

func (f *FieldRenderer) rect(r spatial.Rect) rl.Rectangle {
	tl := f.point(r.Min)
	return rl.Rectangle{
		X:      tl.X,
		Y:      tl.Y,
		Width:  f.cam.Scale(float32(r.Width())),
		Height: f.cam.Scale(float32(r.Height())),
	}
}

// drawHole draws a fence gap that widens briefly when it opens.
func (f *FieldRenderer) drawHole(p r2.Vec, radius, age float64) {
	grow := float32(min(age/0.3, 1))
	rl.DrawCircleV(f.point(p), f.cam.Scale(float32(radius))*grow, HoleColor)
}

func (f *FieldRenderer) drawCrate(c spatial.Circle) {
	size := f.cam.Scale(float32(c.Radius) * 1.6)
	center := f.point(c.Center)
	box := rl.Rectangle{X: center.X - size/2, Y: center.Y - size/2, Width: size, Height: size}
	rl.DrawRectangleRec(box, CrateColor)
	rl.DrawRectangleLinesEx(box, 2, FenceColor)
}

func (f *FieldRenderer) drawItem(it pickups.Item) {
	center := f.point(it.Home)
	r := f.cam.Scale(float32(it.Radius))
	rl.DrawCircleV(center, r, ItemColor(it.Kind))
	rl.DrawCircleLines(int32(center.X), int32(center.Y), r, rl.Black)

	label := ItemLabel(it.Kind)
	size := int32(max(r, 10))
	w := rl.MeasureText(label, size)
	rl.DrawText(label, int32(center.X)-w/2, int32(center.Y)-size/2, size, rl.Black)
}

func (f *FieldRenderer) drawChicken(ch game.ChickenView, tick int, o Overlays) {
	center := f.point(ch.Pos)
	r := f.cam.Scale(float32(ch.Radius))
	color := StateTint(BreedColor(ch.Breed), ch.State, tick)

	rl.DrawCircleV(center, r, color)

	// Beak on the heading side
	beak := rl.Vector2{
		X: center.X + float32(math.Cos(ch.Heading))*r,
		Y: center.Y + float32(math.Sin(ch.Heading))*r,
	}
	rl.DrawCircleV(beak, max(r*0.3, 1.5), rl.Orange)

	if ch.Special == flock.SpecialGolden {
		rl.DrawCircleLines(int32(center.X), int32(center.Y), r+2, GoldEggColor)
	}
	if ch.HasEgg {
		egg := rl.Vector2{X: center.X + r*0.8, Y: center.Y + r*0.8}
		eggColor := EggColor
		if ch.Special == flock.SpecialGolden {
			eggColor = GoldEggColor
		}
		rl.DrawEllipse(int32(egg.X), int32(egg.Y), max(r*0.35, 2), max(r*0.45, 3), eggColor)
	}
	if ch.Calm {
		rl.DrawCircleLines(int32(center.X), int32(center.Y), r+4, rl.Color{R: 150, G: 200, B: 255, A: 160})
	}
	if ch.Index == o.Selected {
		rl.DrawCircleLines(int32(center.X), int32(center.Y), r+7, rl.Yellow)
	}

	switch {
	case o.HungerBars:
		f.drawHungerBar(center, r, ch.Hunger)
	case o.BreedLabels:
		label := ch.Breed.String()
		w := rl.MeasureText(label, 10)
		rl.DrawText(label, int32(center.X)-w/2, int32(center.Y-r)-14, 10, rl.White)
	}
}

func (f *FieldRenderer) drawHungerBar(center rl.Vector2, r float32, hunger float64) {
	w := max(r*2.4, 16)
	ratio := float32(spatial.Clamp(hunger/flock.MaxHunger, 0, 1))
	x := center.X - w/2
	y := center.Y - r - 8

	fill := rl.Green
	switch {
	case ratio < 0.3:
		fill = rl.Red
	case ratio < 0.6:
		fill = rl.Yellow
	}
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: 4}, rl.Color{R: 0, G: 0, B: 0, A: 160})
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w * ratio, Height: 4}, fill)
}

func (f *FieldRenderer) drawRaccoon(rv intruders.RaccoonView, chickens []game.ChickenView) {
	center := f.point(rv.Pos)
	r := f.cam.Scale(float32(rv.Radius))

	color := RaccoonColor
	if rv.Phase == components.PhaseFleeing {
		color.A = 170
	}
	rl.DrawCircleV(center, r, color)

	// Mask stripe
	rl.DrawRectangleRec(rl.Rectangle{X: center.X - r*0.8, Y: center.Y - r*0.3, Width: r * 1.6, Height: r * 0.35}, rl.Black)

	if rv.Carrying >= 0 && rv.Carrying < len(chickens) {
		held := BreedColor(chickens[rv.Carrying].Breed)
		rl.DrawCircleV(rl.Vector2{X: center.X, Y: center.Y + r*0.9}, r*0.5, held)
	}
}

func (f *FieldRenderer) drawHero(h game.HeroView) {
	center := f.point(h.Pos)
	r := f.cam.Scale(float32(h.Radius))
	drawOrientedTriangle(center.X, center.Y, float32(h.Heading), r, HeroColor)

	if h.Carrying != pickups.KindNone {
		held := rl.Vector2{X: center.X + r, Y: center.Y - r}
		rl.DrawCircleV(held, max(r*0.45, 4), ItemColor(h.Carrying))
		if h.Carrying == pickups.KindBasket && h.Eggs > 0 {
			rl.DrawCircleV(held, max(r*0.2, 2), EggColor)
		}
	}
}

// drawBodies outlines every circle used by contact tests.
func (f *FieldRenderer) drawBodies(s *game.Snapshot) {
	outline := func(c spatial.Circle) {
		p := f.point(c.Center)
		rl.DrawCircleLines(int32(p.X), int32(p.Y), f.cam.Scale(float32(c.Radius)), BodyDebugLine)
	}
	for _, ch := range s.Chickens {
		if ch.State != flock.StateCaptured {
			outline(spatial.Circle{Center: ch.Pos, Radius: ch.Radius})
		}
	}
	for _, h := range s.Holes {
		outline(h.Circle())
	}
	for _, r := range s.Raccoons {
		outline(r.Body())
	}
	for _, it := range s.Items {
		if it.Available {
			outline(it.Body())
		}
	}
	outline(s.Crate)
	outline(spatial.Circle{Center: s.Hero.Pos, Radius: s.Hero.Radius})
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	// Front point
	frontX := x + cos*radius*1.5
	frontY := y + sin*radius*1.5

	// Back left
	backAngle := heading + math.Pi*0.8
	backLeftX := x + float32(math.Cos(float64(backAngle)))*radius
	backLeftY := y + float32(math.Sin(float64(backAngle)))*radius

	// Back right
	backAngle = heading - math.Pi*0.8
	backRightX := x + float32(math.Cos(float64(backAngle)))*radius
	backRightY := y + float32(math.Sin(float64(backAngle)))*radius

	v1 := rl.Vector2{X: frontX, Y: frontY}
	v2 := rl.Vector2{X: backLeftX, Y: backLeftY}
	v3 := rl.Vector2{X: backRightX, Y: backRightY}

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
	rl.DrawTriangleLines(v1, v2, v3, rl.White)
}
