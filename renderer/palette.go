// Package renderer draws a game.Snapshot with raylib and turns keyboard
// state into a game.Intent.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/pickups"
)

// Field colors.
var (
	GrassColor    = rl.Color{R: 86, G: 125, B: 70, A: 255}
	CoopFloor     = rl.Color{R: 150, G: 120, B: 80, A: 255}
	FenceColor    = rl.Color{R: 95, G: 70, B: 45, A: 255}
	HoleColor     = rl.Color{R: 30, G: 20, B: 15, A: 255}
	EscapeColor   = rl.Color{R: 230, G: 90, B: 70, A: 120}
	CrateColor    = rl.Color{R: 120, G: 85, B: 50, A: 255}
	RaccoonColor  = rl.Color{R: 90, G: 90, B: 100, A: 255}
	HeroColor     = rl.Color{R: 60, G: 110, B: 200, A: 255}
	EggColor      = rl.Color{R: 250, G: 245, B: 225, A: 255}
	GoldEggColor  = rl.Color{R: 245, G: 200, B: 60, A: 255}
	BodyDebugLine = rl.Color{R: 255, G: 255, B: 255, A: 90}
)

// breedColors is indexed by flock.Breed.
var breedColors = [flock.NumBreeds]rl.Color{
	flock.BreedLeghorn:        {R: 245, G: 245, B: 240, A: 255},
	flock.BreedRhodeIslandRed: {R: 150, G: 50, B: 30, A: 255},
	flock.BreedPlymouthRock:   {R: 120, G: 120, B: 125, A: 255},
	flock.BreedSussex:         {R: 225, G: 215, B: 190, A: 255},
	flock.BreedWyandotte:      {R: 175, G: 140, B: 90, A: 255},
	flock.BreedOrpington:      {R: 215, G: 160, B: 70, A: 255},
	flock.BreedAustralorp:     {R: 35, G: 40, B: 45, A: 255},
	flock.BreedSilkie:         {R: 250, G: 235, B: 240, A: 255},
	flock.BreedPolish:         {R: 70, G: 60, B: 55, A: 255},
	flock.BreedBrahma:         {R: 200, G: 195, B: 180, A: 255},
	flock.BreedCochin:         {R: 185, G: 110, B: 50, A: 255},
	flock.BreedGoldenPhoenix:  {R: 250, G: 200, B: 40, A: 255},
}

// BreedColor returns the body color for a breed.
func BreedColor(b flock.Breed) rl.Color {
	if int(b) < len(breedColors) {
		return breedColors[b]
	}
	return rl.Magenta
}

// StateTint adjusts a chicken's color for its state.
// Breaching and escaped chickens flash toward red; returning ones fade.
func StateTint(c rl.Color, state flock.State, tick int) rl.Color {
	switch state {
	case flock.StateBreaching, flock.StateEscaped:
		if tick/15%2 == 0 {
			return lerpColor(c, rl.Red, 0.45)
		}
	case flock.StateReturning:
		c.A = 200
	case flock.StateCaptured:
		c.A = 0
	}
	return c
}

// ItemColor returns the marker color for a pickup kind.
func ItemColor(k pickups.Kind) rl.Color {
	switch k {
	case pickups.KindFood:
		return rl.Color{R: 230, G: 190, B: 80, A: 255}
	case pickups.KindHammer:
		return rl.Color{R: 160, G: 160, B: 170, A: 255}
	case pickups.KindBasket:
		return rl.Color{R: 180, G: 130, B: 70, A: 255}
	default:
		return rl.Blank
	}
}

// ItemLabel returns the one-letter glyph drawn on a pickup.
func ItemLabel(k pickups.Kind) string {
	switch k {
	case pickups.KindFood:
		return "F"
	case pickups.KindHammer:
		return "H"
	case pickups.KindBasket:
		return "B"
	default:
		return ""
	}
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
