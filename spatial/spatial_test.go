package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Circle
		want bool
	}{
		{"same center", Circle{r2.Vec{X: 10, Y: 10}, 5}, Circle{r2.Vec{X: 10, Y: 10}, 1}, true},
		{"intersecting", Circle{r2.Vec{X: 0, Y: 0}, 5}, Circle{r2.Vec{X: 8, Y: 0}, 5}, true},
		{"touching", Circle{r2.Vec{X: 0, Y: 0}, 5}, Circle{r2.Vec{X: 10, Y: 0}, 5}, false},
		{"apart", Circle{r2.Vec{X: 0, Y: 0}, 5}, Circle{r2.Vec{X: 30, Y: 40}, 5}, false},
		{"zero radius inside", Circle{r2.Vec{X: 0, Y: 0}, 0}, Circle{r2.Vec{X: 1, Y: 1}, 2}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlap(tc.a, tc.b); got != tc.want {
				t.Errorf("Overlap(a, b) = %v, want %v", got, tc.want)
			}
			// Overlap must be symmetric
			if got := Overlap(tc.b, tc.a); got != tc.want {
				t.Errorf("Overlap(b, a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	d := Distance(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance = %f, want 5", d)
	}
	if DistanceSq(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 4, Y: 5}) != 25 {
		t.Error("DistanceSq should be 25")
	}
}

func TestMoveToward(t *testing.T) {
	from := r2.Vec{X: 0, Y: 0}
	target := r2.Vec{X: 10, Y: 0}

	p, arrived := MoveToward(from, target, 4)
	if arrived {
		t.Error("should not arrive after a 4 unit step")
	}
	if math.Abs(p.X-4) > 1e-9 || p.Y != 0 {
		t.Errorf("position = %v, want (4, 0)", p)
	}

	p, arrived = MoveToward(p, target, 100)
	if !arrived || p != target {
		t.Errorf("expected arrival at target, got %v arrived=%v", p, arrived)
	}

	// Zero step toward self is an arrival
	_, arrived = MoveToward(target, target, 0)
	if !arrived {
		t.Error("moving to own position should arrive")
	}
}

func TestRect(t *testing.T) {
	r := RectFromCenter(r2.Vec{X: 400, Y: 300}, 100, 50)

	if c := r.Center(); c.X != 400 || c.Y != 300 {
		t.Errorf("Center = %v, want (400, 300)", c)
	}
	if r.Width() != 200 || r.Height() != 100 {
		t.Errorf("size = %gx%g, want 200x100", r.Width(), r.Height())
	}
	if !r.Contains(r2.Vec{X: 300, Y: 250}) {
		t.Error("corner should be contained")
	}
	if r.Contains(r2.Vec{X: 299, Y: 300}) {
		t.Error("point left of rect should not be contained")
	}

	if d := r.DistanceOutside(r2.Vec{X: 400, Y: 380}); math.Abs(d-30) > 1e-9 {
		t.Errorf("DistanceOutside below = %f, want 30", d)
	}
	if d := r.DistanceOutside(r2.Vec{X: 400, Y: 300}); d != 0 {
		t.Errorf("DistanceOutside inside = %f, want 0", d)
	}

	in := r.Inset(10)
	if in.Min.X != 310 || in.Max.Y != 340 {
		t.Errorf("Inset = %+v", in)
	}
	collapsed := r.Inset(80)
	if collapsed.Min.Y != 300 || collapsed.Max.Y != 300 {
		t.Errorf("over-inset should collapse Y to center, got %+v", collapsed)
	}
}

func TestRectIntersectsSegment(t *testing.T) {
	r := RectFromCenter(r2.Vec{X: 400, Y: 300}, 100, 50)

	tests := []struct {
		name string
		a, b r2.Vec
		want bool
	}{
		{"straight through", r2.Vec{X: 0, Y: 300}, r2.Vec{X: 800, Y: 300}, true},
		{"ends inside", r2.Vec{X: 0, Y: 300}, r2.Vec{X: 400, Y: 300}, true},
		{"fully inside", r2.Vec{X: 350, Y: 290}, r2.Vec{X: 450, Y: 310}, true},
		{"passes above", r2.Vec{X: 0, Y: 200}, r2.Vec{X: 800, Y: 200}, false},
		{"stops short", r2.Vec{X: 0, Y: 300}, r2.Vec{X: 290, Y: 300}, false},
		{"misses corner", r2.Vec{X: 280, Y: 200}, r2.Vec{X: 320, Y: 240}, false},
		{"clips corner", r2.Vec{X: 290, Y: 250}, r2.Vec{X: 320, Y: 280}, true},
		{"point outside", r2.Vec{X: 100, Y: 100}, r2.Vec{X: 100, Y: 100}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.IntersectsSegment(tc.a, tc.b); got != tc.want {
				t.Errorf("IntersectsSegment(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := r.IntersectsSegment(tc.b, tc.a); got != tc.want {
				t.Errorf("reversed segment = %v, want %v", got, tc.want)
			}
		})
	}
}
