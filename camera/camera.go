// Package camera maps the bounded play field onto the window.
package camera

// Camera fits the field into the viewport, centered, keeping its aspect
// ratio. Optional extra zoom magnifies around X, Y without leaving the field.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom is the world-to-screen scale; FitZoom shows the whole field
	Zoom    float32
	FitZoom float32
	MaxZoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Field dimensions
	WorldW, WorldH float32
}

// New creates a camera showing the whole field.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		WorldW:  worldW,
		WorldH:  worldH,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// Scale converts a world length to screen pixels.
func (c *Camera) Scale(d float32) float32 {
	return d * c.Zoom
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wy+radius >= minY && wy-radius <= maxY
}

// Resize updates viewport dimensions and refits the field.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.FitZoom = min(viewportW/c.WorldW, viewportH/c.WorldH)
	c.SetZoom(c.Zoom)
}

// SetZoom sets the zoom level, clamped to [FitZoom, FitZoom*MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.FitZoom, c.FitZoom*c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Follow centers the camera on a world point, as far as the field allows.
func (c *Camera) Follow(wx, wy float32) {
	c.X, c.Y = wx, wy
	c.clampCenter()
}

// Reset shows the whole field.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.FitZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the view inside the field on any axis where the view
// is smaller than the field, and centered on the others.
func (c *Camera) clampCenter() {
	if c.Zoom <= 0 {
		return
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.WorldW)
	c.Y = clampAxis(c.Y, halfH, c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
