// Package camera maps the Cartesian world the chain lives in onto screen
// pixels, with pan and zoom of the visible region.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera shows the world rectangle [XMin, XMax] × [YMin, YMax] stretched
// over the viewport. World y points up; screen y points down.
type Camera struct {
	// Visible world bounds
	XMin, XMax, YMin, YMax float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints, relative to the home bounds
	MinZoom, MaxZoom float64

	home [4]float64
}

// New creates a camera showing the given world bounds.
func New(viewportW, viewportH float32, xMin, xMax, yMin, yMax float64) *Camera {
	return &Camera{
		XMin:      xMin,
		XMax:      xMax,
		YMin:      yMin,
		YMax:      yMax,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   8.0,
		home:      [4]float64{xMin, xMax, yMin, yMax},
	}
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	x := float64(c.ViewportW) / (c.XMax - c.XMin) * (p.X - c.XMin)
	y := -float64(c.ViewportH) / (c.YMax - c.YMin) * (p.Y - c.YMax)
	return float32(x), float32(y)
}

// ScreenToWorld converts screen pixels to a world point.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	return r2.Vec{
		X: (c.XMax-c.XMin)/float64(c.ViewportW)*float64(sx) + c.XMin,
		Y: -(c.YMax-c.YMin)/float64(c.ViewportH)*float64(sy) + c.YMax,
	}
}

// PixelsPerUnit returns the smaller of the horizontal and vertical scale, for
// sizing markers that should stay round.
func (c *Camera) PixelsPerUnit() float32 {
	sx := float64(c.ViewportW) / (c.XMax - c.XMin)
	sy := float64(c.ViewportH) / (c.YMax - c.YMin)
	return float32(math.Min(sx, sy))
}

// IsVisible returns true if a circle at p with the given world radius could
// be visible on screen.
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	return p.X+radius >= c.XMin && p.X-radius <= c.XMax &&
		p.Y+radius >= c.YMin && p.Y-radius <= c.YMax
}

// Resize updates viewport dimensions. The visible world bounds are kept, so
// the scene stretches with the window.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	wx := float64(dx) * (c.XMax - c.XMin) / float64(c.ViewportW)
	wy := -float64(dy) * (c.YMax - c.YMin) / float64(c.ViewportH)
	c.XMin += wx
	c.XMax += wx
	c.YMin += wy
	c.YMax += wy
}

// Zoom returns the magnification relative to the home bounds.
func (c *Camera) Zoom() float64 {
	return (c.home[1] - c.home[0]) / (c.XMax - c.XMin)
}

// SetZoom sets the magnification, clamped to min/max, keeping the view centre.
func (c *Camera) SetZoom(zoom float64) {
	zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	cx, cy := (c.XMin+c.XMax)/2, (c.YMin+c.YMax)/2
	halfW := (c.home[1] - c.home[0]) / (2 * zoom)
	halfH := (c.home[3] - c.home[2]) / (2 * zoom)
	c.XMin, c.XMax = cx-halfW, cx+halfW
	c.YMin, c.YMax = cy-halfH, cy+halfH
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom() * factor)
}

// Reset returns the camera to the bounds it was created with.
func (c *Camera) Reset() {
	c.XMin, c.XMax, c.YMin, c.YMax = c.home[0], c.home[1], c.home[2], c.home[3]
}

// VisibleWorldBounds returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	return c.XMin, c.YMin, c.XMax, c.YMax
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
