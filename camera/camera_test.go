package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestWorldToScreen(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)

	testCases := []struct {
		world  r2.Vec
		sx, sy float64
	}{
		{r2.Vec{X: 0, Y: 0}, 250, 250},
		{r2.Vec{X: -10, Y: 10}, 0, 0},
		{r2.Vec{X: 10, Y: -10}, 500, 500},
		{r2.Vec{X: 5, Y: 5}, 375, 125},
	}
	for _, tc := range testCases {
		sx, sy := cam.WorldToScreen(tc.world)
		if !near(float64(sx), tc.sx) || !near(float64(sy), tc.sy) {
			t.Errorf("WorldToScreen(%v) = (%f, %f), want (%f, %f)", tc.world, sx, sy, tc.sx, tc.sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, -10, 10, -10, 10)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(w)
		if !near(float64(sx), float64(tc.sx)) || !near(float64(sy), float64(tc.sy)) {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
		}
	}
}

func TestScreenYPointsDown(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)
	top := cam.ScreenToWorld(250, 0)
	bottom := cam.ScreenToWorld(250, 500)
	if !near(top.Y, 10) || !near(bottom.Y, -10) {
		t.Errorf("top edge y = %f, bottom edge y = %f, want 10 and -10", top.Y, bottom.Y)
	}
}

func TestResizeKeepsBounds(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)
	cam.Resize(1000, 400)

	sx, sy := cam.WorldToScreen(r2.Vec{X: 10, Y: -10})
	if !near(float64(sx), 1000) || !near(float64(sy), 400) {
		t.Errorf("corner at (%f, %f) after resize, want (1000, 400)", sx, sy)
	}
	if got := cam.PixelsPerUnit(); got != 20 {
		t.Errorf("PixelsPerUnit = %f, want 20", got)
	}
}

func TestPan(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)

	// Dragging 25 pixels right and down is one world unit each way.
	cam.Pan(25, 25)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(minX, -9) || !near(maxX, 11) || !near(minY, -11) || !near(maxY, 9) {
		t.Errorf("bounds after pan = (%f, %f, %f, %f)", minX, minY, maxX, maxY)
	}
}

func TestZoomClampsAndKeepsCentre(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)
	cam.Pan(50, 0) // centre now at x = 2

	cam.SetZoom(2)
	if !near(cam.Zoom(), 2) {
		t.Errorf("zoom = %f, want 2", cam.Zoom())
	}
	if !near(cam.XMin, -3) || !near(cam.XMax, 7) || !near(cam.YMin, -5) || !near(cam.YMax, 5) {
		t.Errorf("bounds = (%f, %f, %f, %f)", cam.XMin, cam.XMax, cam.YMin, cam.YMax)
	}

	cam.ZoomBy(100)
	if cam.Zoom() > cam.MaxZoom+1e-9 {
		t.Errorf("zoom %f exceeds max %f", cam.Zoom(), cam.MaxZoom)
	}
	cam.SetZoom(0.001)
	if !near(cam.Zoom(), cam.MinZoom) {
		t.Errorf("zoom %f, want min %f", cam.Zoom(), cam.MinZoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)
	cam.Pan(100, -40)
	cam.ZoomBy(3)
	cam.Reset()

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX != -10 || maxX != 10 || minY != -10 || maxY != 10 {
		t.Errorf("bounds after reset = (%f, %f, %f, %f)", minX, minY, maxX, maxY)
	}
	if cam.Zoom() != 1 {
		t.Errorf("zoom after reset = %f", cam.Zoom())
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(500, 500, -10, 10, -10, 10)

	if !cam.IsVisible(r2.Vec{X: 0, Y: 0}, 0) {
		t.Error("origin should be visible")
	}
	if cam.IsVisible(r2.Vec{X: 20, Y: 0}, 1) {
		t.Error("point far right should not be visible")
	}
	if !cam.IsVisible(r2.Vec{X: 10.5, Y: 0}, 1) {
		t.Error("circle overlapping right edge should be visible")
	}
}
