package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/render"
)

func newTestEngine(t *testing.T, width, height int) (*Engine, *render.Framebuffer) {
	t.Helper()
	e, err := New(DefaultConfig(), width, height)
	if err != nil {
		t.Fatal(err)
	}
	return e, render.NewFramebuffer(width, height)
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min zoom", func(c *Config) { c.MinZoom = 0 }},
		{"inverted zoom bounds", func(c *Config) { c.MinZoom = 5; c.MaxZoom = 1 }},
		{"zero FPS smoothing", func(c *Config) { c.FPSSmoothing = 0 }},
		{"FPS smoothing above one", func(c *Config) { c.FPSSmoothing = 1.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, 100, 100); err == nil {
				t.Error("New succeeded, want error")
			}
		})
	}
}

func TestRenderRejectsBadInputs(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	t.Run("nil framebuffer", func(t *testing.T) {
		if _, err := e.Render(nil, 0.016, 0, false, false); err == nil {
			t.Error("nil framebuffer accepted")
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		small := render.NewFramebuffer(50, 50)
		_, err := e.Render(small, 0.016, 0, false, false)
		if err == nil {
			t.Fatal("mismatched framebuffer accepted")
		}
		if !strings.Contains(err.Error(), "OnResize") {
			t.Errorf("error %q does not point at OnResize", err)
		}
	})

	t.Run("negative delta time", func(t *testing.T) {
		if _, err := e.Render(fb, -0.016, 0, false, false); err == nil {
			t.Error("negative delta time accepted")
		}
	})
}

func TestRenderAdvancesRotation(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	m, err := e.Render(fb, 0.5, 0, false, false)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if want := cfg.AngularVelocityX * 0.5; math.Abs(m.AngleX-want) > 1e-12 {
		t.Errorf("AngleX = %v, want %v", m.AngleX, want)
	}
	if want := cfg.AngularVelocityY * 0.5; math.Abs(m.AngleY-want) > 1e-12 {
		t.Errorf("AngleY = %v, want %v", m.AngleY, want)
	}
}

func TestRenderPausedFreezesRotation(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	before, err := e.Render(fb, 0.25, 0, false, false)
	if err != nil {
		t.Fatal(err)
	}

	for _, dt := range []float64{0.016, 0.5, 3} {
		m, err := e.Render(fb, dt, 0, true, false)
		if err != nil {
			t.Fatal(err)
		}
		if m.AngleX != before.AngleX || m.AngleY != before.AngleY {
			t.Fatalf("rotation advanced while paused: (%v, %v) vs (%v, %v)",
				m.AngleX, m.AngleY, before.AngleX, before.AngleY)
		}
		if !m.Paused {
			t.Fatal("Metrics.Paused = false during paused frame")
		}
	}
}

func TestRenderZoomWhilePaused(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	m, err := e.Render(fb, 0.016, 2, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if m.Zoom == 1 {
		t.Error("zoom delta ignored while paused")
	}
}

func TestRenderClampsZoom(t *testing.T) {
	cfg := DefaultConfig()
	e, fb := newTestEngine(t, 100, 100)

	for range 200 {
		if _, err := e.Render(fb, 0.016, 50, false, false); err != nil {
			t.Fatal(err)
		}
	}
	m, _ := e.Render(fb, 0.016, 50, false, false)
	if m.Zoom != cfg.MaxZoom {
		t.Errorf("Zoom = %v after repeated zoom in, want max %v", m.Zoom, cfg.MaxZoom)
	}

	for range 200 {
		if _, err := e.Render(fb, 0.016, -50, false, false); err != nil {
			t.Fatal(err)
		}
	}
	m, _ = e.Render(fb, 0.016, -50, false, false)
	if m.Zoom != cfg.MinZoom {
		t.Errorf("Zoom = %v after repeated zoom out, want min %v", m.Zoom, cfg.MinZoom)
	}
}

func TestRenderWrapsAngles(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	var m Metrics
	var err error
	for range 100 {
		m, err = e.Render(fb, 1, 0, false, false)
		if err != nil {
			t.Fatal(err)
		}
	}
	if m.AngleX < 0 || m.AngleX >= 2*math.Pi {
		t.Errorf("AngleX = %v, want [0, 2π)", m.AngleX)
	}
	if m.AngleY < 0 || m.AngleY >= 2*math.Pi {
		t.Errorf("AngleY = %v, want [0, 2π)", m.AngleY)
	}
}

func TestRenderFrontFaceLighting(t *testing.T) {
	// At rest the front face (+Z, green) faces both the camera and the
	// light at (0, 0, 5). A pixel near the face center must come out
	// brighter than one near a corner, and both must stay pure green.
	e, fb := newTestEngine(t, 200, 200)

	if _, err := e.Render(fb, 0, 0, false, false); err != nil {
		t.Fatal(err)
	}

	// The cube projects onto [50, 150] squared; see the transform
	// stage's scale of min(w, h)/4.
	center := fb.GetPixel(75, 100)
	corner := fb.GetPixel(55, 143)

	for name, p := range map[string]render.Color{"center": center, "corner": corner} {
		if p.R != 0 || p.B != 0 {
			t.Errorf("%s pixel = %v, want pure green", name, p)
		}
		if p.G == 0 {
			t.Errorf("%s pixel unlit", name)
		}
	}
	if center.G <= corner.G {
		t.Errorf("center green %d not brighter than corner green %d", center.G, corner.G)
	}
}

func TestRenderDepthOcclusion(t *testing.T) {
	// At rest only the front face is visible; the back face (red) is
	// occluded everywhere and the side faces are edge-on.
	e, fb := newTestEngine(t, 200, 200)

	if _, err := e.Render(fb, 0, 0, false, false); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if p := fb.GetPixel(x, y); p.R > 0 && p.G == 0 && p.B == 0 {
				t.Fatalf("back face visible at (%d, %d): %v", x, y, p)
			}
		}
	}
}

func TestOnResize(t *testing.T) {
	e, fb := newTestEngine(t, 800, 600)

	if _, err := e.Render(fb, 0.016, 0, false, false); err != nil {
		t.Fatal(err)
	}

	if err := e.OnResize(400, 300); err != nil {
		t.Fatal(err)
	}

	small := render.NewFramebuffer(400, 300)
	if _, err := e.Render(small, 0.016, 0, false, false); err != nil {
		t.Errorf("render after resize failed: %v", err)
	}

	if _, err := e.Render(fb, 0.016, 0, false, false); err == nil {
		t.Error("stale framebuffer accepted after resize")
	}

	if err := e.OnResize(0, 10); err == nil {
		t.Error("OnResize(0, 10) succeeded, want error")
	}
}

func TestRenderMetrics(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	m, err := e.Render(fb, 0.1, 0, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if m.TrianglesDrawn != 12 {
		t.Errorf("TrianglesDrawn = %d, want 12", m.TrianglesDrawn)
	}
	if !m.Debug {
		t.Error("Metrics.Debug = false, want true")
	}
	if m.FPS != 10 {
		t.Errorf("FPS after first 0.1s frame = %v, want 10", m.FPS)
	}

	e.SetWireframe(true)
	m, err = e.Render(fb, 0.1, 0, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if m.TrianglesDrawn != 0 {
		t.Errorf("TrianglesDrawn = %d in wireframe mode, want 0", m.TrianglesDrawn)
	}
	if !m.Wireframe {
		t.Error("Metrics.Wireframe = false, want true")
	}
}

func TestWireframeDrawsEdges(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)
	e.SetWireframe(true)

	if _, err := e.Render(fb, 0, 0, false, false); err != nil {
		t.Fatal(err)
	}

	white := 0
	for _, p := range fb.Pixels {
		if p == render.ColorWhite {
			white++
		}
	}
	if white == 0 {
		t.Error("wireframe frame contains no edge pixels")
	}
}

func TestReset(t *testing.T) {
	e, fb := newTestEngine(t, 100, 100)

	e.Rotate(1, 2)
	e.Translate(10, -5)
	e.SetWireframe(true)
	e.SetLightPosition(DefaultConfig().LightPosition.Scale(2))
	if _, err := e.Render(fb, 0.5, 10, false, false); err != nil {
		t.Fatal(err)
	}

	e.Reset()
	m, err := e.Render(fb, 0, 0, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if m.AngleX != 0 || m.AngleY != 0 {
		t.Errorf("angles after reset = (%v, %v), want (0, 0)", m.AngleX, m.AngleY)
	}
	if m.Zoom != 1 {
		t.Errorf("zoom after reset = %v, want 1", m.Zoom)
	}
	if m.Translation != (math3d.Vec2{}) {
		t.Errorf("translation after reset = %v, want zero", m.Translation)
	}
	if m.Wireframe {
		t.Error("wireframe still on after reset")
	}
	if m.Light != DefaultConfig().LightPosition {
		t.Errorf("light after reset = %v, want %v", m.Light, DefaultConfig().LightPosition)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{3 * math.Pi, math.Pi},
		{-math.Pi / 2, 3 * math.Pi / 2},
	}
	for _, tc := range tests {
		if got := wrapAngle(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("wrapAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	e, err := New(DefaultConfig(), 200, 200)
	if err != nil {
		b.Fatal(err)
	}
	fb := render.NewFramebuffer(200, 200)

	for b.Loop() {
		if _, err := e.Render(fb, 0.016, 0, false, false); err != nil {
			b.Fatal(err)
		}
	}
}
