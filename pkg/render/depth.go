package render

import (
	"fmt"
	"math"
)

// DepthBuffer records the nearest depth rendered so far at each pixel.
// Smaller values are nearer. Its dimensions must match the framebuffer
// it resolves visibility for; a mismatch is a configuration error the
// engine reports before any pixel is touched.
type DepthBuffer struct {
	Width  int
	Height int
	data   []float64
}

// NewDepthBuffer creates a depth buffer for a width x height pixel grid.
func NewDepthBuffer(width, height int) (*DepthBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid depth buffer size %dx%d", width, height)
	}
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		data:   make([]float64, width*height),
	}
	d.Reset()
	return d, nil
}

// Reset sets every entry to the maximum representable depth. Call once
// at the start of each frame.
func (d *DepthBuffer) Reset() {
	// Copy-doubling fill, faster than a plain loop for large buffers.
	d.data[0] = math.MaxFloat64
	for i := 1; i < len(d.data); i *= 2 {
		copy(d.data[i:], d.data[:i])
	}
}

// At returns the stored depth at (x, y), or the maximum depth out of bounds.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.MaxFloat64
	}
	return d.data[y*d.Width+x]
}

// TestAndSet stores depth at (x, y) and returns true iff it is strictly
// nearer than the stored value. On false the buffer is left untouched.
// Out-of-bounds coordinates always fail the test.
func (d *DepthBuffer) TestAndSet(x, y int, depth float64) bool {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return false
	}
	i := y*d.Width + x
	if depth >= d.data[i] {
		return false
	}
	d.data[i] = depth
	return true
}
