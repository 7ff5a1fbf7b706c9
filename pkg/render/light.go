package render

import (
	"math"

	"github.com/taigrr/spincube/pkg/math3d"
)

// ambientIntensity is the base illumination every surface receives so
// faces turned away from the light stay visible.
const ambientIntensity = 0.1

// minDirLen guards normalization of near-degenerate vectors.
const minDirLen = 1e-9

// PointLight is a single point light in world space.
type PointLight struct {
	Position math3d.Vec3
}

// Shade evaluates the lighting model for one covered pixel: ambient plus
// diffuse proportional to the angle between the surface normal and the
// direction from the surface point to the light. Pure: same inputs, same
// output.
//
// The normal is renormalized here because barycentric blending of unit
// vectors does not preserve unit length. A near-zero interpolated normal
// falls back to +Z (toward the viewer); a light coincident with the
// surface point contributes ambient only.
func (l PointLight) Shade(normal, pos math3d.Vec3, base Color) Color {
	n := normal
	if ln := n.Len(); ln < minDirLen {
		n = math3d.V3(0, 0, 1)
	} else {
		n = n.Scale(1 / ln)
	}

	diffuse := 0.0
	dir := l.Position.Sub(pos)
	if dl := dir.Len(); dl >= minDirLen {
		diffuse = math.Max(0, n.Dot(dir.Scale(1/dl)))
	}

	intensity := ambientIntensity + (1-ambientIntensity)*diffuse
	return scaleColor(base, intensity)
}

// scaleColor multiplies the RGB channels by intensity, clamped to the
// valid range. Alpha is preserved.
func scaleColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(float64(c.R)*intensity, 255)),
		G: uint8(math.Min(float64(c.G)*intensity, 255)),
		B: uint8(math.Min(float64(c.B)*intensity, 255)),
		A: c.A,
	}
}
