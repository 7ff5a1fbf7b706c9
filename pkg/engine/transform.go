package engine

import (
	"math"

	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/models"
)

// TransformState is the pose applied to the cube each frame: rotation
// angles in radians, a zoom factor, and a screen-space translation in
// pixels.
type TransformState struct {
	AngleX      float64
	AngleY      float64
	Zoom        float64
	Translation math3d.Vec2
}

// projected holds the per-corner results of one transform pass.
type projected struct {
	screen [8]math3d.Vec2
	depth  [8]float64
	world  [8]math3d.Vec3
	normal [8]math3d.Vec3
}

// project rotates, projects, and maps the cube's corners to pixel
// coordinates for a width x height target.
//
// Rotation is Ry(AngleY) then Rx(AngleX) applied right-to-left, so a
// corner v becomes Ry*Rx*v. Normals go through the same rotation only,
// never the projection. The projection is orthographic: the camera sits
// on +Z looking toward -Z, X maps right, Y maps up (flipped into the
// Y-down pixel grid), and depth is the negated rotated Z so smaller
// means nearer.
func (s TransformState) project(c *models.Cube, width, height int) projected {
	rot := math3d.RotateY(s.AngleY).Mul(math3d.RotateX(s.AngleX))
	scale := math.Min(float64(width), float64(height)) / 4 * s.Zoom
	cx := float64(width)/2 + s.Translation.X
	cy := float64(height)/2 + s.Translation.Y

	var p projected
	for i := range c.Vertices {
		w := rot.MulVec3(c.Vertices[i])
		p.world[i] = w
		p.normal[i] = rot.MulVec3Dir(c.Normals[i])
		p.screen[i] = math3d.V2(w.X*scale+cx, cy-w.Y*scale)
		p.depth[i] = -w.Z
	}
	return p
}

// wrapAngle maps an angle into [0, 2π) so angles stay bounded no matter
// how long the animation runs.
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
