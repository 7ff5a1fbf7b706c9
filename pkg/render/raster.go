package render

import (
	"math"

	"github.com/taigrr/spincube/pkg/math3d"
)

// ScreenTriangle is one triangle after the transform stage: projected
// screen positions plus the per-vertex attributes interpolated during
// rasterization. Rebuilt every frame, owned by that frame's render pass.
type ScreenTriangle struct {
	Screen [3]math3d.Vec2 // pixel coordinates
	Depth  [3]float64     // camera-space depth, smaller is nearer
	Normal [3]math3d.Vec3 // world-space unit normals
	World  [3]math3d.Vec3 // world-space positions (pre-projection)
	Color  Color          // base face color
}

// Rasterizer scan-converts screen triangles into a framebuffer,
// resolving visibility through a depth buffer. Triangle submission
// order does not affect the final image: the depth test is the sole
// arbiter.
type Rasterizer struct {
	depth *DepthBuffer
}

// NewRasterizer creates a rasterizer writing depth into depth.
func NewRasterizer(depth *DepthBuffer) *Rasterizer {
	return &Rasterizer{depth: depth}
}

// edgeFunction returns twice the signed area of triangle (a, b, p).
// Positive when (a, b, p) winds clockwise on screen (Y grows downward).
func edgeFunction(a, b, p math3d.Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// topLeft reports whether edge a→b is a top or left edge of a
// positive-area triangle. Pixels landing exactly on such an edge count
// as covered; on any other edge they do not, so an edge shared by two
// triangles is filled exactly once.
func topLeft(a, b math3d.Vec2) bool {
	dy := b.Y - a.Y
	return dy < 0 || (dy == 0 && b.X > a.X)
}

// covered applies the fill rule to one edge-function value.
func covered(w float64, a, b math3d.Vec2) bool {
	if w != 0 {
		return w > 0
	}
	return topLeft(a, b)
}

// Fill rasterizes tri into fb: bounding-box iteration with barycentric
// coverage tests, per-pixel depth testing, and per-pixel lighting.
// Degenerate (zero-area) triangles contribute no pixels; triangles
// outside the buffer are skipped before any per-pixel work.
func (r *Rasterizer) Fill(fb *Framebuffer, tri ScreenTriangle, light PointLight) {
	area := edgeFunction(tri.Screen[0], tri.Screen[1], tri.Screen[2])
	if area == 0 {
		return
	}
	if area < 0 {
		// Normalize winding so the fill rule sees a positive area.
		// Visibility comes from the depth test, not the orientation.
		tri.Screen[1], tri.Screen[2] = tri.Screen[2], tri.Screen[1]
		tri.Depth[1], tri.Depth[2] = tri.Depth[2], tri.Depth[1]
		tri.Normal[1], tri.Normal[2] = tri.Normal[2], tri.Normal[1]
		tri.World[1], tri.World[2] = tri.World[2], tri.World[1]
		area = -area
	}

	minX := int(math.Floor(min3(tri.Screen[0].X, tri.Screen[1].X, tri.Screen[2].X)))
	maxX := int(math.Ceil(max3(tri.Screen[0].X, tri.Screen[1].X, tri.Screen[2].X)))
	minY := int(math.Floor(min3(tri.Screen[0].Y, tri.Screen[1].Y, tri.Screen[2].Y)))
	maxY := int(math.Ceil(max3(tri.Screen[0].Y, tri.Screen[1].Y, tri.Screen[2].Y)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return // entirely off the buffer
	}

	invArea := 1 / area

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5)

			w0 := edgeFunction(tri.Screen[1], tri.Screen[2], p)
			w1 := edgeFunction(tri.Screen[2], tri.Screen[0], p)
			w2 := edgeFunction(tri.Screen[0], tri.Screen[1], p)

			if !covered(w0, tri.Screen[1], tri.Screen[2]) ||
				!covered(w1, tri.Screen[2], tri.Screen[0]) ||
				!covered(w2, tri.Screen[0], tri.Screen[1]) {
				continue
			}

			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea

			z := b0*tri.Depth[0] + b1*tri.Depth[1] + b2*tri.Depth[2]
			if !r.depth.TestAndSet(x, y, z) {
				continue // occluded
			}

			normal := tri.Normal[0].Scale(b0).
				Add(tri.Normal[1].Scale(b1)).
				Add(tri.Normal[2].Scale(b2))
			pos := tri.World[0].Scale(b0).
				Add(tri.World[1].Scale(b1)).
				Add(tri.World[2].Scale(b2))

			fb.SetPixel(x, y, light.Shade(normal, pos, tri.Color))
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
