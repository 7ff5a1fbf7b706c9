// Package models provides the fixed cube geometry rendered by spincube.
package models

import (
	"image/color"

	"github.com/taigrr/spincube/pkg/math3d"
)

// Quad is one cube face: four vertex indices in outward winding order
// plus the outward unit face normal.
type Quad struct {
	V      [4]int
	Normal math3d.Vec3
}

// Cube is the immutable unit cube: 8 corners at (±1, ±1, ±1), 6 quad
// faces that split into 12 triangles, and 12 edges for wireframe mode.
// Construct it once with NewCube and share it; nothing mutates it.
type Cube struct {
	Vertices [8]math3d.Vec3
	// Normals holds smoothed per-vertex normals: the average of the
	// three face normals meeting at each corner (the corner diagonals).
	Normals [8]math3d.Vec3
	Quads   [6]Quad
	Edges   [12][2]int
	// Colors holds the base color of each quad, indexed like Quads.
	Colors [6]color.RGBA
}

// NewCube builds the cube geometry.
func NewCube() *Cube {
	c := &Cube{
		Vertices: [8]math3d.Vec3{
			{X: -1, Y: -1, Z: -1}, // 0
			{X: 1, Y: -1, Z: -1},  // 1
			{X: 1, Y: 1, Z: -1},   // 2
			{X: -1, Y: 1, Z: -1},  // 3
			{X: -1, Y: -1, Z: 1},  // 4
			{X: 1, Y: -1, Z: 1},   // 5
			{X: 1, Y: 1, Z: 1},    // 6
			{X: -1, Y: 1, Z: 1},   // 7
		},
		Quads: [6]Quad{
			{V: [4]int{0, 1, 2, 3}}, // back   (-Z)
			{V: [4]int{5, 4, 7, 6}}, // front  (+Z)
			{V: [4]int{4, 0, 3, 7}}, // left   (-X)
			{V: [4]int{1, 5, 6, 2}}, // right  (+X)
			{V: [4]int{4, 5, 1, 0}}, // bottom (-Y)
			{V: [4]int{3, 2, 6, 7}}, // top    (+Y)
		},
		Edges: [12][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back face
			{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front face
			{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting edges
		},
		Colors: [6]color.RGBA{
			{255, 0, 0, 255},   // red
			{0, 255, 0, 255},   // green
			{0, 0, 255, 255},   // blue
			{255, 255, 0, 255}, // yellow
			{255, 0, 255, 255}, // magenta
			{0, 255, 255, 255}, // cyan
		},
	}

	// Face normals from the winding, then smoothed vertex normals by
	// accumulating each face's normal onto its corners.
	for i := range c.Quads {
		q := &c.Quads[i]
		v0 := c.Vertices[q.V[0]]
		v1 := c.Vertices[q.V[1]]
		v2 := c.Vertices[q.V[2]]
		q.Normal = v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
		for _, vi := range q.V {
			c.Normals[vi] = c.Normals[vi].Add(q.Normal)
		}
	}
	for i := range c.Normals {
		c.Normals[i] = c.Normals[i].Normalize()
	}

	return c
}

// TriangleCount returns the number of triangles (two per quad).
func (c *Cube) TriangleCount() int {
	return len(c.Quads) * 2
}

// Triangle returns the vertex indices of triangle i. Quad (a, b, c, d)
// splits into (a, b, c) and (a, c, d).
func (c *Cube) Triangle(i int) [3]int {
	q := c.Quads[i/2]
	if i%2 == 0 {
		return [3]int{q.V[0], q.V[1], q.V[2]}
	}
	return [3]int{q.V[0], q.V[2], q.V[3]}
}

// TriangleColor returns the base color of triangle i (its quad's color).
func (c *Cube) TriangleColor(i int) color.RGBA {
	return c.Colors[i/2]
}
