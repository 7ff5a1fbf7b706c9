// Package engine orchestrates the spincube frame loop: it owns the
// animation state, runs the transform, rasterization, and lighting
// stages, and reports per-frame metrics. Hosts own the framebuffer and
// the event loop; the engine is single-threaded by contract and holds
// no references to host memory between calls.
package engine

import (
	"fmt"

	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/models"
	"github.com/taigrr/spincube/pkg/render"
)

// Config holds the tunables fixed at engine creation.
type Config struct {
	// Angular velocities in radians per second.
	AngularVelocityX float64
	AngularVelocityY float64

	// Zoom bounds and the multiplier applied per unit of zoom delta.
	MinZoom         float64
	MaxZoom         float64
	ZoomSensitivity float64

	// FPSSmoothing is the exponential moving average weight for the
	// frame rate estimate, in (0, 1].
	FPSSmoothing float64

	LightPosition math3d.Vec3
	Background    render.Color
}

// DefaultConfig returns the standard spincube configuration.
func DefaultConfig() Config {
	return Config{
		AngularVelocityX: 0.625,
		AngularVelocityY: 1.25,
		MinZoom:          0.1,
		MaxZoom:          10,
		ZoomSensitivity:  0.1,
		FPSSmoothing:     0.1,
		LightPosition:    math3d.V3(0, 0, 5),
		Background:       render.RGB(30, 30, 40),
	}
}

// Metrics is a snapshot of engine state after a render call. It is a
// plain value; mutating it has no effect on the engine.
type Metrics struct {
	FPS            float64
	TrianglesDrawn int
	AngleX         float64
	AngleY         float64
	Zoom           float64
	Translation    math3d.Vec2
	Light          math3d.Vec3
	Paused         bool
	Debug          bool
	Wireframe      bool
}

// Engine renders a rotating lit cube into host-provided framebuffers.
type Engine struct {
	cfg    Config
	cube   *models.Cube
	state  TransformState
	depth  *render.DepthBuffer
	raster *render.Rasterizer
	light  render.PointLight

	width     int
	height    int
	wireframe bool
	fps       float64
}

// New creates an engine for a width x height framebuffer.
func New(cfg Config, width, height int) (*Engine, error) {
	if cfg.MinZoom <= 0 || cfg.MaxZoom < cfg.MinZoom {
		return nil, fmt.Errorf("engine: invalid zoom bounds [%g, %g]", cfg.MinZoom, cfg.MaxZoom)
	}
	if cfg.FPSSmoothing <= 0 || cfg.FPSSmoothing > 1 {
		return nil, fmt.Errorf("engine: FPS smoothing %g outside (0, 1]", cfg.FPSSmoothing)
	}
	depth, err := render.NewDepthBuffer(width, height)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		cube:   models.NewCube(),
		state:  TransformState{Zoom: 1},
		depth:  depth,
		raster: render.NewRasterizer(depth),
		light:  render.PointLight{Position: cfg.LightPosition},
		width:  width,
		height: height,
	}, nil
}

// OnResize reallocates the depth buffer for the new framebuffer
// dimensions. The next Render must receive a framebuffer of exactly
// this size.
func (e *Engine) OnResize(width, height int) error {
	depth, err := render.NewDepthBuffer(width, height)
	if err != nil {
		return err
	}
	e.depth = depth
	e.raster = render.NewRasterizer(depth)
	e.width = width
	e.height = height
	return nil
}

// Render draws one frame into fb and returns the post-frame metrics.
//
// deltaTime is the seconds elapsed since the previous frame; while
// paused it does not advance the rotation, but zoom deltas still apply.
// A framebuffer whose size differs from the engine's is a host bug
// (a dropped OnResize) and fails before any pixel is written.
func (e *Engine) Render(fb *render.Framebuffer, deltaTime, zoomDelta float64, paused, debugEnabled bool) (Metrics, error) {
	if fb == nil {
		return Metrics{}, fmt.Errorf("engine: nil framebuffer")
	}
	if fb.Width != e.width || fb.Height != e.height {
		return Metrics{}, fmt.Errorf("engine: framebuffer %dx%d does not match engine %dx%d (missing OnResize?)",
			fb.Width, fb.Height, e.width, e.height)
	}
	if deltaTime < 0 {
		return Metrics{}, fmt.Errorf("engine: negative delta time %g", deltaTime)
	}

	if !paused {
		e.state.AngleX = wrapAngle(e.state.AngleX + e.cfg.AngularVelocityX*deltaTime)
		e.state.AngleY = wrapAngle(e.state.AngleY + e.cfg.AngularVelocityY*deltaTime)
	}
	if zoomDelta != 0 {
		e.state.Zoom = clamp(e.state.Zoom*(1+zoomDelta*e.cfg.ZoomSensitivity), e.cfg.MinZoom, e.cfg.MaxZoom)
	}

	fb.Clear(e.cfg.Background)
	e.depth.Reset()

	p := e.state.project(e.cube, e.width, e.height)

	drawn := 0
	if e.wireframe {
		for _, edge := range e.cube.Edges {
			a, b := p.screen[edge[0]], p.screen[edge[1]]
			fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), render.ColorWhite)
		}
	} else {
		for i := 0; i < e.cube.TriangleCount(); i++ {
			idx := e.cube.Triangle(i)
			tri := render.ScreenTriangle{Color: e.cube.TriangleColor(i)}
			for k := range 3 {
				tri.Screen[k] = p.screen[idx[k]]
				tri.Depth[k] = p.depth[idx[k]]
				tri.Normal[k] = p.normal[idx[k]]
				tri.World[k] = p.world[idx[k]]
			}
			e.raster.Fill(fb, tri, e.light)
			drawn++
		}
	}

	if deltaTime > 0 {
		inst := 1 / deltaTime
		if e.fps == 0 {
			e.fps = inst
		} else {
			e.fps += e.cfg.FPSSmoothing * (inst - e.fps)
		}
	}

	return Metrics{
		FPS:            e.fps,
		TrianglesDrawn: drawn,
		AngleX:         e.state.AngleX,
		AngleY:         e.state.AngleY,
		Zoom:           e.state.Zoom,
		Translation:    e.state.Translation,
		Light:          e.light.Position,
		Paused:         paused,
		Debug:          debugEnabled,
		Wireframe:      e.wireframe,
	}, nil
}

// Rotate applies manual rotation deltas in radians, on top of the
// animated rotation.
func (e *Engine) Rotate(dx, dy float64) {
	e.state.AngleX = wrapAngle(e.state.AngleX + dx)
	e.state.AngleY = wrapAngle(e.state.AngleY + dy)
}

// Translate shifts the cube on screen by (dx, dy) pixels.
func (e *Engine) Translate(dx, dy float64) {
	e.state.Translation = e.state.Translation.Add(math3d.V2(dx, dy))
}

// SetLightPosition moves the point light.
func (e *Engine) SetLightPosition(p math3d.Vec3) {
	e.light.Position = p
}

// LightPosition returns the current light position.
func (e *Engine) LightPosition() math3d.Vec3 {
	return e.light.Position
}

// SetWireframe switches between filled and wireframe rendering.
func (e *Engine) SetWireframe(on bool) {
	e.wireframe = on
}

// Wireframe reports whether wireframe rendering is active.
func (e *Engine) Wireframe() bool {
	return e.wireframe
}

// Reset restores the initial pose: zero rotation, unit zoom, no
// translation, filled rendering, and the configured light position.
func (e *Engine) Reset() {
	e.state = TransformState{Zoom: 1}
	e.light.Position = e.cfg.LightPosition
	e.wireframe = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
