// spincube-win - Spinning Lit Cube in a Window
// The same software renderer as spincube, blitted into a desktop window.
//
// Controls:
//
//	Left drag   - Spin the cube
//	Right drag  - Move the cube on screen
//	Scroll      - Zoom in/out
//	Arrow keys  - Move the light
//	P           - Pause/resume rotation
//	W           - Toggle wireframe mode
//	D           - Toggle debug overlay
//	S           - Save a PNG screenshot
//	R           - Reset view
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/spincube/pkg/engine"
	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/render"
)

var (
	winWidth   = flag.Int("width", 800, "Window width in pixels")
	winHeight  = flag.Int("height", 600, "Window height in pixels")
	startDebug = flag.Bool("debug", false, "Start with the debug overlay on")
)

var errQuit = errors.New("quit")

// lightStep is how far one arrow key press moves the light, in world units.
const lightStep = 0.5

type game struct {
	eng   *engine.Engine
	fb    *render.Framebuffer
	fbImg *ebiten.Image

	paused    bool
	debug     bool
	wireframe bool
	metrics   engine.Metrics
	renderErr error

	lastFrame time.Time
	dragging  bool
	panning   bool
	lastX     int
	lastY     int
}

func newGame(width, height int) (*game, error) {
	eng, err := engine.New(engine.DefaultConfig(), width, height)
	if err != nil {
		return nil, err
	}
	return &game{
		eng:       eng,
		fb:        render.NewFramebuffer(width, height),
		fbImg:     ebiten.NewImage(width, height),
		debug:     *startDebug,
		lastFrame: time.Now(),
	}, nil
}

func (g *game) Update() error {
	if g.renderErr != nil {
		return g.renderErr
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.wireframe = !g.wireframe
		g.eng.SetWireframe(g.wireframe)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.eng.Reset()
		g.wireframe = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		name := fmt.Sprintf("spincube-%s.png", time.Now().Format("20060102-150405"))
		if err := g.fb.SavePNG(name); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
	}

	// Arrow keys nudge the light around the cube
	light := g.eng.LightPosition()
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		light = light.Add(math3d.V3(-lightStep, 0, 0))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		light = light.Add(math3d.V3(lightStep, 0, 0))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		light = light.Add(math3d.V3(0, lightStep, 0))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		light = light.Add(math3d.V3(0, -lightStep, 0))
	}
	g.eng.SetLightPosition(light)

	g.handleMouse()
	return nil
}

func (g *game) handleMouse() {
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.panning = true
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.panning = false
	}

	if g.paused {
		return
	}
	switch {
	case g.dragging:
		g.eng.Rotate(float64(y-g.lastY)*0.01, float64(x-g.lastX)*0.01)
		g.lastX, g.lastY = x, y
	case g.panning:
		g.eng.Translate(float64(x-g.lastX), float64(y-g.lastY))
		g.lastX, g.lastY = x, y
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	now := time.Now()
	dt := now.Sub(g.lastFrame).Seconds()
	g.lastFrame = now
	if dt > 0.1 {
		dt = 0.1
	}

	_, wheelY := ebiten.Wheel()

	metrics, err := g.eng.Render(g.fb, dt, wheelY, g.paused, g.debug)
	if err != nil {
		// Draw cannot fail; the next Update returns this and ends the game.
		g.renderErr = err
		return
	}
	g.metrics = metrics

	g.fbImg.WritePixels(rgbaBytes(g.fb))
	screen.DrawImage(g.fbImg, nil)

	if g.metrics.Paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.fb.Width/2-20, 8)
	}
	if g.metrics.Debug {
		overlay := fmt.Sprintf("FPS %.0f\nrx %.2f ry %.2f\nzoom %.2f pan (%.0f,%.0f)\nlight (%.1f,%.1f,%.1f)\ntris %d",
			g.metrics.FPS, g.metrics.AngleX, g.metrics.AngleY,
			g.metrics.Zoom, g.metrics.Translation.X, g.metrics.Translation.Y,
			g.metrics.Light.X, g.metrics.Light.Y, g.metrics.Light.Z,
			g.metrics.TrianglesDrawn)
		ebitenutil.DebugPrintAt(screen, overlay, 8, 8)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

// rgbaBytes flattens the framebuffer into the byte layout WritePixels wants.
func rgbaBytes(fb *render.Framebuffer) []byte {
	buf := make([]byte, len(fb.Pixels)*4)
	for i, p := range fb.Pixels {
		buf[i*4+0] = p.R
		buf[i*4+1] = p.G
		buf[i*4+2] = p.B
		buf[i*4+3] = p.A
	}
	return buf
}

func main() {
	flag.Parse()

	g, err := newGame(*winWidth, *winHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("spincube")
	ebiten.SetWindowSize(*winWidth, *winHeight)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
