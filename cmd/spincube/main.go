// spincube - Spinning Lit Cube for Your Terminal
// A software-rendered 3D cube with per-pixel lighting, no GPU required.
//
// Controls:
//
//	Left drag   - Spin the cube (with momentum)
//	Right drag  - Move the cube on screen
//	Scroll      - Zoom in/out
//	P           - Pause/resume rotation
//	W           - Toggle wireframe mode
//	D           - Toggle debug overlay (FPS, angles, zoom)
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	S           - Save a PNG screenshot
//	R           - Reset view
//	Q/Esc       - Quit (Esc cancels light mode first)
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/spincube/pkg/engine"
	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/render"
)

var (
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	bgColor    = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	startDebug = flag.Bool("debug", false, "Start with the debug overlay on")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "spincube - Spinning Lit Cube for Your Terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: spincube [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Left drag   - Spin the cube\n")
		fmt.Fprintf(os.Stderr, "  Right drag  - Move the cube\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  P           - Pause/resume\n")
		fmt.Fprintf(os.Stderr, "  W           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  D           - Toggle debug overlay\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  S           - Save screenshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// DragAxis tracks drag velocity for one rotation axis with spring decay
type DragAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewDragAxis creates an axis with harmonica spring for smooth velocity decay
func NewDragAxis(fps int) DragAxis {
	return DragAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update decays velocity toward 0 using the spring and returns the
// step to apply this frame
func (a *DragAxis) Update() float64 {
	step := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// DragState holds drag-induced spin with harmonica spring physics
type DragState struct {
	Pitch, Yaw DragAxis
	fps        int
}

func NewDragState(fps int) *DragState {
	return &DragState{
		Pitch: NewDragAxis(fps),
		Yaw:   NewDragAxis(fps),
		fps:   fps,
	}
}

func (d *DragState) ApplyImpulse(pitch, yaw float64) {
	d.Pitch.Velocity += pitch
	d.Yaw.Velocity += yaw
}

func (d *DragState) Reset() {
	d.Pitch = NewDragAxis(d.fps)
	d.Yaw = NewDragAxis(d.fps)
}

// ViewState holds host-side UI state shared with the event goroutine
type ViewState struct {
	Paused       bool
	Debug        bool
	Wireframe    bool
	LightMode    bool
	PendingLight math3d.Vec3 // light position while aiming
	SetLight     bool        // light committed this frame
	Screenshot   bool        // screenshot requested this frame
	DoReset      bool        // reset requested this frame
	ZoomDelta    float64     // accumulated wheel ticks since last frame
	TransDX      float64     // accumulated right-drag pixels
	TransDY      float64
}

// ScreenToLight maps a terminal cell position to a light position on a
// hemisphere of the given radius facing the viewer.
func ScreenToLight(screenX, screenY, width, height int, radius float64) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)

	return math3d.V3(nx, -ny, nz).Normalize().Scale(radius)
}

const lightRadius = 5.0

// HUD renders the debug overlay directly to the terminal
type HUD struct{}

// Render draws the overlay rows from the latest frame metrics
func (h *HUD) Render(width, height int, m engine.Metrics, view *ViewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the overlay rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		col := max((width-60)/2, 1)
		fmt.Print(moveTo(height, col) + msg)
		return
	}

	if m.Paused {
		msg := fmt.Sprintf("%s%s%s PAUSED %s", bgBlack, bold, fgYellow, reset)
		col := max((width-8)/2, 1)
		fmt.Print(moveTo(height, col) + msg)
	}

	if !m.Debug {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, m.FPS, reset)

	stats := fmt.Sprintf(" rx %.2f ry %.2f zoom %.2f pan (%.0f,%.0f) light (%.1f,%.1f,%.1f) tris %d ",
		m.AngleX, m.AngleY, m.Zoom, m.Translation.X, m.Translation.Y,
		m.Light.X, m.Light.Y, m.Light.Z, m.TrianglesDrawn)
	col := max(width-len(stats)-1, 1)
	fmt.Print(moveTo(1, col) + bgBlack + fgWhite + stats + reset)
}

func run() error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	cfg := engine.DefaultConfig()
	cfg.Background = render.RGB(bgR, bgG, bgB)
	eng, err := engine.New(cfg, fbWidth, fbHeight)
	if err != nil {
		return err
	}

	drag := NewDragState(*targetFPS)
	view := &ViewState{Debug: *startDebug}
	hud := &HUD{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Mouse state
	var leftDown, rightDown bool
	var lastMouseX, lastMouseY int

	// Resized framebuffers are handed off through this channel so the
	// engine only ever sees them from the main loop.
	resized := make(chan *render.Framebuffer, 1)

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				select {
				case resized <- render.NewFramebuffer(fbWidth, fbHeight):
				default:
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if view.LightMode {
						view.LightMode = false
					} else {
						cancel()
						return
					}
				case ev.MatchString("ctrl+c"), ev.MatchString("q"):
					cancel()
					return
				case ev.MatchString("p"):
					view.Paused = !view.Paused
				case ev.MatchString("d"):
					view.Debug = !view.Debug
				case ev.MatchString("w"):
					view.Wireframe = !view.Wireframe
				case ev.MatchString("r"):
					view.DoReset = true
					view.Wireframe = false
					drag.Reset()
				case ev.MatchString("s"):
					view.Screenshot = true
				case ev.MatchString("l"):
					view.LightMode = true
					view.PendingLight = ScreenToLight(lastMouseX, lastMouseY, width, height, lightRadius)
				}

			case uv.MouseClickEvent:
				switch {
				case view.LightMode:
					view.SetLight = true
					view.LightMode = false
				case ev.Button == uv.MouseLeft:
					leftDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				case ev.Button == uv.MouseRight:
					rightDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				leftDown, rightDown = false, false

			case uv.MouseMotionEvent:
				switch {
				case view.LightMode:
					view.PendingLight = ScreenToLight(ev.X, ev.Y, width, height, lightRadius)
				case leftDown && !view.Paused:
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					drag.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				case rightDown && !view.Paused:
					// Terminal cells are half pixel height in the framebuffer
					view.TransDX += float64(ev.X - lastMouseX)
					view.TransDY += float64(ev.Y-lastMouseY) * 2
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					view.ZoomDelta++
				case uv.MouseWheelDown:
					view.ZoomDelta--
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case newFB := <-resized:
			fb = newFB
			if err := eng.OnResize(fb.Width, fb.Height); err != nil {
				cleanup()
				return err
			}
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Consume one-shot requests from the event goroutine
		if view.DoReset {
			view.DoReset = false
			eng.Reset()
		}
		if view.SetLight {
			view.SetLight = false
			eng.SetLightPosition(view.PendingLight)
		}
		if view.LightMode {
			eng.SetLightPosition(view.PendingLight)
		}
		if view.TransDX != 0 || view.TransDY != 0 {
			eng.Translate(view.TransDX, view.TransDY)
			view.TransDX, view.TransDY = 0, 0
		}
		zoomDelta := view.ZoomDelta
		view.ZoomDelta = 0

		// Drag momentum applies on top of the animated spin
		if !view.Paused {
			pitch := drag.Pitch.Update()
			yaw := drag.Yaw.Update()
			if pitch != 0 || yaw != 0 {
				eng.Rotate(pitch, yaw)
			}
		}
		eng.SetWireframe(view.Wireframe)

		metrics, err := eng.Render(fb, dt, zoomDelta, view.Paused, view.Debug)
		if err != nil {
			cleanup()
			return fmt.Errorf("render: %w", err)
		}

		if view.Screenshot {
			view.Screenshot = false
			name := fmt.Sprintf("spincube-%s.png", time.Now().Format("20060102-150405"))
			if err := fb.SavePNG(name); err != nil {
				cleanup()
				return fmt.Errorf("screenshot: %w", err)
			}
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		hud.Render(width, height, metrics, view)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
