package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"learngl/scene"
)

func init() {
	runtime.LockOSThread()
}

// Window is a glfw window with a current OpenGL 4.1 core context.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	// OnResize, when set, is called with the new framebuffer size.
	OnResize func(width, height int)
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      800,
		Height:     600,
		Title:      "LearnOpenGL",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}

// NewWindow opens a window and makes its context current on the calling
// thread, which must be the main thread.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(config.VSync))

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.OnResize != nil {
			window.OnResize(width, height)
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// Aspect returns the framebuffer width over height, or 1 while minimised.
func (w *Window) Aspect() float32 {
	fw, fh := w.GetFramebufferSize()
	if fw <= 0 || fh <= 0 {
		return 1
	}
	return float32(fw) / float32(fh)
}

// Time returns seconds since the window system was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// CaptureCursor hides the cursor and keeps it in the window, giving
// unbounded relative motion for mouse look.
func (w *Window) CaptureCursor(capture bool) {
	mode := glfw.CursorNormal
	if capture {
		mode = glfw.CursorDisabled
	}
	w.Handle.SetInputMode(glfw.CursorMode, mode)
}

// AttachFreeLook routes cursor and scroll events to f.
func (w *Window) AttachFreeLook(f *scene.FreeLook) {
	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		f.CursorPos(x, y)
	})
	w.Handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		f.Scroll(yoff)
	})
}

var movementKeys = [...]struct {
	key int
	dir scene.Movement
}{
	{KeyW, scene.Forward},
	{KeyS, scene.Backward},
	{KeyA, scene.Left},
	{KeyD, scene.Right},
}

// HeldMovements returns the camera directions whose keys are down.
func (w *Window) HeldMovements() []scene.Movement {
	var held []scene.Movement
	for _, m := range movementKeys {
		if w.IsKeyPressed(m.key) {
			held = append(held, m.dir)
		}
	}
	return held
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeyA      = int(glfw.KeyA)
	KeyD      = int(glfw.KeyD)
	KeyR      = int(glfw.KeyR)
	KeyS      = int(glfw.KeyS)
	KeyW      = int(glfw.KeyW)
	KeyEscape = int(glfw.KeyEscape)
)
