package scene

// FreeLook turns raw window input into Camera calls: cursor positions
// become pitch/yaw offsets, scroll becomes zoom and held movement keys
// move the camera by a frame's delta time.
type FreeLook struct {
	Camera *Camera

	primed       bool
	lastX, lastY float64
}

// NewFreeLook returns a mapper driving cam.
func NewFreeLook(cam *Camera) *FreeLook {
	return &FreeLook{Camera: cam}
}

// CursorPos handles an absolute cursor position in screen coordinates
// (Y grows downwards). The first sample after construction or Reset only
// records the position, so the camera does not jump.
func (f *FreeLook) CursorPos(x, y float64) {
	if !f.primed {
		f.lastX, f.lastY = x, y
		f.primed = true
	}
	dx := x - f.lastX
	dy := f.lastY - y
	f.lastX, f.lastY = x, y

	if dx == 0 && dy == 0 {
		return
	}
	f.Camera.ProcessMouseMovement(float32(dx), float32(dy), true)
}

// Scroll handles a vertical scroll offset.
func (f *FreeLook) Scroll(yOffset float64) {
	f.Camera.ProcessMouseScroll(float32(yOffset))
}

// Move applies every held direction for a frame lasting dt seconds.
func (f *FreeLook) Move(dt float32, held ...Movement) {
	for _, m := range held {
		f.Camera.ProcessKeyboard(m, dt)
	}
}

// Reset makes the next cursor sample a fresh starting point, e.g. after
// the cursor is recaptured.
func (f *FreeLook) Reset() { f.primed = false }
