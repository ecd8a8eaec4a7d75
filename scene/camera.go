package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement is a keyboard-style camera movement direction.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
)

// Camera defaults.
const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45

	maxPitch float32 = 89
	minZoom  float32 = 1
	maxZoom  float32 = 45
)

// Camera is a free-flying Euler-angle camera. Yaw and Pitch are in degrees;
// Zoom is the vertical field of view in degrees.
//
// Front, Right and Up are derived from Yaw, Pitch and WorldUp and are kept
// unit length and mutually orthogonal by every method that changes the
// angles. Callers that edit Yaw or Pitch directly must call UpdateVectors.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	Zoom             float32
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera() *Camera {
	return NewCameraAt(mgl32.Vec3{})
}

// NewCameraAt returns a default camera placed at position.
func NewCameraAt(position mgl32.Vec3) *Camera {
	c := &Camera{
		Position:         position,
		Front:            mgl32.Vec3{0, 0, -1},
		WorldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              DefaultYaw,
		Pitch:            DefaultPitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		Zoom:             DefaultZoom,
	}
	c.UpdateVectors()
	return c
}

// ViewMatrix returns the right-handed look-at matrix for the camera.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns a perspective projection using Zoom as the
// vertical field of view.
func (c *Camera) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), aspect, near, far)
}

// ProcessKeyboard moves the camera along Front or Right by
// MovementSpeed*dt. Pitch affects forward motion, so the camera can fly.
func (c *Camera) ProcessKeyboard(direction Movement, dt float32) {
	velocity := c.MovementSpeed * dt
	switch direction {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera by the given cursor offsets scaled
// by MouseSensitivity. A positive yOffset looks up. With constrainPitch the
// pitch stays within [-89, 89] so the view never flips.
func (c *Camera) ProcessMouseMovement(xOffset, yOffset float32, constrainPitch bool) {
	c.Yaw += xOffset * c.MouseSensitivity
	c.Pitch += yOffset * c.MouseSensitivity

	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	}
	c.UpdateVectors()
}

// ProcessMouseScroll narrows the field of view for a positive yOffset.
// Zoom always ends up within [1, 45], even if it started outside.
func (c *Camera) ProcessMouseScroll(yOffset float32) {
	c.Zoom = mgl32.Clamp(c.Zoom-yOffset, minZoom, maxZoom)
}

// UpdateVectors recomputes Front, Right and Up from Yaw and Pitch.
func (c *Camera) UpdateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
