package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func assertOrthonormal(t *testing.T, c *Camera) {
	t.Helper()
	assert.InDelta(t, 1, c.Front.Len(), eps)
	assert.InDelta(t, 1, c.Right.Len(), eps)
	assert.InDelta(t, 1, c.Up.Len(), eps)
	assert.InDelta(t, 0, c.Front.Dot(c.Right), eps)
	assert.InDelta(t, 0, c.Front.Dot(c.Up), eps)
	assert.InDelta(t, 0, c.Right.Dot(c.Up), eps)
}

func TestNewCamera(t *testing.T) {
	c := NewCameraAt(mgl32.Vec3{0, 0, 3})

	assert.Equal(t, DefaultYaw, c.Yaw)
	assert.Equal(t, DefaultPitch, c.Pitch)
	assert.Equal(t, DefaultSpeed, c.MovementSpeed)
	assert.Equal(t, DefaultSensitivity, c.MouseSensitivity)
	assert.Equal(t, DefaultZoom, c.Zoom)

	assertVec3(t, mgl32.Vec3{0, 0, -1}, c.Front)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Right)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Up)
	assertOrthonormal(t, c)
}

func TestViewMatrix(t *testing.T) {
	c := NewCameraAt(mgl32.Vec3{0, 0, 3})
	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	got := c.ViewMatrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps)
	}

	// The camera's position maps to the view-space origin.
	p := got.Mul4x1(c.Position.Vec4(1))
	assertVec3(t, mgl32.Vec3{}, p.Vec3())
}

func TestProcessKeyboard(t *testing.T) {
	c := NewCamera()
	c.ProcessKeyboard(Forward, 1)
	assertVec3(t, mgl32.Vec3{0, 0, -2.5}, c.Position)

	c = NewCamera()
	c.ProcessKeyboard(Right, 0.5)
	assertVec3(t, mgl32.Vec3{1.25, 0, 0}, c.Position)

	c.ProcessKeyboard(Left, 0.5)
	c.ProcessKeyboard(Backward, 0.4)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, c.Position)
}

func TestPitchIsConstrained(t *testing.T) {
	c := NewCamera()
	c.ProcessMouseMovement(0, 10000, true)
	assert.Equal(t, float32(89), c.Pitch)
	assertOrthonormal(t, c)

	c.ProcessMouseMovement(0, -20000, true)
	assert.Equal(t, float32(-89), c.Pitch)
	assertOrthonormal(t, c)
}

func TestPitchUnconstrained(t *testing.T) {
	c := NewCamera()
	c.ProcessMouseMovement(0, 1000, false)
	assert.InDelta(t, 100, c.Pitch, eps)
}

func TestMouseMovementKeepsBasisOrthonormal(t *testing.T) {
	c := NewCamera()
	for _, d := range [][2]float32{{10, 5}, {-300, 120}, {45, -800}, {1234, 17}} {
		c.ProcessMouseMovement(d[0], d[1], true)
		assertOrthonormal(t, c)
	}
	assert.InDelta(t, DefaultYaw+(10-300+45+1234)*DefaultSensitivity, c.Yaw, 1e-3)
}

func TestProcessMouseScroll(t *testing.T) {
	c := NewCamera()
	c.ProcessMouseScroll(5)
	assert.Equal(t, float32(40), c.Zoom)

	for i := 0; i < 100; i++ {
		c.ProcessMouseScroll(1)
	}
	assert.Equal(t, float32(1), c.Zoom)

	c.ProcessMouseScroll(-1000)
	assert.Equal(t, float32(45), c.Zoom)
}

func TestZoomOutOfRangeIsClampedBack(t *testing.T) {
	c := NewCamera()
	c.Zoom = 50
	c.ProcessMouseScroll(1)
	assert.Equal(t, float32(45), c.Zoom)

	c.Zoom = 0
	c.ProcessMouseScroll(-0.5)
	assert.Equal(t, float32(1), c.Zoom)
}

func TestProjectionMatrix(t *testing.T) {
	c := NewCamera()
	c.Zoom = 30
	want := mgl32.Perspective(mgl32.DegToRad(30), 4.0/3.0, 0.1, 100)
	assert.Equal(t, want, c.ProjectionMatrix(4.0/3.0, 0.1, 100))
}

func TestFreeLook(t *testing.T) {
	c := NewCamera()
	f := NewFreeLook(c)

	f.CursorPos(400, 300)
	assert.Equal(t, DefaultYaw, c.Yaw, "first sample only primes the mapper")
	assert.Equal(t, DefaultPitch, c.Pitch)

	// Moving the cursor up the screen (smaller Y) looks up.
	f.CursorPos(410, 280)
	assert.InDelta(t, DefaultYaw+1, c.Yaw, eps)
	assert.InDelta(t, 2, c.Pitch, eps)

	f.Reset()
	f.CursorPos(0, 0)
	assert.InDelta(t, DefaultYaw+1, c.Yaw, eps)

	f.Scroll(2)
	assert.Equal(t, float32(43), c.Zoom)

	before := c.Position
	f.Move(0.1, Forward, Right)
	assert.InDelta(t, c.MovementSpeed*0.1*math.Sqrt2, c.Position.Sub(before).Len(), 1e-4)
}
