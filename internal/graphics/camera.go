package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a keyboard movement direction relative to the camera
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

const (
	defaultYaw         = -90.0
	defaultSpeed       = 2.5
	defaultSensitivity = 0.1
	defaultZoom        = 45.0
	minZoom            = 1.0
	maxZoom            = 45.0
	maxPitch           = 89.0
)

// Camera is a first-person fly camera that builds the view and projection matrices
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	// Euler angles in degrees
	Yaw   float32
	Pitch float32

	MovementSpeed    float32
	MouseSensitivity float32
	// Zoom is the vertical field of view in degrees
	Zoom float32

	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera places a camera at position looking down -Z
func NewCamera(position mgl32.Vec3, width, height int) *Camera {
	c := &Camera{
		Position:         position,
		WorldUp:          mgl32.Vec3{0, 1, 0},
		Yaw:              defaultYaw,
		MovementSpeed:    defaultSpeed,
		MouseSensitivity: defaultSensitivity,
		Zoom:             defaultZoom,
		AspectRatio:      float32(width) / float32(height),
		NearPlane:        0.1,
		FarPlane:         100.0,
	}
	c.updateVectors()
	return c
}

// ViewMatrix returns the world-to-view transform
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns the perspective projection for the current zoom
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ProcessKeyboard moves the camera along its own axes
func (c *Camera) ProcessKeyboard(dir Direction, dt float32) {
	velocity := c.MovementSpeed * dt
	switch dir {
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

// ProcessMouseMovement turns the camera by a cursor delta; positive yOffset looks up
func (c *Camera) ProcessMouseMovement(xOffset, yOffset float32, constrainPitch bool) {
	c.Yaw += xOffset * c.MouseSensitivity
	c.Pitch += yOffset * c.MouseSensitivity

	if constrainPitch {
		c.Pitch = clamp(c.Pitch, -maxPitch, maxPitch)
	}
	c.updateVectors()
}

// ProcessMouseScroll narrows or widens the field of view
func (c *Camera) ProcessMouseScroll(yOffset float32) {
	c.Zoom = clamp(c.Zoom-yOffset, minZoom, maxZoom)
}

// SetFront points the camera along front, deriving yaw and pitch so later
// mouse movement continues from the restored orientation
func (c *Camera) SetFront(front mgl32.Vec3) {
	if front.Len() == 0 {
		return
	}
	f := front.Normalize()
	c.Pitch = clamp(mgl32.RadToDeg(float32(math.Asin(float64(f.Y())))), -maxPitch, maxPitch)
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(f.Z()), float64(f.X()))))
	c.updateVectors()
}

// SetViewport updates the aspect ratio used by the projection
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MouseLook turns absolute cursor positions into per-event deltas.
// The first event only records the position so the camera doesn't jump.
type MouseLook struct {
	seen  bool
	lastX float64
	lastY float64
}

// Delta returns the cursor movement since the previous event.
// The y offset is reversed since window coordinates grow downward.
func (m *MouseLook) Delta(x, y float64) (float32, float32) {
	if !m.seen {
		m.lastX, m.lastY = x, y
		m.seen = true
		return 0, 0
	}
	dx := x - m.lastX
	dy := m.lastY - y
	m.lastX, m.lastY = x, y
	return float32(dx), float32(dy)
}

// Reset makes the next event a fresh starting point, e.g. after the cursor is recaptured
func (m *MouseLook) Reset() {
	m.seen = false
}
