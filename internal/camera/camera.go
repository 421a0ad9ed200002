package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying eye described by position, yaw and pitch (degrees).
// It is shared between the scene, which reads View every frame, and input
// handlers, which move it.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	WorldUp  mgl32.Vec3

	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel of mouse motion
}

func New(position mgl32.Vec3) *Camera {
	return &Camera{
		Position:    position,
		Yaw:         -90,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Speed:       5,
		Sensitivity: 0.1,
	}
}

// Front returns the unit viewing direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(c.WorldUp).Normalize()
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Front()).Normalize()
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), c.Up())
}

// Move translates the camera along dir (in camera space: x right, y up,
// z forward) for dt seconds at Speed.
func (c *Camera) Move(dir mgl32.Vec3, dt float32) {
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.Right().Mul(dir.X() * step)).
		Add(c.WorldUp.Mul(dir.Y() * step)).
		Add(c.Front().Mul(dir.Z() * step))
}

// Rotate applies a mouse offset in pixels. Pitch is clamped to ±89°.
func (c *Camera) Rotate(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity

	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}
