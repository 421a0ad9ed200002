package camera

import "github.com/go-gl/mathgl/mgl32"

// Projection is a perspective projection whose aspect ratio follows the
// viewport.
type Projection struct {
	FOV       float32 // vertical, degrees
	NearPlane float32
	FarPlane  float32

	aspect        float32
	width, height int
}

func NewProjection(width, height int) *Projection {
	p := &Projection{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		aspect:    1,
	}
	p.SetViewport(width, height)
	return p
}

// SetViewport updates the aspect ratio. Degenerate sizes are ignored.
func (p *Projection) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.width, p.height = width, height
	p.aspect = float32(width) / float32(height)
}

func (p *Projection) Aspect() float32 { return p.aspect }

// Viewport returns the size the aspect ratio was derived from.
func (p *Projection) Viewport() (int, int) { return p.width, p.height }

func (p *Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FOV), p.aspect, p.NearPlane, p.FarPlane)
}
