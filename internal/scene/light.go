package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxPointLights    = 8
	MaxDirectedLights = 4
)

// PointLight orbits Origin on the XZ plane at Radius. Position and Intensity
// are recomputed from the scene's light phase every geometry pass.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32

	Origin        mgl32.Vec3
	Radius        float32
	Speed         float32 // radians per unit of phase
	Offset        float32 // phase offset, radians
	BaseIntensity float32
	Flicker       float32 // 0 disables noise-driven flicker
}

func NewPointLight(origin, color mgl32.Vec3, intensity float32) PointLight {
	return PointLight{
		Position:      origin,
		Color:         color,
		Intensity:     intensity,
		Origin:        origin,
		Speed:         1,
		BaseIntensity: intensity,
	}
}

func (l *PointLight) animate(phase float32, noise func(float64) float64) {
	angle := float64(phase*l.Speed + l.Offset)
	l.Position = l.Origin.Add(mgl32.Vec3{
		l.Radius * float32(math.Cos(angle)),
		0,
		l.Radius * float32(math.Sin(angle)),
	})

	l.Intensity = l.BaseIntensity
	if l.Flicker > 0 && noise != nil {
		n := float32(noise(float64(phase*4 + l.Offset)))
		l.Intensity = l.BaseIntensity * (1 + l.Flicker*n)
		if l.Intensity < 0 {
			l.Intensity = 0
		}
	}
}

// DirectedLight rotates BaseDirection about the Y axis by Speed radians per
// unit of phase.
type DirectedLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32

	BaseDirection mgl32.Vec3
	Speed         float32
}

func NewDirectedLight(direction, color mgl32.Vec3, intensity float32) DirectedLight {
	d := direction.Normalize()
	return DirectedLight{
		Direction:     d,
		Color:         color,
		Intensity:     intensity,
		BaseDirection: d,
	}
}

func (l *DirectedLight) animate(phase float32) {
	if l.Speed == 0 {
		l.Direction = l.BaseDirection
		return
	}
	rot := mgl32.HomogRotate3DY(phase * l.Speed)
	l.Direction = rot.Mul4x1(l.BaseDirection.Vec4(0)).Vec3().Normalize()
}
