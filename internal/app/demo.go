package app

import (
	"fmt"
	"math"

	"xrndr/internal/config"
	"xrndr/internal/graphics"
	"xrndr/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// populate fills the scene with a floor, a ring of cubes and a few lights.
func (a *App) populate(settings config.Settings) error {
	cube, err := graphics.NewCube()
	if err != nil {
		return fmt.Errorf("cube mesh: %w", err)
	}
	a.meshes = append(a.meshes, cube)
	s := a.scene

	floor := scene.NewModel("floor", scene.Part{
		Mesh:     cube,
		Material: scene.NewMaterial("floor", mgl32.Vec3{0.35, 0.35, 0.4}),
	})
	floor.Position = mgl32.Vec3{0, -0.55, 0}
	floor.Scale = mgl32.Vec3{20, 0.1, 20}
	s.AddModel(floor)

	crate := scene.NewMaterial("crate", mgl32.Vec3{1, 1, 1})
	crate.DiffuseMap = "crate.png"

	const ring = 8
	for i := 0; i < ring; i++ {
		angle := float64(i) / ring * 2 * math.Pi
		mat := crate
		if i%2 == 1 {
			hue := float32(i) / ring
			mat = scene.NewMaterial(fmt.Sprintf("cube-%d", i), mgl32.Vec3{hue, 0.6, 1 - hue})
		}
		m := scene.NewModel(fmt.Sprintf("cube-%d", i), scene.Part{Mesh: cube, Material: mat})
		m.Position = mgl32.Vec3{float32(4 * math.Cos(angle)), 0, float32(4 * math.Sin(angle))}
		m.Rotation = mgl32.QuatRotate(float32(angle), mgl32.Vec3{0, 1, 0})
		s.AddModel(m)
	}

	center := scene.NewModel("center", scene.Part{Mesh: cube})
	center.Scale = mgl32.Vec3{1.5, 1.5, 1.5}
	center.Rotation = mgl32.AnglesToQuat(0.4, 0.6, 0, mgl32.XYZ)
	s.AddModel(center)

	colors := []mgl32.Vec3{{1, 0.3, 0.2}, {0.2, 1, 0.4}, {0.3, 0.4, 1}}
	for i, c := range colors {
		l := scene.NewPointLight(mgl32.Vec3{0, 1.5, 0}, c, 1.2)
		l.Radius = 2.5
		l.Speed = 0.6
		l.Offset = float32(i) * 2 * math.Pi / float32(len(colors))
		l.Flicker = settings.LightFlicker
		s.AddPointLight(l)
	}

	sun := scene.NewDirectedLight(mgl32.Vec3{-0.3, -1, -0.2}, mgl32.Vec3{1, 0.95, 0.85}, 0.4)
	sun.Speed = 0.05
	s.AddDirectedLight(sun)

	return nil
}
