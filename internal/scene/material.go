package scene

import "github.com/go-gl/mathgl/mgl32"

// Material holds the per-draw uniforms of a surface. DiffuseMap is a texture
// path resolved through the scene's TextureSource the first time the material
// is bound.
type Material struct {
	Name       string
	Diffuse    mgl32.Vec3
	Specular   mgl32.Vec3
	Shininess  float32
	DiffuseMap string

	texture  Texture
	resolved bool
}

// DefaultMaterial is bound when a part has no material.
var DefaultMaterial = &Material{
	Name:      "default",
	Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
	Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
	Shininess: 32.0,
}

func NewMaterial(name string, diffuse mgl32.Vec3) *Material {
	return &Material{
		Name:      name,
		Diffuse:   diffuse,
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32.0,
	}
}
