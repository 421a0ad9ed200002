package scene

import "github.com/go-gl/mathgl/mgl32"

// Part is one mesh of a model drawn with one material.
type Part struct {
	Mesh     Mesh
	Material *Material
}

// Model is a shared handle: the scene draws it, while game code or other
// controllers may keep and mutate the same pointer. The scene never releases
// a model's meshes.
type Model struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Parts    []Part
}

func NewModel(name string, parts ...Part) *Model {
	return &Model{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Parts:    parts,
	}
}

// World returns T * R * S.
func (m *Model) World() mgl32.Mat4 {
	translate := mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
	scale := mgl32.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z())
	return translate.Mul4(m.Rotation.Mat4()).Mul4(scale)
}

// Draw binds each part's material through r and draws its mesh.
func (m *Model) Draw(r Renderer) {
	for _, p := range m.Parts {
		mat := p.Material
		if mat == nil {
			mat = DefaultMaterial
		}
		r.SetMaterial(mat)
		p.Mesh.Draw()
	}
}
