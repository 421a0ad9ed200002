package transform

import "github.com/go-gl/mathgl/mgl32"

// MatrixGroup holds the matrices a draw call consumes, derived from the
// tops of the projection, view and model stacks.
type MatrixGroup struct {
	Model               mgl32.Mat4
	ModelView           mgl32.Mat4
	ModelViewProjection mgl32.Mat4
	Normal              mgl32.Mat3
}

func identityGroup() MatrixGroup {
	return MatrixGroup{
		Model:               mgl32.Ident4(),
		ModelView:           mgl32.Ident4(),
		ModelViewProjection: mgl32.Ident4(),
		Normal:              mgl32.Ident3(),
	}
}

// deriveGroup composes projection outermost and model innermost.
// The normal matrix is the upper 3x3 of the inverse transpose of model.
func deriveGroup(projection, view, model mgl32.Mat4) MatrixGroup {
	modelView := view.Mul4(model)
	return MatrixGroup{
		Model:               model,
		ModelView:           modelView,
		ModelViewProjection: projection.Mul4(modelView),
		Normal:              model.Inv().Transpose().Mat3(),
	}
}
