package scene

import (
	"xrndr/internal/transform"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is an opaque GPU texture handle.
type Texture interface {
	Handle() uint32
}

// Target is an off-screen render target: a framebuffer with a color texture
// and a depth/stencil attachment.
type Target interface {
	Width() int
	Height() int
	ColorTexture() Texture
	Release()
}

// Mesh is drawable GPU geometry.
type Mesh interface {
	Draw()
	Release()
}

// Program is a linked shader program.
type Program interface {
	Use()
	SetMatrixGroup(g transform.MatrixGroup)
	SetMat4(name string, m mgl32.Mat4)
	SetVec3(name string, v mgl32.Vec3)
	SetFloat(name string, v float32)
	SetInt(name string, v int32)
	SetBool(name string, v bool)
}

// Device is the slice of GPU state the scene drives between passes.
type Device interface {
	NewTarget(width, height int) (Target, error)
	NewScreenQuad() (Mesh, error)
	// BindTarget makes t the draw target; nil selects the default framebuffer.
	BindTarget(t Target)
	Viewport(width, height int)
	Clear(color mgl32.Vec4)
	SetDepthTest(enabled bool)
	BindTexture(unit uint32, tex Texture)
}

// TextureSource resolves texture paths to shared textures.
type TextureSource interface {
	Acquire(path string) (Texture, error)
	Release(path string)
}
