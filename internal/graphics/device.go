package graphics

import (
	"xrndr/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device drives the GL state the scene switches between passes. It must be
// used on the thread that owns the GL context.
type Device struct{}

// NewDevice sets the state every pass relies on: less-or-equal depth testing
// so the far-plane screen quad still passes over a cleared depth buffer.
func NewDevice() *Device {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	return &Device{}
}

func (d *Device) NewTarget(width, height int) (scene.Target, error) {
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func (d *Device) NewScreenQuad() (scene.Mesh, error) {
	m, err := NewScreenQuad()
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Device) BindTarget(t scene.Target) {
	if fb, ok := t.(*Framebuffer); ok && fb != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c mgl32.Vec4) {
	gl.ClearColor(c.X(), c.Y(), c.Z(), c.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) BindTexture(unit uint32, tex scene.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if tex == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, tex.Handle())
}
