package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh is a VAO/VBO pair holding an interleaved triangle list.
type Mesh struct {
	vao         uint32
	vbo         uint32
	vertexCount int32
}

// NewMesh uploads vertices laid out as position, normal, uv.
func NewMesh(vertices []float32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%FloatsPerVertex != 0 {
		return nil, fmt.Errorf("mesh: %d floats is not a whole number of vertices", len(vertices))
	}

	m := &Mesh{vertexCount: int32(len(vertices) / FloatsPerVertex)}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(FloatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

func NewScreenQuad() (*Mesh, error) { return NewMesh(ScreenQuadVertices) }

func NewCube() (*Mesh, error) { return NewMesh(CubeVertices()) }

func NewSphere(stacks, slices int) (*Mesh, error) {
	return NewMesh(SphereVertices(stacks, slices))
}

func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.vertexCount)
	gl.BindVertexArray(0)
}

// Release deletes the buffers. Later calls do nothing.
func (m *Mesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	m.vao, m.vbo = 0, 0
}
