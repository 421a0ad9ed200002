package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout used by every mesh:
// position (3), normal (3), uv (2).
const FloatsPerVertex = 8

// ScreenQuadVertices cover clip space at z = 1, the far plane, as two
// triangles.
var ScreenQuadVertices = []float32{
	-1, -1, 1, 0, 0, 0, 0, 0,
	1, -1, 1, 0, 0, 0, 1, 0,
	1, 1, 1, 0, 0, 0, 1, 1,
	-1, -1, 1, 0, 0, 0, 0, 0,
	1, 1, 1, 0, 0, 0, 1, 1,
	-1, 1, 1, 0, 0, 0, 0, 1,
}

// cubeFaces lists the outward normal and the two in-plane axes of each face.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},   // front
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}}, // back
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // right
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // left
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},  // top
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},  // bottom
}

// CubeVertices returns a unit cube centered on the origin, 36 vertices with
// counter-clockwise winding.
func CubeVertices() []float32 {
	corners := [6][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}

	out := make([]float32, 0, 36*FloatsPerVertex)
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		for _, c := range corners {
			p := n.Mul(0.5).Add(u.Mul(c[0] - 0.5)).Add(v.Mul(c[1] - 0.5))
			out = append(out, p.X(), p.Y(), p.Z(), n.X(), n.Y(), n.Z(), c[0], c[1])
		}
	}
	return out
}

// SphereVertices returns a unit-radius UV sphere as a triangle list.
func SphereVertices(stacks, slices int) []float32 {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}

	point := func(i, j int) [FloatsPerVertex]float32 {
		u := float32(j) / float32(slices)
		v := float32(i) / float32(stacks)
		theta := float64(u) * 2 * math.Pi
		phi := float64(v) * math.Pi
		n := mgl32.Vec3{
			float32(math.Sin(phi) * math.Cos(theta)),
			float32(math.Cos(phi)),
			float32(math.Sin(phi) * math.Sin(theta)),
		}
		return [FloatsPerVertex]float32{n[0], n[1], n[2], n[0], n[1], n[2], u, v}
	}

	out := make([]float32, 0, stacks*slices*6*FloatsPerVertex)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a, b := point(i, j), point(i+1, j)
			c, d := point(i+1, j+1), point(i, j+1)
			for _, p := range [...][FloatsPerVertex]float32{a, c, b, a, d, c} {
				out = append(out, p[:]...)
			}
		}
	}
	return out
}
