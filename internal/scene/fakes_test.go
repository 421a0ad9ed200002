package scene

import (
	"errors"
	"fmt"

	"xrndr/internal/config"
	"xrndr/internal/transform"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type fakeTexture uint32

func (t fakeTexture) Handle() uint32 { return uint32(t) }

type fakeTarget struct {
	id            int
	width, height int
	released      int
}

func (t *fakeTarget) Width() int            { return t.width }
func (t *fakeTarget) Height() int           { return t.height }
func (t *fakeTarget) ColorTexture() Texture { return fakeTexture(100 + t.id) }
func (t *fakeTarget) Release()              { t.released++ }

type fakeMesh struct {
	draws    int
	released int
	onDraw   func()
}

func (m *fakeMesh) Draw() {
	m.draws++
	if m.onDraw != nil {
		m.onDraw()
	}
}

func (m *fakeMesh) Release() { m.released++ }

type fakeProgram struct {
	uses   int
	groups []transform.MatrixGroup
	vec3s  map[string]mgl32.Vec3
	floats map[string]float32
	ints   map[string]int32
	bools  map[string]bool
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{
		vec3s:  make(map[string]mgl32.Vec3),
		floats: make(map[string]float32),
		ints:   make(map[string]int32),
		bools:  make(map[string]bool),
	}
}

func (p *fakeProgram) Use() { p.uses++ }

func (p *fakeProgram) SetMatrixGroup(g transform.MatrixGroup) {
	p.groups = append(p.groups, g)
}

func (p *fakeProgram) SetMat4(string, mgl32.Mat4)        {}
func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) { p.vec3s[name] = v }
func (p *fakeProgram) SetFloat(name string, v float32)   { p.floats[name] = v }
func (p *fakeProgram) SetInt(name string, v int32)       { p.ints[name] = v }
func (p *fakeProgram) SetBool(name string, v bool)       { p.bools[name] = v }

func (p *fakeProgram) lastGroup() (transform.MatrixGroup, bool) {
	if len(p.groups) == 0 {
		return transform.MatrixGroup{}, false
	}
	return p.groups[len(p.groups)-1], true
}

// fakeDevice records the calls the scene makes, one string per call.
type fakeDevice struct {
	calls      []string
	targets    []*fakeTarget
	quads      []*fakeMesh
	failTarget bool
	failQuad   bool
	onQuadDraw func()
}

func (d *fakeDevice) NewTarget(width, height int) (Target, error) {
	if d.failTarget {
		return nil, errors.New("framebuffer incomplete")
	}
	t := &fakeTarget{id: len(d.targets), width: width, height: height}
	d.targets = append(d.targets, t)
	return t, nil
}

func (d *fakeDevice) NewScreenQuad() (Mesh, error) {
	if d.failQuad {
		return nil, errors.New("out of memory")
	}
	q := &fakeMesh{onDraw: func() {
		if d.onQuadDraw != nil {
			d.onQuadDraw()
		}
	}}
	d.quads = append(d.quads, q)
	return q, nil
}

func (d *fakeDevice) BindTarget(t Target) {
	if t == nil {
		d.calls = append(d.calls, "bind default")
		return
	}
	d.calls = append(d.calls, fmt.Sprintf("bind target %d", t.(*fakeTarget).id))
}

func (d *fakeDevice) Viewport(width, height int) {
	d.calls = append(d.calls, fmt.Sprintf("viewport %dx%d", width, height))
}

func (d *fakeDevice) Clear(mgl32.Vec4) { d.calls = append(d.calls, "clear") }

func (d *fakeDevice) SetDepthTest(enabled bool) {}

func (d *fakeDevice) BindTexture(unit uint32, tex Texture) {
	d.calls = append(d.calls, fmt.Sprintf("texture %d:%d", unit, tex.Handle()))
}

func (d *fakeDevice) lastTarget() *fakeTarget { return d.targets[len(d.targets)-1] }

type fakeTextures struct {
	acquired map[string]int
	released map[string]int
	fail     bool
}

func newFakeTextures() *fakeTextures {
	return &fakeTextures{acquired: make(map[string]int), released: make(map[string]int)}
}

func (f *fakeTextures) Acquire(path string) (Texture, error) {
	if f.fail {
		return nil, errors.New("decode failed")
	}
	f.acquired[path]++
	return fakeTexture(7), nil
}

func (f *fakeTextures) Release(path string) { f.released[path]++ }

type fixture struct {
	scene    *Scene
	dev      *fakeDevice
	geometry *fakeProgram
	debug    *fakeProgram
	post     *fakeProgram
	marker   *fakeMesh
	textures *fakeTextures
}

func newFixture(log *zap.Logger) (*fixture, error) {
	f := &fixture{
		dev:      &fakeDevice{},
		geometry: newFakeProgram(),
		debug:    newFakeProgram(),
		post:     newFakeProgram(),
		marker:   &fakeMesh{},
		textures: newFakeTextures(),
	}
	settings := config.Default()
	settings.Window.Width, settings.Window.Height = 800, 600

	s, err := New(Config{
		Device: f.dev,
		Programs: Programs{
			Geometry:    f.geometry,
			Debug:       f.debug,
			Postprocess: f.post,
		},
		LightMarker: f.marker,
		Textures:    f.textures,
		Settings:    settings,
		Log:         log,
	})
	if err != nil {
		return nil, err
	}
	f.scene = s
	return f, nil
}
