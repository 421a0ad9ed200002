package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"xrndr/internal/config"
	"xrndr/internal/transform"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustFixture(t *testing.T) *fixture {
	t.Helper()
	f, err := newFixture(zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func near(a, b mgl32.Vec3) bool { return a.Sub(b).Len() < 1e-4 }

func TestPassSequence(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	var seen []RenderPass
	record := func() { seen = append(seen, s.Pass()) }
	s.AddModel(NewModel("cube", Part{Mesh: &fakeMesh{onDraw: record}}))
	s.AddPointLight(NewPointLight(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 0}, 1))
	f.marker.onDraw = record
	f.dev.onQuadDraw = record

	s.Draw()
	want := []RenderPass{PassGeometry, PassPostprocess}
	if !slices.Equal(seen, want) {
		t.Fatalf("passes without debug: got %v, want %v", seen, want)
	}
	if s.Pass() != PassNone {
		t.Fatalf("Expected PassNone after Draw, got %v", s.Pass())
	}

	seen = nil
	s.ToggleMode()
	s.Draw()
	want = []RenderPass{PassGeometry, PassDebug, PassPostprocess}
	if !slices.Equal(seen, want) {
		t.Fatalf("passes with debug: got %v, want %v", seen, want)
	}
	if s.Pass() != PassNone {
		t.Fatalf("Expected PassNone after Draw, got %v", s.Pass())
	}
}

func TestTargetBindingPerPass(t *testing.T) {
	f := mustFixture(t)
	s := f.scene
	s.AddModel(NewModel("cube", Part{Mesh: &fakeMesh{}}))

	s.Draw()
	want := []string{
		"bind target 0", "viewport 800x600", "clear",
		"bind default", "viewport 800x600", "clear", "texture 0:100",
	}
	if !slices.Equal(f.dev.calls, want) {
		t.Fatalf("device calls:\n got %v\nwant %v", f.dev.calls, want)
	}

	// With the overlay on, the default framebuffer is cleared once, by the debug pass.
	f.dev.calls = nil
	s.ToggleMode()
	s.Draw()
	want = []string{
		"bind target 0", "viewport 800x600", "clear",
		"bind default", "viewport 800x600", "clear",
		"bind default", "viewport 800x600", "texture 0:100",
	}
	if !slices.Equal(f.dev.calls, want) {
		t.Fatalf("device calls with debug:\n got %v\nwant %v", f.dev.calls, want)
	}
}

func TestGeometryReceivesModelViewProjection(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	m := NewModel("cube", Part{Mesh: &fakeMesh{}})
	m.Position = mgl32.Vec3{1, 2, 3}
	m.Scale = mgl32.Vec3{2, 2, 2}
	s.AddModel(m)

	s.Draw()

	g, ok := f.geometry.lastGroup()
	if !ok {
		t.Fatal("geometry program never received a matrix group")
	}
	world := m.World()
	view := s.Camera().View()
	proj := s.Projection().Matrix()
	if g.Model != world {
		t.Errorf("Model: got %v, want %v", g.Model, world)
	}
	if want := proj.Mul4(view.Mul4(world)); g.ModelViewProjection != want {
		t.Errorf("MVP: got %v, want %v", g.ModelViewProjection, want)
	}

	// Scopes are closed once Draw returns.
	if got := s.Stacks().Model().Len(); got != 1 {
		t.Errorf("model stack depth after Draw: got %d, want 1", got)
	}
	if got := s.Stacks().Group().Model; got != mgl32.Ident4() {
		t.Errorf("Expected identity model after Draw, got %v", got)
	}
}

func TestGeometryUploadsMaterialAndLights(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	mat := NewMaterial("red", mgl32.Vec3{1, 0, 0})
	s.AddModel(NewModel("a", Part{Mesh: &fakeMesh{}, Material: mat}))
	s.AddModel(NewModel("b", Part{Mesh: &fakeMesh{}}))
	s.AddPointLight(NewPointLight(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{1, 1, 1}, 2))
	s.AddDirectedLight(NewDirectedLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 0.5))

	s.Draw()

	p := f.geometry
	if p.uses != 2 {
		t.Errorf("Expected geometry program used per draw, got %d", p.uses)
	}
	if got := p.ints["numPointLights"]; got != 1 {
		t.Errorf("numPointLights: got %d, want 1", got)
	}
	if got := p.ints["numDirectedLights"]; got != 1 {
		t.Errorf("numDirectedLights: got %d, want 1", got)
	}
	if got := p.floats["pointLights[0].intensity"]; got != 2 {
		t.Errorf("point light intensity: got %v, want 2", got)
	}
	// The last draw had no material, so the default one was bound.
	if got := p.vec3s["material.diffuse"]; got != DefaultMaterial.Diffuse {
		t.Errorf("Expected default diffuse, got %v", got)
	}
	if p.bools["material.hasDiffuseMap"] {
		t.Error("Expected no diffuse map")
	}
}

func TestDiffuseMapResolvedOnce(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	mat := NewMaterial("brick", mgl32.Vec3{1, 1, 1})
	mat.DiffuseMap = "brick.png"
	s.AddModel(NewModel("wall", Part{Mesh: &fakeMesh{}, Material: mat}))

	s.Draw()
	s.Draw()

	if got := f.textures.acquired["brick.png"]; got != 1 {
		t.Fatalf("acquires: got %d, want 1", got)
	}
	if !f.geometry.bools["material.hasDiffuseMap"] {
		t.Error("Expected diffuse map flag")
	}
	if !slices.Contains(f.dev.calls, "texture 0:7") {
		t.Errorf("Expected diffuse map bound on unit 0, calls %v", f.dev.calls)
	}

	s.Release()
	if got := f.textures.released["brick.png"]; got != 1 {
		t.Fatalf("releases: got %d, want 1", got)
	}
}

func TestDiffuseMapFailureDrawsUntextured(t *testing.T) {
	f := mustFixture(t)
	f.textures.fail = true
	s := f.scene

	mat := NewMaterial("missing", mgl32.Vec3{1, 1, 1})
	mat.DiffuseMap = "missing.png"
	s.AddModel(NewModel("m", Part{Mesh: &fakeMesh{}, Material: mat}))

	s.Draw()
	if f.geometry.bools["material.hasDiffuseMap"] {
		t.Fatal("Expected untextured draw after failed load")
	}
}

func TestDebugMarkerPlacement(t *testing.T) {
	f := mustFixture(t)
	s := f.scene
	s.ToggleMode()

	pos := mgl32.Vec3{2, 1, -3}
	s.AddPointLight(NewPointLight(pos, mgl32.Vec3{0, 1, 0}, 1))

	s.Draw()

	if f.marker.draws != 1 {
		t.Fatalf("marker draws: got %d, want 1", f.marker.draws)
	}
	g, ok := f.debug.lastGroup()
	if !ok {
		t.Fatal("debug program never received a matrix group")
	}
	k := s.markerScale
	want := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(k, k, k))
	if g.Model != want {
		t.Errorf("marker model: got %v, want %v", g.Model, want)
	}
	if got := f.debug.vec3s["color"]; got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("marker color: got %v", got)
	}
	if len(f.geometry.groups) != 0 {
		t.Error("geometry program used during the debug pass")
	}
}

func TestUpdateViewport(t *testing.T) {
	f := mustFixture(t)
	s := f.scene
	old := f.dev.lastTarget()
	oldQuad := f.dev.quads[0]

	if err := s.UpdateViewport(640, 480); err != nil {
		t.Fatalf("UpdateViewport: %v", err)
	}

	nt := f.dev.lastTarget()
	if nt == old || nt.Width() != 640 || nt.Height() != 480 {
		t.Fatalf("Expected a new 640x480 target, got %dx%d", nt.Width(), nt.Height())
	}
	if old.released != 1 || oldQuad.released != 1 {
		t.Fatalf("Expected old target and quad released once, got %d and %d", old.released, oldQuad.released)
	}
	if got, want := s.Projection().Aspect(), float32(640)/480; got != want {
		t.Errorf("aspect: got %v, want %v", got, want)
	}

	f.dev.calls = nil
	s.Draw()
	if f.dev.calls[1] != "viewport 640x480" {
		t.Errorf("Expected geometry viewport 640x480, got %q", f.dev.calls[1])
	}
	if f.dev.calls[4] != "viewport 640x480" {
		t.Errorf("Expected postprocess viewport 640x480, got %q", f.dev.calls[4])
	}

	s.Release()
	s.Release()
	for i, tgt := range f.dev.targets {
		if tgt.released != 1 {
			t.Errorf("target %d released %d times", i, tgt.released)
		}
	}
}

func TestUpdateViewportFailureKeepsState(t *testing.T) {
	f := mustFixture(t)
	s := f.scene
	aspect := s.Projection().Aspect()

	f.dev.failTarget = true
	if err := s.UpdateViewport(320, 200); err == nil {
		t.Fatal("Expected error from failing device")
	}
	f.dev.failTarget = false
	f.dev.failQuad = true
	if err := s.UpdateViewport(320, 200); err == nil {
		t.Fatal("Expected error from failing quad")
	}

	if len(f.dev.targets) != 2 {
		t.Fatalf("Expected one abandoned target, got %d targets", len(f.dev.targets))
	}
	if f.dev.targets[0].released != 0 {
		t.Error("current target was released")
	}
	if f.dev.targets[1].released != 1 {
		t.Error("abandoned target leaked")
	}
	if s.Projection().Aspect() != aspect {
		t.Errorf("aspect changed: got %v, want %v", s.Projection().Aspect(), aspect)
	}
}

func TestUpdateViewportRejectsNonPositive(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	for _, size := range [][2]int{{0, 600}, {800, 0}, {-1, -1}} {
		err := s.UpdateViewport(size[0], size[1])
		if !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("%v: Expected ErrInvalidViewport, got %v", size, err)
		}
	}
	if len(f.dev.targets) != 1 {
		t.Errorf("Expected no new targets, got %d", len(f.dev.targets))
	}
}

func TestSetMaterialOutsidePassWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f, err := newFixture(zap.New(core))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f.scene.SetMaterial(NewMaterial("stray", mgl32.Vec3{}))

	if logs.Len() != 1 {
		t.Fatalf("Expected 1 warning, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["pass"] != "none" {
		t.Errorf("Expected pass=none, got %v", entry.ContextMap()["pass"])
	}
	if f.geometry.uses+f.debug.uses+f.post.uses != 0 {
		t.Error("Expected no program use outside a pass")
	}
}

func TestToggleMode(t *testing.T) {
	f := mustFixture(t)
	s := f.scene
	if s.Mode() {
		t.Fatal("Expected debug mode off by default")
	}
	s.ToggleMode()
	if !s.Mode() {
		t.Fatal("Expected debug mode on after toggle")
	}
	s.ToggleMode()
	if s.Mode() {
		t.Fatal("Expected debug mode off after second toggle")
	}
}

func TestUpdateAnimatesLights(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	pl := NewPointLight(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, 1, 1}, 1)
	pl.Radius = 3
	s.AddPointLight(pl)

	dl := NewDirectedLight(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}, 1)
	dl.Speed = 1
	s.AddDirectedLight(dl)

	s.Update(math.Pi / 2)

	if got := s.PointLights()[0].Position; !near(got, mgl32.Vec3{0, 2, 3}) {
		t.Errorf("point light position: got %v, want (0, 2, 3)", got)
	}
	if got := s.PointLights()[0].Intensity; got != 1 {
		t.Errorf("Expected steady intensity without flicker, got %v", got)
	}
	// Rotating +X by 90 degrees about +Y gives -Z.
	if got := s.DirectedLights()[0].Direction; !near(got, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("directed light: got %v, want (0, 0, -1)", got)
	}
}

func TestFlickerStaysNonNegative(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	pl := NewPointLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1)
	pl.Flicker = 2
	s.AddPointLight(pl)

	for i := 0; i < 100; i++ {
		s.Update(0.05)
		if got := s.PointLights()[0].Intensity; got < 0 {
			t.Fatalf("step %d: negative intensity %v", i, got)
		}
	}
}

func TestLightLimits(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	for i := 0; i < MaxPointLights; i++ {
		if !s.AddPointLight(NewPointLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1)) {
			t.Fatalf("point light %d rejected", i)
		}
	}
	if s.AddPointLight(NewPointLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1)) {
		t.Fatal("Expected point light over the limit to be rejected")
	}
	for i := 0; i < MaxDirectedLights; i++ {
		s.AddDirectedLight(NewDirectedLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))
	}
	if s.AddDirectedLight(NewDirectedLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)) {
		t.Fatal("Expected directed light over the limit to be rejected")
	}
}

func TestAddRemoveModel(t *testing.T) {
	f := mustFixture(t)
	s := f.scene

	a := NewModel("a", Part{Mesh: &fakeMesh{}})
	b := NewModel("b", Part{Mesh: &fakeMesh{}})
	s.AddModel(a)
	s.AddModel(b)
	s.AddModel(a)
	if got := len(s.Models()); got != 2 {
		t.Fatalf("Expected 2 models, got %d", got)
	}

	s.RemoveModel(a)
	models := s.Models()
	if len(models) != 1 || models[0] != b {
		t.Fatalf("Expected only b left, got %v", models)
	}
	if a.Parts[0].Mesh.(*fakeMesh).released != 0 {
		t.Error("RemoveModel released the model's mesh")
	}
}

func TestSinkFollowsPolicy(t *testing.T) {
	if _, ok := newSink(config.DiagnosticsPanic, zap.NewNop()).(transform.PanicSink); !ok {
		t.Error("Expected PanicSink for the panic policy")
	}
	if _, ok := newSink(config.DiagnosticsLog, zap.NewNop()).(*transform.LogSink); !ok {
		t.Error("Expected LogSink for the log policy")
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("Expected error without a device")
	}
	f := mustFixture(t)
	cfg := Config{Device: f.dev, Programs: Programs{Geometry: f.geometry}, LightMarker: f.marker}
	if _, err := New(cfg); err == nil {
		t.Fatal("Expected error with missing programs")
	}
}
