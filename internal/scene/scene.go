package scene

import (
	"errors"
	"fmt"
	"slices"

	"xrndr/internal/camera"
	"xrndr/internal/config"
	"xrndr/internal/profiling"
	"xrndr/internal/transform"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrInvalidViewport is returned by UpdateViewport for non-positive sizes.
var ErrInvalidViewport = errors.New("invalid viewport size")

const noiseSeed = 7

// Programs are the shader programs used by the three passes.
type Programs struct {
	Geometry    Program
	Debug       Program
	Postprocess Program
}

// Config carries everything New needs. Textures and Log are optional; a zero
// Width or Height falls back to the window size in Settings.
type Config struct {
	Device      Device
	Programs    Programs
	LightMarker Mesh
	Textures    TextureSource
	Settings    config.Settings
	Log         *zap.Logger
	Width       int
	Height      int
}

// Scene renders its models into an off-screen target, optionally overlays
// light markers, and composites the target onto the default framebuffer.
// It is driven from the render thread only.
type Scene struct {
	dev      Device
	programs Programs
	marker   Mesh
	textures TextureSource
	log      *zap.Logger

	stacks     *transform.StackSet
	camera     *camera.Camera
	projection *camera.Projection

	pass      RenderPass
	debugMode bool

	target Target
	quad   Mesh

	models         []*Model
	pointLights    []PointLight
	directedLights []DirectedLight
	lightPhase     float32
	noise          *perlin.Perlin

	markerMaterial *Material
	markerScale    float32
	clearColor     mgl32.Vec4
	exposure       float32

	frameUniformsSet bool
	resolved         []*Material
	released         bool
}

func New(cfg Config) (*Scene, error) {
	if cfg.Device == nil {
		return nil, errors.New("scene: nil device")
	}
	if cfg.Programs.Geometry == nil || cfg.Programs.Debug == nil || cfg.Programs.Postprocess == nil {
		return nil, errors.New("scene: missing shader program")
	}
	if cfg.LightMarker == nil {
		return nil, errors.New("scene: nil light marker mesh")
	}

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 || height <= 0 {
		width, height = cfg.Settings.Window.Width, cfg.Settings.Window.Height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene: %w: %dx%d", ErrInvalidViewport, width, height)
	}

	sizes := cfg.Settings.MatrixStack
	s := &Scene{
		dev:      cfg.Device,
		programs: cfg.Programs,
		marker:   cfg.LightMarker,
		textures: cfg.Textures,
		log:      log,
		stacks: transform.NewStackSet(transform.Options{
			ProjectionStackSize: sizes.ProjectionMatrixStackSize,
			ViewStackSize:       sizes.ViewMatrixStackSize,
			ModelStackSize:      sizes.ModelMatrixStackSize,
			Sink:                newSink(cfg.Settings.DiagnosticsPolicy, log),
		}),
		camera:         camera.New(mgl32.Vec3{0, 2, 8}),
		projection:     camera.NewProjection(width, height),
		debugMode:      cfg.Settings.DebugMode,
		noise:          perlin.NewPerlin(2, 2, 3, noiseSeed),
		markerMaterial: NewMaterial("light-marker", mgl32.Vec3{1, 1, 1}),
		markerScale:    cfg.Settings.LightMarkerScale,
		clearColor:     mgl32.Vec4(cfg.Settings.ClearColor),
		exposure:       cfg.Settings.Exposure,
	}
	if s.markerScale <= 0 {
		s.markerScale = 0.1
	}
	if s.exposure <= 0 {
		s.exposure = 1
	}

	target, err := s.dev.NewTarget(width, height)
	if err != nil {
		return nil, fmt.Errorf("scene: create target: %w", err)
	}
	quad, err := s.dev.NewScreenQuad()
	if err != nil {
		target.Release()
		return nil, fmt.Errorf("scene: create screen quad: %w", err)
	}
	s.target, s.quad = target, quad

	log.Info("scene created",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("debugMode", s.debugMode))
	return s, nil
}

func newSink(policy string, log *zap.Logger) transform.Sink {
	if policy == config.DiagnosticsPanic {
		return transform.PanicSink{}
	}
	return transform.NewLogSink(log.Named("transform"))
}

// Update advances the light animation by dt seconds.
func (s *Scene) Update(dt float32) {
	s.lightPhase += dt
	for i := range s.pointLights {
		s.pointLights[i].animate(s.lightPhase, s.noise.Noise1D)
	}
	for i := range s.directedLights {
		s.directedLights[i].animate(s.lightPhase)
	}
}

// Draw renders one frame: geometry, the debug overlay when enabled, then
// postprocess. Pass is PassNone again once Draw returns.
func (s *Scene) Draw() {
	defer profiling.Track("scene.Draw")()
	defer s.setPass(PassNone)

	s.geometryPass()
	if s.debugMode {
		s.debugPass()
	}
	s.postprocessPass(!s.debugMode)
}

func (s *Scene) setPass(p RenderPass) {
	s.pass = p
	s.frameUniformsSet = false
}

func (s *Scene) geometryPass() {
	defer profiling.Track("pass.geometry")()
	s.setPass(PassGeometry)

	s.dev.BindTarget(s.target)
	s.dev.Viewport(s.target.Width(), s.target.Height())
	s.dev.SetDepthTest(true)
	s.dev.Clear(s.clearColor)

	proj := s.stacks.TransformProjection(s.projection.Matrix(), false)
	defer proj.Close()
	view := s.stacks.TransformView(s.camera.View(), false)
	defer view.Close()

	for _, m := range s.models {
		s.stacks.WithModel(m.World(), false, func() {
			m.Draw(s)
		})
	}
}

func (s *Scene) debugPass() {
	defer profiling.Track("pass.debug")()
	s.setPass(PassDebug)

	width, height := s.projection.Viewport()
	s.dev.BindTarget(nil)
	s.dev.Viewport(width, height)
	s.dev.SetDepthTest(true)
	s.dev.Clear(s.clearColor)

	proj := s.stacks.TransformProjection(s.projection.Matrix(), false)
	defer proj.Close()
	view := s.stacks.TransformView(s.camera.View(), false)
	defer view.Close()

	k := s.markerScale
	s.stacks.WithModel(mgl32.Scale3D(k, k, k), false, func() {
		for i := range s.pointLights {
			l := &s.pointLights[i]
			s.markerMaterial.Diffuse = l.Color
			at := mgl32.Translate3D(l.Position.X(), l.Position.Y(), l.Position.Z())
			s.stacks.WithModel(at, true, func() {
				s.SetMaterial(s.markerMaterial)
				s.marker.Draw()
			})
		}
	})
}

// postprocessPass draws the geometry target onto the default framebuffer.
// The quad sits at far depth, so markers left by the debug pass stay on top.
func (s *Scene) postprocessPass(clear bool) {
	defer profiling.Track("pass.postprocess")()
	s.setPass(PassPostprocess)

	width, height := s.projection.Viewport()
	s.dev.BindTarget(nil)
	s.dev.Viewport(width, height)
	s.dev.SetDepthTest(true)
	if clear {
		s.dev.Clear(s.clearColor)
	}

	p := s.programs.Postprocess
	p.Use()
	s.dev.BindTexture(0, s.target.ColorTexture())
	p.SetInt("screenTexture", 0)
	p.SetFloat("exposure", s.exposure)
	s.quad.Draw()
}

// SetMaterial binds the current pass's program and uploads the matrix group
// and material uniforms for the next draw.
func (s *Scene) SetMaterial(m *Material) {
	if m == nil {
		m = DefaultMaterial
	}

	switch s.pass {
	case PassGeometry:
		p := s.programs.Geometry
		p.Use()
		if !s.frameUniformsSet {
			s.uploadLights(p)
			s.frameUniformsSet = true
		}
		p.SetMatrixGroup(s.stacks.Group())
		p.SetVec3("material.diffuse", m.Diffuse)
		p.SetVec3("material.specular", m.Specular)
		p.SetFloat("material.shininess", m.Shininess)

		if tex := s.diffuseMap(m); tex != nil {
			s.dev.BindTexture(0, tex)
			p.SetInt("material.diffuseMap", 0)
			p.SetBool("material.hasDiffuseMap", true)
		} else {
			p.SetBool("material.hasDiffuseMap", false)
		}

	case PassDebug:
		p := s.programs.Debug
		p.Use()
		p.SetMatrixGroup(s.stacks.Group())
		p.SetVec3("color", m.Diffuse)

	default:
		s.log.Warn("material set outside a drawing pass",
			zap.String("material", m.Name),
			zap.Stringer("pass", s.pass))
	}
}

func (s *Scene) uploadLights(p Program) {
	p.SetVec3("viewPos", s.camera.Position)

	p.SetInt("numPointLights", int32(len(s.pointLights)))
	for i, l := range s.pointLights {
		p.SetVec3(fmt.Sprintf("pointLights[%d].position", i), l.Position)
		p.SetVec3(fmt.Sprintf("pointLights[%d].color", i), l.Color)
		p.SetFloat(fmt.Sprintf("pointLights[%d].intensity", i), l.Intensity)
	}

	p.SetInt("numDirectedLights", int32(len(s.directedLights)))
	for i, l := range s.directedLights {
		p.SetVec3(fmt.Sprintf("directedLights[%d].direction", i), l.Direction)
		p.SetVec3(fmt.Sprintf("directedLights[%d].color", i), l.Color)
		p.SetFloat(fmt.Sprintf("directedLights[%d].intensity", i), l.Intensity)
	}
}

// diffuseMap resolves a material's texture once. A failed load is logged and
// the material draws untextured from then on.
func (s *Scene) diffuseMap(m *Material) Texture {
	if m.DiffuseMap == "" || s.textures == nil {
		return nil
	}
	if m.resolved {
		return m.texture
	}

	m.resolved = true
	tex, err := s.textures.Acquire(m.DiffuseMap)
	if err != nil {
		s.log.Warn("diffuse map unavailable",
			zap.String("material", m.Name),
			zap.String("path", m.DiffuseMap),
			zap.Error(err))
		return nil
	}
	m.texture = tex
	s.resolved = append(s.resolved, m)
	return tex
}

// UpdateViewport resizes the off-screen target and the projection. The new
// target and quad are created before the old ones are released; on failure
// the scene keeps its previous size.
func (s *Scene) UpdateViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		s.log.Debug("ignoring viewport resize",
			zap.Int("width", width),
			zap.Int("height", height))
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}

	target, err := s.dev.NewTarget(width, height)
	if err != nil {
		s.log.Error("resize target", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		return fmt.Errorf("resize target to %dx%d: %w", width, height, err)
	}
	quad, err := s.dev.NewScreenQuad()
	if err != nil {
		target.Release()
		s.log.Error("recreate screen quad", zap.Error(err))
		return fmt.Errorf("recreate screen quad: %w", err)
	}

	s.target.Release()
	s.quad.Release()
	s.target, s.quad = target, quad
	s.projection.SetViewport(width, height)

	s.log.Debug("viewport updated",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("aspect", s.projection.Aspect()))
	return nil
}

// ToggleMode switches the debug overlay pass on or off.
func (s *Scene) ToggleMode() {
	s.debugMode = !s.debugMode
	s.log.Info("debug mode toggled", zap.Bool("debugMode", s.debugMode))
}

func (s *Scene) Mode() bool { return s.debugMode }

func (s *Scene) Pass() RenderPass { return s.pass }

// Camera returns the scene's camera; callers may move it between frames.
func (s *Scene) Camera() *camera.Camera { return s.camera }

func (s *Scene) Projection() *camera.Projection { return s.projection }

func (s *Scene) Stacks() *transform.StackSet { return s.stacks }

func (s *Scene) AddModel(m *Model) {
	if m == nil || slices.Contains(s.models, m) {
		return
	}
	s.models = append(s.models, m)
}

// RemoveModel stops drawing m. The model's meshes stay alive.
func (s *Scene) RemoveModel(m *Model) {
	if i := slices.Index(s.models, m); i >= 0 {
		s.models = slices.Delete(s.models, i, i+1)
	}
}

func (s *Scene) Models() []*Model { return slices.Clone(s.models) }

// AddPointLight adds l unless MaxPointLights are already present.
func (s *Scene) AddPointLight(l PointLight) bool {
	if len(s.pointLights) >= MaxPointLights {
		s.log.Warn("point light limit reached", zap.Int("max", MaxPointLights))
		return false
	}
	s.pointLights = append(s.pointLights, l)
	return true
}

// AddDirectedLight adds l unless MaxDirectedLights are already present.
func (s *Scene) AddDirectedLight(l DirectedLight) bool {
	if len(s.directedLights) >= MaxDirectedLights {
		s.log.Warn("directed light limit reached", zap.Int("max", MaxDirectedLights))
		return false
	}
	s.directedLights = append(s.directedLights, l)
	return true
}

func (s *Scene) PointLights() []PointLight { return slices.Clone(s.pointLights) }

func (s *Scene) DirectedLights() []DirectedLight { return slices.Clone(s.directedLights) }

// Release frees the target, the screen quad and every texture the scene
// acquired. The light marker and model meshes belong to the caller.
func (s *Scene) Release() {
	if s.released {
		return
	}
	s.released = true

	s.target.Release()
	s.quad.Release()
	for _, m := range s.resolved {
		s.textures.Release(m.DiffuseMap)
		m.texture = nil
		m.resolved = false
	}
	s.resolved = nil
}
