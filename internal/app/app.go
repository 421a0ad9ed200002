package app

import (
	"errors"
	"fmt"
	"time"

	"xrndr/internal/config"
	"xrndr/internal/graphics"
	"xrndr/internal/input"
	"xrndr/internal/profiling"
	"xrndr/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const slowFrame = 16 * time.Millisecond

// App owns the window loop and the GL resources behind the scene.
type App struct {
	window *glfw.Window
	input  *input.Manager
	log    *zap.Logger

	scene    *scene.Scene
	shaders  []*graphics.Shader
	meshes   []*graphics.Mesh
	textures *graphics.TextureCache
	overlay  *overlay

	limiter  *FPSLimiter
	lastTime time.Time

	lastX, lastY float64
	haveCursor   bool
}

// New loads shaders, builds the demo scene and installs the window callbacks.
func New(window *glfw.Window, settings config.Settings, log *zap.Logger) (*App, error) {
	a := &App{
		window:   window,
		input:    input.NewManager(),
		log:      log,
		limiter:  NewFPSLimiter(),
		lastTime: time.Now(),
	}

	log.Info("OpenGL context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	programs, err := a.loadPrograms(settings.ShadersDir)
	if err != nil {
		a.Release()
		return nil, err
	}

	marker, err := graphics.NewSphere(8, 12)
	if err != nil {
		a.Release()
		return nil, fmt.Errorf("light marker: %w", err)
	}
	a.meshes = append(a.meshes, marker)

	a.textures = graphics.NewTextureCache(settings.TexturesDir, settings.MaxTextureSize, log.Named("textures"))

	width, height := window.GetFramebufferSize()
	a.scene, err = scene.New(scene.Config{
		Device:      graphics.NewDevice(),
		Programs:    programs,
		LightMarker: marker,
		Textures:    a.textures,
		Settings:    settings,
		Log:         log.Named("scene"),
		Width:       width,
		Height:      height,
	})
	if err != nil {
		a.Release()
		return nil, err
	}

	if err := a.populate(settings); err != nil {
		a.Release()
		return nil, err
	}

	a.overlay, err = newOverlay(settings.ShadersDir, width, height)
	if err != nil {
		a.Release()
		return nil, err
	}

	a.installCallbacks()
	return a, nil
}

func (a *App) loadPrograms(dir string) (scene.Programs, error) {
	load := func(vert, frag string) (*graphics.Shader, error) {
		s, err := graphics.LoadShader(dir, vert, frag)
		if err != nil {
			return nil, fmt.Errorf("load shader: %w", err)
		}
		a.shaders = append(a.shaders, s)
		return s, nil
	}

	geometry, err := load(graphics.GeometryVertShader, graphics.GeometryFragShader)
	if err != nil {
		return scene.Programs{}, err
	}
	debug, err := load(graphics.DebugVertShader, graphics.DebugFragShader)
	if err != nil {
		return scene.Programs{}, err
	}
	post, err := load(graphics.PostprocessVertShader, graphics.PostprocessFragShader)
	if err != nil {
		return scene.Programs{}, err
	}
	return scene.Programs{Geometry: geometry, Debug: debug, Postprocess: post}, nil
}

func (a *App) installCallbacks() {
	a.input.Attach(a.window)

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		err := a.scene.UpdateViewport(width, height)
		if err != nil {
			if !errors.Is(err, scene.ErrInvalidViewport) {
				a.log.Error("viewport update failed", zap.Error(err))
			}
			return
		}
		a.overlay.text.SetViewport(width, height)
	})

	a.window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if !a.haveCursor {
			a.lastX, a.lastY, a.haveCursor = x, y, true
			return
		}
		dx, dy := x-a.lastX, a.lastY-y
		a.lastX, a.lastY = x, y
		if a.input.IsActive(input.ActionLook) {
			a.scene.Camera().Rotate(float32(dx), float32(dy))
		}
	})
}

func (a *App) Scene() *scene.Scene { return a.scene }

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := float32(start.Sub(a.lastTime).Seconds())
	a.lastTime = start

	glfw.PollEvents()
	a.handleInput(dt)

	stop := profiling.Track("scene.Update")
	a.scene.Update(dt)
	stop()
	a.scene.Draw()

	stop = profiling.Track("overlay.Draw")
	a.overlay.draw(overlayLines(a.overlay.stats, a.scene.Mode(),
		profiling.SumWithPrefix("pass."), a.scene.Camera().Position))
	stop()

	stop = profiling.Track("window.Swap")
	a.window.SwapBuffers()
	stop()

	elapsed := time.Since(start)
	a.overlay.stats.add(elapsed)
	if elapsed > slowFrame {
		a.log.Debug("slow frame",
			zap.Duration("elapsed", elapsed),
			zap.Duration("passes", profiling.SumWithPrefix("pass.")),
			zap.String("top", profiling.TopN(5)))
	}

	a.input.PostUpdate()
	a.limiter.Wait()
}

func (a *App) handleInput(dt float32) {
	in := a.input

	if in.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if in.JustPressed(input.ActionToggleDebug) {
		a.scene.ToggleMode()
		config.SetDebugMode(a.scene.Mode())
	}
	if in.JustPressed(input.ActionToggleOverlay) {
		a.overlay.visible = !a.overlay.visible
	}
	if in.JustPressed(input.ActionShowProfile) {
		a.log.Info("frame profile",
			zap.Duration("passes", profiling.SumWithPrefix("pass.")),
			zap.String("top", profiling.TopN(8)))
	}

	var dir mgl32.Vec3
	if in.IsActive(input.ActionMoveForward) {
		dir[2]++
	}
	if in.IsActive(input.ActionMoveBackward) {
		dir[2]--
	}
	if in.IsActive(input.ActionMoveRight) {
		dir[0]++
	}
	if in.IsActive(input.ActionMoveLeft) {
		dir[0]--
	}
	if in.IsActive(input.ActionMoveUp) {
		dir[1]++
	}
	if in.IsActive(input.ActionMoveDown) {
		dir[1]--
	}
	if in.IsActive(input.ActionSprint) {
		dt *= 3
	}
	a.scene.Camera().Move(dir, dt)
}

// Release frees the scene and every GL object the app created.
func (a *App) Release() {
	if a.overlay != nil {
		a.overlay.release()
		a.overlay = nil
	}
	if a.scene != nil {
		a.scene.Release()
		a.scene = nil
	}
	if a.textures != nil {
		a.textures.Clear()
	}
	for _, m := range a.meshes {
		m.Release()
	}
	a.meshes = nil
	for _, s := range a.shaders {
		s.Release()
	}
	a.shaders = nil
}
