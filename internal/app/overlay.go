package app

import (
	"fmt"
	"time"

	"xrndr/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

const overlayFontPx = 16

// frameStats averages frame time over roughly half-second windows.
type frameStats struct {
	frames  int
	elapsed time.Duration
	fps     float64
	frameMs float64
}

func (s *frameStats) add(d time.Duration) {
	s.frames++
	s.elapsed += d
	if s.elapsed < 500*time.Millisecond {
		return
	}
	s.fps = float64(s.frames) / s.elapsed.Seconds()
	s.frameMs = float64(s.elapsed.Microseconds()) / 1000 / float64(s.frames)
	s.frames, s.elapsed = 0, 0
}

func overlayLines(stats frameStats, debugMode bool, passes time.Duration, pos mgl32.Vec3) []string {
	mode := "off"
	if debugMode {
		mode = "on"
	}
	return []string{
		fmt.Sprintf("%.0f fps  %.2f ms", stats.fps, stats.frameMs),
		fmt.Sprintf("passes %.2f ms", float64(passes.Microseconds())/1000),
		fmt.Sprintf("light markers %s [Tab]", mode),
		fmt.Sprintf("camera %.1f %.1f %.1f", pos.X(), pos.Y(), pos.Z()),
	}
}

// overlay draws frame statistics in the top-left corner of the window.
type overlay struct {
	text    *graphics.TextRenderer
	shader  *graphics.Shader
	visible bool
	stats   frameStats
}

func newOverlay(shadersDir string, width, height int) (*overlay, error) {
	atlas, err := graphics.BakeMonoAtlas(overlayFontPx)
	if err != nil {
		return nil, fmt.Errorf("overlay font: %w", err)
	}
	shader, err := graphics.LoadShader(shadersDir, graphics.TextVertShader, graphics.TextFragShader)
	if err != nil {
		return nil, fmt.Errorf("overlay shader: %w", err)
	}
	o := &overlay{
		text:    graphics.NewTextRenderer(atlas, shader),
		shader:  shader,
		visible: true,
	}
	o.text.SetViewport(width, height)
	return o, nil
}

func (o *overlay) draw(lines []string) {
	if !o.visible {
		return
	}
	o.text.DrawLines(lines, 10, 10+overlayFontPx, 1, mgl32.Vec3{0.9, 0.9, 0.9})
}

func (o *overlay) release() {
	o.text.Release()
	o.shader.Release()
}
