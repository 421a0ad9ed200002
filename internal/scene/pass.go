package scene

// RenderPass selects which program and target the current draw calls affect.
type RenderPass int

const (
	PassNone RenderPass = iota
	PassGeometry
	PassDebug
	PassPostprocess
)

func (p RenderPass) String() string {
	switch p {
	case PassNone:
		return "none"
	case PassGeometry:
		return "geometry"
	case PassDebug:
		return "debug"
	case PassPostprocess:
		return "postprocess"
	default:
		return "unknown"
	}
}

// Renderer is the capability a pass exposes to drawables: select the program
// and per-material uniforms for the next draw.
type Renderer interface {
	SetMaterial(m *Material)
}
