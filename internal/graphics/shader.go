package graphics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xrndr/internal/transform"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader file names under the shaders directory.
const (
	GeometryVertShader    = "geometry.vert"
	GeometryFragShader    = "geometry.frag"
	DebugVertShader       = "debug.vert"
	DebugFragShader       = "debug.frag"
	PostprocessVertShader = "postprocess.vert"
	PostprocessFragShader = "postprocess.frag"
)

// Shader represents an OpenGL shader program
type Shader struct {
	ID        uint32
	locations map[string]int32
}

// NewShader creates a new shader program from vertex and fragment shader source files
func NewShader(vertexPath, fragmentPath string) (*Shader, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	program, err := compileProgram(string(vertexSource), string(fragmentSource))
	if err != nil {
		return nil, fmt.Errorf("%s + %s: %w", filepath.Base(vertexPath), filepath.Base(fragmentPath), err)
	}

	return &Shader{ID: program, locations: make(map[string]int32)}, nil
}

// LoadShader builds the program <dir>/<vert> + <dir>/<frag>.
func LoadShader(dir, vert, frag string) (*Shader, error) {
	return NewShader(filepath.Join(dir, vert), filepath.Join(dir, frag))
}

// Use activates the shader program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// location returns the cached uniform location, -1 for uniforms the linker
// dropped.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

func (s *Shader) SetBool(name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	s.SetInt(name, intValue)
}

func (s *Shader) SetInt(name string, value int32) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform1i(loc, value)
	}
}

func (s *Shader) SetFloat(name string, value float32) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform3f(loc, v.X(), v.Y(), v.Z())
	}
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	if loc := s.location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (s *Shader) SetMat3(name string, m mgl32.Mat3) {
	if loc := s.location(name); loc != -1 {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

// SetMatrixGroup uploads the derived matrices as model, modelView, mvp and
// normalMatrix.
func (s *Shader) SetMatrixGroup(g transform.MatrixGroup) {
	s.SetMat4("model", g.Model)
	s.SetMat4("modelView", g.ModelView)
	s.SetMat4("mvp", g.ModelViewProjection)
	s.SetMat3("normalMatrix", g.Normal)
}

// Release deletes the program.
func (s *Shader) Release() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
	clear(s.locations)
}

// Helper functions
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
