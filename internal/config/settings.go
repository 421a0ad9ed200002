package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Diagnostics policies for matrix stack misuse.
const (
	DiagnosticsLog   = "log"
	DiagnosticsPanic = "panic"
)

// MatrixStackSettings are initial capacity hints for the transform stacks.
type MatrixStackSettings struct {
	ProjectionMatrixStackSize int `json:"projectionMatrixStackSize"`
	ViewMatrixStackSize       int `json:"viewMatrixStackSize"`
	ModelMatrixStackSize      int `json:"modelMatrixStackSize"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

// Settings is the startup configuration, read from a JSON file.
type Settings struct {
	Window      WindowSettings      `json:"window"`
	MatrixStack MatrixStackSettings `json:"matrixStack"`

	ShadersDir     string `json:"shadersDir"`
	TexturesDir    string `json:"texturesDir"`
	MaxTextureSize int    `json:"maxTextureSize"`

	DiagnosticsPolicy string     `json:"diagnosticsPolicy"`
	DebugMode         bool       `json:"debugMode"`
	ClearColor        [4]float32 `json:"clearColor"`
	Exposure          float32    `json:"exposure"`
	LightFlicker      float32    `json:"lightFlicker"`
	LightMarkerScale  float32    `json:"lightMarkerScale"`
	FPSLimit          int        `json:"fpsLimit"`
	Verbose           bool       `json:"verbose"`
}

func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  900,
			Height: 600,
			Title:  "xrndr",
		},
		MatrixStack: MatrixStackSettings{
			ProjectionMatrixStackSize: 4,
			ViewMatrixStackSize:       4,
			ModelMatrixStackSize:      16,
		},
		ShadersDir:        "assets/shaders",
		TexturesDir:       "assets/textures",
		MaxTextureSize:    2048,
		DiagnosticsPolicy: DiagnosticsLog,
		ClearColor:        [4]float32{0.05, 0.05, 0.08, 1.0},
		Exposure:          1.0,
		LightFlicker:      0.15,
		LightMarkerScale:  0.1,
		FPSLimit:          120,
	}
}

// Load reads settings from path on top of Default. A missing file yields the
// defaults; keys absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects values no renderer could start with.
func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height)
	}
	switch s.DiagnosticsPolicy {
	case DiagnosticsLog, DiagnosticsPanic:
	default:
		return fmt.Errorf("unknown diagnostics policy %q", s.DiagnosticsPolicy)
	}
	if s.MaxTextureSize < 0 {
		return fmt.Errorf("maxTextureSize %d must not be negative", s.MaxTextureSize)
	}
	return nil
}
