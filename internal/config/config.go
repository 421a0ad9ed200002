package config

import "sync"

// RenderSettings holds values that can change while the window is open
type RenderSettings struct {
	mu        sync.RWMutex
	fpsLimit  int // 0 means uncapped
	vsync     bool
	debugMode bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 120, // default value
}

// Apply seeds the runtime render settings from loaded settings
func Apply(s Settings) {
	SetFPSLimit(s.FPSLimit)
	SetVSync(s.Window.VSync)
	SetDebugMode(s.DebugMode)
}

// GetFPSLimit returns the frame cap in frames per second
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap; 0 disables it
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 0 && limit < 15 {
		limit = 15
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetVSync returns whether buffer swaps wait for vertical blank
func GetVSync() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.vsync
}

// SetVSync sets whether buffer swaps wait for vertical blank
func SetVSync(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.vsync = enabled
}

// GetDebugMode returns whether the debug pass is enabled
func GetDebugMode() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.debugMode
}

// SetDebugMode records whether the debug pass is enabled
func SetDebugMode(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.debugMode = enabled
}
