package config

import "sync"

// Runtime settings changed while the demo runs (key bindings, menus).
type runtimeSettings struct {
	mu              sync.RWMutex
	fpsLimit        int
	cullHiddenFaces bool
	wireframe       bool
}

var globalRuntime = &runtimeSettings{
	fpsLimit: 60,
}

// Apply copies the runtime-adjustable values of c into the global settings.
func Apply(c Config) {
	SetFPSLimit(c.Window.FPSLimit)
	SetCullHiddenFaces(c.Meshing.CullHiddenFaces)
}

// GetFPSLimit returns the frame cap; 0 means uncapped.
func GetFPSLimit() int {
	globalRuntime.mu.RLock()
	defer globalRuntime.mu.RUnlock()
	return globalRuntime.fpsLimit
}

// SetFPSLimit sets the frame cap, clamped to 0..240.
func SetFPSLimit(limit int) {
	globalRuntime.mu.Lock()
	defer globalRuntime.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > 240 {
		limit = 240
	}
	globalRuntime.fpsLimit = limit
}

func GetCullHiddenFaces() bool {
	globalRuntime.mu.RLock()
	defer globalRuntime.mu.RUnlock()
	return globalRuntime.cullHiddenFaces
}

func SetCullHiddenFaces(on bool) {
	globalRuntime.mu.Lock()
	defer globalRuntime.mu.Unlock()
	globalRuntime.cullHiddenFaces = on
}

func GetWireframe() bool {
	globalRuntime.mu.RLock()
	defer globalRuntime.mu.RUnlock()
	return globalRuntime.wireframe
}

// ToggleWireframe flips wireframe rendering and returns the new state.
func ToggleWireframe() bool {
	globalRuntime.mu.Lock()
	defer globalRuntime.mu.Unlock()
	globalRuntime.wireframe = !globalRuntime.wireframe
	return globalRuntime.wireframe
}
