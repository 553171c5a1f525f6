package main

import (
	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// setupWindow creates a 4.1 core context window and loads GL. glfw.Init must
// have been called on the locked main thread.
func setupWindow(spec config.WindowSpec) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(spec.Width, spec.Height, spec.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	// V-Sync off; FPSLimiter paces frames.
	glfw.SwapInterval(0)
	return window, nil
}
