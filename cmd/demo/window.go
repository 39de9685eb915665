// Package main implements a minimal desktop harness driving
// internal/sim: a glfw window, a point-sprite renderer, keyboard input,
// and a stage script loaded through internal/scripting. It exists to
// exercise the gameplay core end to end, not as a full game client —
// there's no title screen, no stage select, no replay UI.
//
// Grounded on the teacher's internal/game/window.go (WindowHint
// sequence, core-profile context) and main.go (the per-frame
// PollEvents/GetFramebufferSize/SwapBuffers loop shape).
package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

func initWindow() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "taisei-core demo", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}
