package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taisei-project/core/internal/player"
)

// pollKeys reads the window's current key state into a player.InputFlags
// bitfield (sim.Sim.Step's per-frame input), using the same arrow-keys
// plus shot/bomb/focus layout internal/game/input.go binds for its own
// (unrelated) movement keys.
func pollKeys(window *glfw.Window) player.InputFlags {
	var flags player.InputFlags
	set := func(key glfw.Key, bit player.InputFlags) {
		if window.GetKey(key) == glfw.Press {
			flags |= bit
		}
	}
	set(glfw.KeyUp, player.FlagUp)
	set(glfw.KeyDown, player.FlagDown)
	set(glfw.KeyLeft, player.FlagLeft)
	set(glfw.KeyRight, player.FlagRight)
	set(glfw.KeyLeftShift, player.FlagFocus)
	set(glfw.KeyZ, player.FlagShot)
	set(glfw.KeyX, player.FlagBomb)
	return flags
}
