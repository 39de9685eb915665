// Command demo is a minimal desktop harness for the gameplay core:
// a glfw/OpenGL window, a point-sprite renderer, keyboard input, and a
// stage script loaded through internal/scripting, all driven by
// internal/sim.Sim's fixed per-frame order. Grounded on the teacher's
// internal/game/main.go RunDesktop loop shape (LockOSThread,
// PollEvents/GetFramebufferSize/SwapBuffers) and internal/game's
// seed-from-env convention.
package main

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/player"
	"github.com/taisei-project/core/internal/projectile"
	"github.com/taisei-project/core/internal/sim"
)

const (
	viewMinX, viewMinY = -160.0, -220.0
	viewMaxX, viewMaxY = 160.0, 220.0
)

func main() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		corelog.Errorf("demo: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	if err := gl.Init(); err != nil {
		corelog.Errorf("demo: gl init: %v", err)
		os.Exit(1)
	}

	rnd, err := newRenderer()
	if err != nil {
		corelog.Errorf("demo: renderer: %v", err)
		os.Exit(1)
	}
	defer rnd.Destroy()

	audio, err := initAudio()
	if err != nil {
		corelog.Warnf("demo: audio disabled: %v", err)
		audio = nil
	}

	s := sim.New(sim.Config{
		Seed:               seedFromEnv(),
		ProjectileCapacity: 2048,
		LaserCapacity:      64,
		EnemyCapacity:      64,
		ItemCapacity:       256,
		ProjectileViewport: projectile.Viewport{MinX: viewMinX, MinY: viewMinY, MaxX: viewMaxX, MaxY: viewMaxY},
		EnemyViewport:      enemy.Viewport{MinX: viewMinX, MinY: viewMinY, MaxX: viewMaxX, MaxY: viewMaxY},
		Player: *player.New(
			complex(0, 150),
			2, 12, 4,
			player.Viewport{MinX: viewMinX, MinY: viewMinY, MaxX: viewMaxX, MaxY: viewMaxY},
		),
		ItemCollectRadius:        20,
		ItemCollectRadiusFocused: 60,
	})

	finished := false
	_, boss, err := loadDemoStage(s, func(outcome string) {
		corelog.Infof("demo: stage finished: %s", outcome)
		finished = true
	})
	if err != nil {
		corelog.Errorf("demo: stage script: %v", err)
		os.Exit(1)
	}
	s.Boss = boss

	prevShotSignals := s.Player.Shoot.NumSignaled()
	prevLives := s.Player.Lives

	for !window.ShouldClose() && !finished {
		glfw.PollEvents()

		keys := pollKeys(window)
		bombEdge := window.GetKey(glfw.KeyX) == glfw.Press

		s.Step(keys)

		if sig := s.Player.Shoot.NumSignaled(); sig != prevShotSignals {
			audio.play(cueShot)
			prevShotSignals = sig
		}
		if s.Player.Lives < prevLives {
			audio.play(cueHit)
		}
		prevLives = s.Player.Lives
		if bombEdge {
			audio.play(cueBomb)
		}

		draw(rnd, s)

		fbW, fbH := window.GetFramebufferSize()
		rnd.Flush(int32(fbW), int32(fbH))
		window.SwapBuffers()
	}
}

// draw queues one point sprite per live entity; internal/sim has no
// rendering concept of its own, so this is the only place position data
// crosses from simulation state into the renderer's vertex queue.
func draw(rnd *renderer, s *sim.Sim) {
	px, py := real(s.Player.Position()), imag(s.Player.Position())
	rnd.Push(px, py, 10, 1, 1, 1, 1)

	for _, p := range s.Projectiles.Live() {
		x, y := real(p.Pos), imag(p.Pos)
		rnd.Push(x, y, p.Collision.Radius*2, p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	}

	for _, e := range s.Enemies.LiveTargets() {
		x, y := real(e.Pos), imag(e.Pos)
		rnd.Push(x, y, 16, e.Color.R, e.Color.G, e.Color.B, 1)
	}
}

// seedFromEnv mirrors the teacher's SNAKE_SEED convention: an explicit
// override for reproducible runs, otherwise the wall clock.
func seedFromEnv() uint64 {
	if v := os.Getenv("DEMO_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return uint64(time.Now().UnixNano())
}
