// Command telemetryd runs one headless stage simulation and serves its
// spectator feed: internal/telemetry's chi router (JWT-gated websocket
// broadcast, replay upload, Prometheus /metrics) plus an
// internal/progress autosave loop, wired together the way §5 asks for —
// the simulation thread never touches the network or the filesystem
// itself, only publishes copies of its state for the hub/autosaver to
// pick up on their own schedules.
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/taisei-project/core/internal/corelog"
	"github.com/taisei-project/core/internal/enemy"
	"github.com/taisei-project/core/internal/player"
	"github.com/taisei-project/core/internal/progress"
	"github.com/taisei-project/core/internal/projectile"
	"github.com/taisei-project/core/internal/sim"
	"github.com/taisei-project/core/internal/telemetry"
)

const simViewHalfExtent = 200.0

func main() {
	cfg, err := loadConfig()
	if err != nil {
		corelog.Errorf("telemetryd: config: %v", err)
		os.Exit(1)
	}
	corelog.SetDebug(cfg.Debug)

	s := newHeadlessSim(cfg.Seed)

	stageDone := make(chan struct{})
	var stageDoneOnce int32
	boss, err := loadHeadlessStage(s, func(outcome string) {
		corelog.Infof("telemetryd: stage finished: %s", outcome)
		if atomic.CompareAndSwapInt32(&stageDoneOnce, 0, 1) {
			close(stageDone)
		}
	})
	if err != nil {
		corelog.Errorf("telemetryd: stage script: %v", err)
		os.Exit(1)
	}
	s.Boss = boss

	auth := telemetry.NewAuthenticator([]byte(cfg.JWTSecret))
	hub := telemetry.NewHub(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go hub.Run()

	var latestProgress atomic.Pointer[progress.File]
	autosaver, err := progress.NewAutosaver(cfg.AutosavePath, cfg.AutosaveCron, func() *progress.File {
		return latestProgress.Load()
	})
	if err != nil {
		corelog.Errorf("telemetryd: autosaver: %v", err)
		os.Exit(1)
	}
	autosaver.Start()

	router := telemetry.NewRouter(telemetry.Config{
		Auth:              auth,
		Hub:               hub,
		ReplayUploadLimit: cfg.ReplayUploadLimit,
	})
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		corelog.Infof("telemetryd: listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			corelog.Errorf("telemetryd: http server: %v", err)
		}
	}()

	runSimLoop(ctx, s, hub, &latestProgress, cfg.BroadcastHz, stageDone)

	autosaver.SaveNow()
	autosaver.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		corelog.Warnf("telemetryd: http shutdown: %v", err)
	}
}

func newHeadlessSim(seed uint64) *sim.Sim {
	min, max := -simViewHalfExtent, simViewHalfExtent

	return sim.New(sim.Config{
		Seed:               seed,
		ProjectileCapacity: 2048,
		LaserCapacity:      64,
		EnemyCapacity:      64,
		ItemCapacity:       256,
		ProjectileViewport: projectile.Viewport{MinX: min, MinY: min, MaxX: max, MaxY: max},
		EnemyViewport:      enemy.Viewport{MinX: min, MinY: min, MaxX: max, MaxY: max},
		Player: *player.New(
			complex(0, 150),
			2, 12, 4,
			player.Viewport{MinX: min, MinY: min, MaxX: max, MaxY: max},
		),
		ItemCollectRadius:        20,
		ItemCollectRadiusFocused: 60,
	})
}

// runSimLoop ticks the simulation at a fixed 60Hz (no player driving
// it — a headless demo stage plays out on its own), publishing a
// spectator snapshot at broadcastHz and a progress snapshot once a
// second, until ctx is canceled or the stage script calls
// stage_finish.
func runSimLoop(ctx context.Context, s *sim.Sim, hub *telemetry.Hub, latestProgress *atomic.Pointer[progress.File], broadcastHz float64, stageDone <-chan struct{}) {
	if broadcastHz <= 0 {
		broadcastHz = 10
	}
	broadcastEvery := int(60 / broadcastHz)
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stageDone:
			return
		case <-ticker.C:
			s.Step(player.InputFlags(0))

			if s.Frame%broadcastEvery == 0 {
				hub.Publish(s.Snapshot())
			}
			if s.Frame%60 == 0 {
				latestProgress.Store(progressSnapshot(s))
			}
		}
	}
}

// progressSnapshot builds a small progress.File recording this stage's
// graze count as a stand-in high-score metric — telemetryd has no
// scoring system of its own, this exists to exercise the autosave path
// end to end.
func progressSnapshot(s *sim.Sim) *progress.File {
	f := &progress.File{}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(s.Player.GrazeCount()))
	f.Put(progress.CmdHighScore, buf[:])
	return f
}
