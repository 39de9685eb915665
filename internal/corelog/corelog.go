// Package corelog wraps zerolog the way r3e-network-service_layer's
// pkg/logger wraps logrus: a small, package-level logger plus a
// debug-only assertion helper for the §7 "programming error" taxonomy.
package corelog

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()
	debug  atomic.Bool
)

// SetDebug toggles debug-level logging and Assert's abort behavior.
// It defaults to off; cmd/telemetryd sets it from its Debug config field.
func SetDebug(on bool) {
	debug.Store(on)
	if on {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

func Debugging() bool { return debug.Load() }

func Logger() *zerolog.Logger { return &logger }

func Infof(format string, args ...any)  { logger.Info().Msg(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { logger.Warn().Msg(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { logger.Error().Msg(fmt.Sprintf(format, args...)) }
func Debugf(format string, args ...any) {
	if debug.Load() {
		logger.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// Assert reports a programming error per §7: in debug builds it aborts
// (panics); in release builds it logs and the caller is expected to have
// a defined fallback (or undefined behavior is accepted, per spec).
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if debug.Load() {
		panic("assertion failed: " + msg)
	}
	logger.Error().Msg("assertion failed (non-debug, continuing): " + msg)
}
