package main

import (
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// config gathers telemetryd's startup parameters, following the
// r3e-network-service_layer pkg/config pattern: typed defaults from
// newConfig(), a best-effort .env load, then envdecode.Decode overriding
// anything the environment sets via its `env:"..."` tags.
type config struct {
	ListenAddr string `env:"TELEMETRYD_LISTEN_ADDR"`

	JWTSecret         string `env:"TELEMETRYD_JWT_SECRET"`
	ReplayUploadLimit int64  `env:"TELEMETRYD_REPLAY_UPLOAD_LIMIT_BYTES"`

	BroadcastHz        float64 `env:"TELEMETRYD_BROADCAST_HZ"`
	RateLimitPerSecond float64 `env:"TELEMETRYD_RATE_LIMIT_PER_SECOND"`
	RateLimitBurst     int     `env:"TELEMETRYD_RATE_LIMIT_BURST"`

	AutosavePath string `env:"TELEMETRYD_AUTOSAVE_PATH"`
	AutosaveCron string `env:"TELEMETRYD_AUTOSAVE_CRON"`

	Seed  uint64 `env:"TELEMETRYD_SEED"`
	Debug bool   `env:"TELEMETRYD_DEBUG"`
}

func newConfig() *config {
	return &config{
		ListenAddr:         ":8088",
		JWTSecret:          "dev-insecure-telemetry-secret",
		ReplayUploadLimit:  1 << 20,
		BroadcastHz:        10,
		RateLimitPerSecond: 5,
		RateLimitBurst:     10,
		AutosavePath:       "telemetryd.progress",
		AutosaveCron:       "*/1 * * * *",
	}
}

// loadConfig loads a .env file if present, then applies any TELEMETRYD_*
// overrides from the process environment.
func loadConfig() (*config, error) {
	_ = godotenv.Load()

	cfg := newConfig()
	if err := envdecode.Decode(cfg); err != nil {
		// envdecode errors when none of the tagged fields are set in the
		// environment; that's the common case (defaults only) and not a
		// failure.
		if !strings.Contains(err.Error(), "none of the target fields were set") {
			return nil, err
		}
	}
	return cfg, nil
}
