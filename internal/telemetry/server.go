package telemetry

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taisei-project/core/internal/metrics"
	"github.com/taisei-project/core/internal/replay"
)

// Config gathers everything NewRouter needs to wire the telemetry
// server's routes.
type Config struct {
	Auth *Authenticator
	Hub  *Hub

	// ReplayUploadLimit caps the accepted body size for /replay/upload,
	// defaulting to 1 MiB if zero.
	ReplayUploadLimit int64
}

// NewRouter builds the telemetry HTTP server's chi router: an
// unauthenticated /healthz, an authenticated websocket upgrade at /ws,
// and an authenticated replay-upload endpoint, following the
// middleware-ordering convention (logger, recoverer, then
// route-specific auth) the retrieval pack's fight-club-go router uses.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.RequireAuth)

		r.Get("/ws", cfg.Hub.ServeWS)

		limit := cfg.ReplayUploadLimit
		if limit <= 0 {
			limit = 1 << 20
		}
		r.Post("/replay/upload", handleReplayUpload(limit))
	})

	return r
}

func handleReplayUpload(limit int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		if int64(len(body)) > limit {
			http.Error(w, "replay too large", http.StatusRequestEntityTooLarge)
			return
		}

		rp, ok := replay.Decode(body)
		if !ok {
			http.Error(w, "corrupt or unrecognized replay", http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          rp.ID.String(),
			"seed":        rp.Seed,
			"event_count": len(rp.Events),
		})
	}
}
