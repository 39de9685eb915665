// Package telemetry exposes a spectator-facing view of a running
// simulation: a websocket hub broadcasting per-frame entity snapshots,
// behind a chi router with JWT-authenticated connections and
// per-connection rate limiting. None of this sits on the simulation's
// hot path (§5's "auxiliary worker" boundary) — the simulation side
// only ever calls Hub.Publish with an already-built Snapshot.
package telemetry

import "encoding/json"

// PlayerSnapshot is the player's spectator-visible state.
type PlayerSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Lives int     `json:"lives"`
	Bombs int     `json:"bombs"`
	Power float64 `json:"power"`
	Graze int     `json:"graze"`
}

// BossSnapshot describes the active boss attack, if any.
type BossSnapshot struct {
	Name       string  `json:"name"`
	HP         float64 `json:"hp"`
	AttackName string  `json:"attack_name"`
}

// Snapshot is one frame's spectator-facing state. It deliberately
// mirrors a HUD overlay rather than the full simulation: entity counts
// per subsystem class plus the player and (if present) boss summaries,
// not every projectile's exact position — spectators watch a rendered
// stream alongside this, they don't need to reconstruct the frame from
// it.
type Snapshot struct {
	Frame int            `json:"frame"`
	Player PlayerSnapshot `json:"player"`
	Boss   *BossSnapshot  `json:"boss,omitempty"`

	LiveProjectiles int `json:"live_projectiles"`
	LiveLasers      int `json:"live_lasers"`
	LiveEnemies     int `json:"live_enemies"`
	LiveItems       int `json:"live_items"`
}

func (s Snapshot) encode() ([]byte, error) {
	return json.Marshal(s)
}
