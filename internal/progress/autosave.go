package progress

import (
	"os"

	"github.com/robfig/cron/v3"

	"github.com/taisei-project/core/internal/corelog"
)

// Snapshot returns the current progress state to persist; the
// simulation thread owns the real File and publishes a copy (never a
// pointer into live state) to the autosaver on its own schedule — §5's
// "auxiliary worker threads ... communicate only via message queues".
// This package has no queue of its own: the Snapshot callback is the
// hand-off point, and the caller decides how the copy is published.
type Snapshot func() *File

// Autosaver periodically writes the latest snapshot to path on a cron
// schedule, entirely off the simulation thread (§5). It never blocks
// the simulation: Snapshot is called from the cron goroutine, and the
// only contract with the caller is that Snapshot itself must not touch
// un-synchronized simulation state directly (wiring a channel-fed copy
// is the caller's responsibility).
type Autosaver struct {
	path     string
	snapshot Snapshot
	cron     *cron.Cron
}

// NewAutosaver builds an autosaver that writes path on the given cron
// schedule (standard 5-field cron syntax, e.g. "*/1 * * * *" for every
// minute).
func NewAutosaver(path, schedule string, snapshot Snapshot) (*Autosaver, error) {
	a := &Autosaver{path: path, snapshot: snapshot, cron: cron.New()}
	_, err := a.cron.AddFunc(schedule, a.save)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Start begins the cron schedule.
func (a *Autosaver) Start() { a.cron.Start() }

// Stop halts the schedule and blocks until any in-flight save returns.
func (a *Autosaver) Stop() { <-a.cron.Stop().Done() }

// SaveNow writes the current snapshot immediately, bypassing the
// schedule — used for a clean-shutdown final save.
func (a *Autosaver) SaveNow() { a.save() }

func (a *Autosaver) save() {
	f := a.snapshot()
	if f == nil {
		return
	}
	data := Encode(f)
	if err := os.WriteFile(a.path, data, 0o644); err != nil {
		corelog.Warnf("progress: autosave to %s failed: %v", a.path, err)
	}
}
