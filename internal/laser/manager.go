package laser

import (
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/pool"
)

// SpawnParams gathers §6's create_laser arguments.
type SpawnParams struct {
	Pos    PosRule
	Width  WidthEnvelope
	Color  colorx.Color
	Layer  int
	Damage float64
}

// Manager owns the laser pool and drives its per-frame update (§4.8, as
// step 5 of §4.11's frame driver).
type Manager struct {
	pool *pool.Pool[Laser]
	reg  *entity.Registry
}

func NewManager(reg *entity.Registry, capacity int) *Manager {
	return &Manager{pool: pool.New[Laser]("laser", capacity), reg: reg}
}

// Spawn creates a new laser.
func (m *Manager) Spawn(frame int, p SpawnParams) entity.Handle {
	entity.AssertNotDrawing("laser")

	ptr, idx, _ := m.pool.Acquire()
	*ptr = Laser{
		id:     m.reg.NewID(),
		Birth:  frame,
		Pos:    p.Pos,
		Width:  p.Width,
		Color:  p.Color,
		Layer:  p.Layer,
		Damage: p.Damage,
	}
	h := m.reg.Register(ptr)
	ptr.handle = h
	_ = idx
	return h
}

// Update advances every live laser and performs player collision (§4.8).
func (m *Manager) Update(frame int, player PlayerTarget) {
	var toRelease []int
	m.pool.Live(func(idx int, l *Laser) {
		l.Update(frame, player)
		if l.IsDead() {
			toRelease = append(toRelease, idx)
		}
	})
	for _, idx := range toRelease {
		ptr, live := m.pool.At(idx)
		if !live {
			continue
		}
		m.reg.Unregister(ptr.handle)
		m.pool.Release(ptr, idx)
	}
}

// LiveCount reports the number of live lasers, for metrics.
func (m *Manager) LiveCount() int { return m.pool.LiveCount() }
