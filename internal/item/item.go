// Package item implements §3's Item entity: a pooled pickup that drifts
// after spawn and is collected on proximity to the player. Grounded on
// `original_source/src/item.h`'s `Item`/`ItemType` (the draw-order-as-
// enum-value convention, `POWER_VALUE`/`POWER_VALUE_MINI`, and the
// `auto_collect` field for guaranteed pickups like `spawn_and_collect_item`).
package item

import (
	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/entity"
	"github.com/taisei-project/core/internal/move"
)

// Type is the pickup kind. Values are deliberately ordered least to
// most important, matching item.h's comment that the enum's order
// doubles as draw order (more important items draw on top).
type Type int

const (
	TypePIV Type = iota + 1
	TypePoints
	TypePowerMini
	TypePower
	TypeSurge
	TypeVoltage
	TypeBombFragment
	TypeLifeFragment
	TypeBomb
	TypeLife
)

// Tuning constants carried over from item.h.
const (
	PowerValue     = 3
	PowerValueMini = 1
	MaxPickupValue = 1.0
	MinPickupValue = 0.1
)

// Item is the §3 Item entity.
type Item struct {
	id     entity.ID
	handle entity.Handle

	Pos   cmplx2d.Vec
	Birth int
	Move  move.Params

	Type        Type
	PickupValue float64

	// AutoCollect marks an item that is collected the instant it's
	// updated, regardless of distance to the player (spawn_and_collect_item).
	AutoCollect bool

	poolIndex int
}

func (it *Item) ID() entity.ID  { return it.id }
func (it *Item) DrawLayer() int { return int(it.Type) }
func (it *Item) Draw()          {}

func (it *Item) Handle() entity.Handle { return it.handle }

// Position satisfies the PlayerTarget-shaped proximity test.
func (it *Item) Position() cmplx2d.Vec { return it.Pos }

// Damage: items aren't damageable entities.
func (it *Item) Damage(entity.DamageInfo) entity.DamageResult {
	return entity.DamageResultImmune
}
