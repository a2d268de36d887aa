package world

import (
	"math/rand"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Mob is a hostile creature. An area holding any mob swaps its normal
// options for a fight sequence, and players can't move on until the
// fight resolves.
type Mob struct {
	body Body
}

func NewMob(coords player.Coordinates) *Mob {
	return &Mob{body: newBody("Ordinary Spider", 5, 5, coords)}
}

func (m *Mob) Body() *Body { return &m.body }

func (m *Mob) Kind() string { return "mob" }

// DamageRoll is the mob's per-swing damage: base with a +/-2 spread.
func (m *Mob) DamageRoll() int {
	roll := m.body.BaseDamage() + rand.Intn(5) - 2
	if roll < 1 {
		roll = 1
	}
	return roll
}
