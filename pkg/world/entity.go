package world

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/d20"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Stat bounds. The caps apply to player bodies only; effects flagged to
// break a cap write past it, the floors always hold.
const (
	MinDamage        = 5
	MaxHealthCap     = 100
	MinMaxHealth     = 5
	SpeedCap         = 10000
	AttackSpeedFloor = -5000
	ItemSpeedFloor   = -8000
)

// BarehandSpeed is the swing interval in ms with no weapon equipped.
const BarehandSpeed int64 = 9000

// Entity is anything standing in an area. The concrete set is closed:
// *Player, *NPC, *Shopkeeper and *Mob; area dialogue assembly switches
// over it exhaustively.
type Entity interface {
	Body() *Body
	Kind() string
}

// Body is the stat block and identity shared by every entity. Health
// rides on a d20 actor; the other stats are plain counters with caps
// enforced in their setters.
type Body struct {
	id          uuid.UUID
	name        string
	coords      player.Coordinates
	actor       *d20.Actor
	maxHealth   int
	baseDamage  int
	attackSpeed int64 // swing interval modifier, ms
	itemSpeed   int64 // item use interval modifier, ms
	money       int
	capped      bool
	effects     []*Effect
}

func newBody(name string, hp, damage int, coords player.Coordinates) Body {
	return Body{
		id:         uuid.New(),
		name:       name,
		coords:     coords,
		actor:      newActor(name, hp, hp),
		maxHealth:  hp,
		baseDamage: damage,
	}
}

func newActor(id string, max, cur int) *d20.Actor {
	a, err := d20.NewActor(id).WithHP(max).Build()
	if err != nil {
		panic("world: stat block build failed: " + err.Error())
	}
	if cur != max {
		_ = a.SetHP(cur)
	}
	return a
}

func (b *Body) ID() uuid.UUID { return b.id }

func (b *Body) Name() string { return b.name }

func (b *Body) SetName(name string) { b.name = name }

func (b *Body) Coords() player.Coordinates { return b.coords }

func (b *Body) SetCoords(c player.Coordinates) { b.coords = c }

// Health returns current hit points.
func (b *Body) Health() int { return b.actor.HP() }

// MaxHealth returns the current effective maximum.
func (b *Body) MaxHealth() int { return b.maxHealth }

// SetHealth clamps n into [0, MaxHealth] and applies it.
func (b *Body) SetHealth(n int) {
	if n < 0 {
		n = 0
	}
	if n > b.maxHealth {
		n = b.maxHealth
	}
	_ = b.actor.SetHP(n)
}

// AddHealth shifts current health by delta.
func (b *Body) AddHealth(delta int) {
	b.SetHealth(b.Health() + delta)
}

// SetMaxHealth changes the effective maximum, growing the underlying
// actor when needed and clamping current health down when shrinking.
func (b *Body) SetMaxHealth(n int, breakCap bool) {
	if b.capped {
		if n < MinMaxHealth {
			n = MinMaxHealth
		}
		if !breakCap && n > MaxHealthCap {
			n = MaxHealthCap
		}
	}
	if n < 1 {
		n = 1
	}
	cur := b.Health()
	b.maxHealth = n
	if n > b.actor.MaxHP() {
		b.actor = newActor(b.name, n, cur)
	}
	if cur > n {
		b.SetHealth(n)
	}
}

// BaseDamage returns unarmed damage before any weapon.
func (b *Body) BaseDamage() int { return b.baseDamage }

// SetBaseDamage applies the damage floor for capped bodies.
func (b *Body) SetBaseDamage(n int, breakCap bool) {
	if b.capped && !breakCap && n < MinDamage {
		n = MinDamage
	}
	if n < 0 {
		n = 0
	}
	b.baseDamage = n
}

// AttackSpeed returns the swing interval modifier in ms.
func (b *Body) AttackSpeed() int64 { return b.attackSpeed }

// AddAttackSpeed shifts the swing modifier, clamped to its floor and,
// for capped bodies, the speed cap.
func (b *Body) AddAttackSpeed(delta int64, breakCap bool) {
	b.attackSpeed = clampSpeed(b.attackSpeed+delta, AttackSpeedFloor, b.capped && !breakCap)
}

// ItemSpeed returns the item use interval modifier in ms.
func (b *Body) ItemSpeed() int64 { return b.itemSpeed }

// AddItemSpeed shifts the item speed modifier, clamped like AddAttackSpeed.
func (b *Body) AddItemSpeed(delta int64, breakCap bool) {
	b.itemSpeed = clampSpeed(b.itemSpeed+delta, ItemSpeedFloor, b.capped && !breakCap)
}

func clampSpeed(v, floor int64, capped bool) int64 {
	if v < floor {
		v = floor
	}
	if capped && v > SpeedCap {
		v = SpeedCap
	}
	return v
}

// Money returns carried gold.
func (b *Body) Money() int { return b.money }

// AddMoney shifts gold, never below zero.
func (b *Body) AddMoney(delta int) {
	b.money += delta
	if b.money < 0 {
		b.money = 0
	}
}

// SpendMoney takes cost gold if the body can afford it.
func (b *Body) SpendMoney(cost int) bool {
	if b.money < cost {
		return false
	}
	b.money -= cost
	return true
}

// AddEffect records an active effect on the body.
func (b *Body) AddEffect(e *Effect) {
	b.effects = append(b.effects, e)
}

// RemoveEffectNamed drops and returns the first effect with the given
// name.
func (b *Body) RemoveEffectNamed(name string) *Effect {
	for i, e := range b.effects {
		if e.Name == name {
			b.effects = append(b.effects[:i], b.effects[i+1:]...)
			return e
		}
	}
	return nil
}

// Effects returns the body's active effects.
func (b *Body) Effects() []*Effect { return b.effects }

// FormatDamage renders a damage/interval pair the way the health bar and
// item listings show it.
func FormatDamage(damage int, speed int64) string {
	return fmt.Sprintf("%dd / %.1fs", damage, float64(speed)/1000)
}
