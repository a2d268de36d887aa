package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
)

// InfUses marks an item that never wears out.
const InfUses = 0x10000

// Item is anything that fits in an inventory slot. Items of the same
// kind stack; everything else about them is per-instance.
type Item interface {
	ID() uuid.UUID
	Name() string
	// Kind is the stacking and lookup key, such as "sword" or
	// "town_key".
	Kind() string
	Level() int
	Price() int
	MaxStack() int
	Uses() int
	SetUses(int)
	MaxUses() int
	// Spend consumes one use, flooring at zero. Weapons wear down
	// here as well.
	Spend()
	// Info renders the item's stat block for listings. The factor
	// scales the displayed price for special trades.
	Info(priceFactor float64) string
	Clone() Item
}

// Usable items do something when used, optionally on a target. The
// returned message, if any, goes back to the user.
type Usable interface {
	Item
	Use(ctx *dialogue.Context, w *World, user, target Entity) string
}

// Weapon items occupy the weapon slot and drive combat.
type Weapon interface {
	Item
	Damage() int
	SetDamage(int)
	// Speed is the swing interval in ms.
	Speed() int64
	RepairPrice() int
	Repair()
	OnEquip(ctx *dialogue.Context, w *World, owner Entity)
	OnUnequip(ctx *dialogue.Context, w *World, owner Entity)
}

// FormatUses renders a use counter for item listings.
func FormatUses(uses, max int) string {
	if max == InfUses {
		return "∞"
	}
	return fmt.Sprintf("%d / %d", uses, max)
}

// AdjustedPrice factors a base price, truncating toward zero.
func AdjustedPrice(price int, factor float64) int {
	return int(float64(price) * factor)
}

// TownKey opens the locked gate out of a town once its dungeon has
// given it up.
type TownKey struct {
	id uuid.UUID
}

func NewTownKey() *TownKey {
	return &TownKey{id: uuid.New()}
}

func (k *TownKey) ID() uuid.UUID { return k.id }
func (k *TownKey) Name() string  { return "Tarnished Key" }
func (k *TownKey) Kind() string  { return "town_key" }
func (k *TownKey) Level() int    { return 0 }
func (k *TownKey) Price() int    { return 10 }
func (k *TownKey) MaxStack() int { return 1 }
func (k *TownKey) Uses() int     { return 1 }
func (k *TownKey) SetUses(int)   {}
func (k *TownKey) MaxUses() int  { return 1 }
func (k *TownKey) Spend()        {}

func (k *TownKey) Clone() Item {
	c := *k
	return &c
}

func (k *TownKey) Info(priceFactor float64) string {
	return fmt.Sprintf("%s\n  * Type: %s\n  * Price: %dg",
		k.Name(), k.Kind(), AdjustedPrice(k.Price(), priceFactor))
}

// Consumable carries one effect that lands on whoever it is used on.
// Each instance is single-use; quantity comes from stacking.
type Consumable struct {
	id     uuid.UUID
	name   string
	level  int
	effect Effect
	stack  int
	price  int
	uses   int
}

func NewConsumable(name string, level int, effect Effect, stack, price int) *Consumable {
	return &Consumable{
		id:     uuid.New(),
		name:   name,
		level:  level,
		effect: effect,
		stack:  stack,
		price:  price,
	}
}

// PoisonousPotato is the test consumable.
func PoisonousPotato() *Consumable {
	return NewConsumable("Poisonous Potato (Test Item)", 1, GenericHarming(5), 4, 25)
}

func (c *Consumable) ID() uuid.UUID { return c.id }
func (c *Consumable) Name() string  { return c.name }
func (c *Consumable) Kind() string  { return "consumable" }
func (c *Consumable) Level() int    { return c.level }
func (c *Consumable) Price() int    { return c.price }
func (c *Consumable) MaxStack() int { return c.stack }
func (c *Consumable) Uses() int     { return c.uses }
func (c *Consumable) SetUses(n int) { c.uses = n }
func (c *Consumable) MaxUses() int  { return 1 }

func (c *Consumable) Spend() {
	if c.uses > 0 {
		c.uses--
	}
}

func (c *Consumable) Clone() Item {
	cp := *c
	return &cp
}

// Use applies the effect to the target when one is given, otherwise to
// the user. Self-application stays quiet; a permanent effect announces
// itself anyway.
func (c *Consumable) Use(ctx *dialogue.Context, w *World, user, target Entity) string {
	if target != nil {
		c.effect.Apply(ctx, w, target)
		return fmt.Sprintf("A %s effect was applied to %s.", c.effect.Name, target.Body().Name())
	}
	if user != nil {
		c.effect.Apply(ctx, w, user)
	}
	return ""
}

func (c *Consumable) Info(priceFactor float64) string {
	return fmt.Sprintf("%s\n  * Type: lvl %d %s\n  * Price: %dg",
		c.name, c.level, c.Kind(), AdjustedPrice(c.price, priceFactor))
}
