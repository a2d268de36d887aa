package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Starting stats for a fresh player body.
const (
	StartingHealth    = 20
	StartingDamage    = 5
	MainInventorySize = 15
)

// Player is a player's in-world body: a capped stat block plus the main
// inventory and the two equipment slots. The body's id matches the
// meta's id so area lookups resolve either way.
type Player struct {
	Meta    *player.Meta
	body    Body
	main    *Inventory
	weapon  *Inventory
	offhand *Inventory
}

func NewPlayer(m *player.Meta) *Player {
	b := newBody(m.Name, StartingHealth, StartingDamage, m.Coords)
	b.id = m.ID
	b.capped = true
	return &Player{
		Meta:    m,
		body:    b,
		main:    NewInventory(MainInventorySize),
		weapon:  NewInventory(1),
		offhand: NewInventory(1),
	}
}

func (p *Player) Body() *Body { return &p.body }

func (p *Player) Kind() string { return "player" }

// Inventory returns the main inventory. The equipment slots are only
// reachable through equip and the primary/secondary accessors.
func (p *Player) Inventory() *Inventory { return p.main }

// Weapon returns the equipped weapon, nil when the slot is empty.
func (p *Player) Weapon() Weapon {
	s := p.weapon.Slot(0)
	if s == nil {
		return nil
	}
	if wp, ok := s.Top().(Weapon); ok {
		return wp
	}
	return nil
}

// Primary returns the equipped weapon's name, "None" when empty.
func (p *Player) Primary() string {
	if s := p.weapon.Slot(0); s != nil && s.Top() != nil {
		return s.Top().Name()
	}
	return "None"
}

// Secondary returns the offhand item's name, "None" when empty.
func (p *Player) Secondary() string {
	if s := p.offhand.Slot(0); s != nil && s.Top() != nil {
		return s.Top().Name()
	}
	return "None"
}

// EquipItem moves the item in main inventory slot num (1-based) into
// the matching equipment slot, swapping out whatever was held there.
// The caller validates num against the inventory.
func (p *Player) EquipItem(ctx *dialogue.Context, w *World, num int) {
	s := p.main.Slot(num - 1)
	if s == nil || s.Top() == nil {
		return
	}
	it := s.Top()

	target := p.offhand
	wp, isWeapon := it.(Weapon)
	if isWeapon {
		target = p.weapon
	}

	if held := target.Slot(0); held != nil {
		top := held.Top()
		if !p.main.CanAdd(top) {
			ctx.SendShort(p.Meta, "You don't have room to unequip your current item.")
			return
		}
		if hw, ok := top.(Weapon); ok {
			hw.OnUnequip(ctx, w, p)
		}
		// Weapons never stack, so the swapped-out item lands in a
		// fresh slot and num keeps pointing at the right one.
		target.Transfer(0, p.main)
	}

	if isWeapon {
		wp.OnEquip(ctx, w, p)
	}
	p.main.Transfer(num-1, target)
	p.RefreshBar()
}

// UseItem uses the item in main inventory slot num (1-based) on the
// target, or with no target when nil.
func (p *Player) UseItem(ctx *dialogue.Context, w *World, num int, target Entity) {
	if num > p.main.Size() {
		ctx.SendShort(p.Meta, "Invalid item #.")
		return
	}
	p.main.UseTop(ctx, w, num-1, p, target)
}

// UsePrimary uses the equipped weapon in place.
func (p *Player) UsePrimary(ctx *dialogue.Context, w *World) {
	if p.weapon.Size() < 1 {
		ctx.SendShort(p.Meta, "This item no longer exists.")
		return
	}
	p.weapon.UseTop(ctx, w, 0, p, nil)
}

// UseSecondary uses the offhand item in place.
func (p *Player) UseSecondary(ctx *dialogue.Context, w *World) {
	if p.offhand.Size() < 1 {
		ctx.SendShort(p.Meta, "This item no longer exists.")
		return
	}
	p.offhand.UseTop(ctx, w, 0, p, nil)
}

// TakeItemID removes an item by id from any of the player's
// inventories, main first.
func (p *Player) TakeItemID(id uuid.UUID) Item {
	if it := p.main.TakeID(id); it != nil {
		return it
	}
	if it := p.weapon.TakeID(id); it != nil {
		return it
	}
	return p.offhand.TakeID(id)
}

// HealthBar renders the player's status line. The damage figure is the
// equipped weapon's, or bare hands when nothing is held, shifted by the
// body's attack speed modifier.
func (p *Player) HealthBar() string {
	damage := p.body.BaseDamage()
	speed := BarehandSpeed
	if wp := p.Weapon(); wp != nil {
		damage = wp.Damage()
		speed = wp.Speed()
	}
	speed += p.body.AttackSpeed()
	if speed < 100 {
		speed = 100
	}
	return fmt.Sprintf("HP: (%d / %d); Dps: (%s); Gold: %dg\nPrim: %s; Sec: %s",
		p.body.Health(), p.body.MaxHealth(),
		FormatDamage(damage, speed),
		p.body.Money(), p.Primary(), p.Secondary())
}

// RefreshBar pushes the current status line into the player's message.
// It goes out with the next send.
func (p *Player) RefreshBar() {
	p.Meta.Msg().SetHealthBar(p.HealthBar())
}

// checkDeath returns a player to their town's starting area once their
// health hits zero. Other entities stay where they fell.
func checkDeath(ctx *dialogue.Context, w *World, e Entity) {
	if e.Body().Health() > 0 {
		return
	}
	p, ok := e.(*Player)
	if !ok {
		return
	}
	_ = w.MoveEntity(p, StartingCoords(p.Meta.Coords.Town))
}
