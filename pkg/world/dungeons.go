package world

import (
	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Dungeon hides the town's gate key. The fight sequence that should
// guard it is not in yet, so for now the key sits in the rubble.
type Dungeon struct {
	base BaseArea
}

func newDungeon(t *Town, num int, coords player.Coordinates) Area {
	d := &Dungeon{base: newBaseArea(num, coords)}
	d.base.SetDrop(NewTownKey())
	return d
}

func (d *Dungeon) Base() *BaseArea { return &d.base }
func (d *Dungeon) Kind() string    { return "dungeon" }
func (d *Dungeon) Icon() string    { return " D " }
func (d *Dungeon) Title() string   { return "Test Dungeon" }

// SpawnsMobs marks the area for the fight sequence.
func (d *Dungeon) SpawnsMobs() bool { return true }

func (d *Dungeon) Entrance() string {
	return "You enter an empty dungeon and remember that this game is in alpha."
}

func (d *Dungeon) Specials(w *World, m *player.Meta) []dialogue.Response {
	if !d.base.HasDrop() {
		return nil
	}

	return []dialogue.Response{dialogue.Simple("Search the rubble.", func(ctx *dialogue.Context, m *player.Meta) {
		p, err := w.PlayerBody(m)
		if err != nil {
			return
		}
		it := d.base.TakeDrop()
		if it == nil {
			ctx.SendShort(m, "Someone has already picked this place clean.")
			return
		}
		if !p.Inventory().CanAdd(it) {
			d.base.SetDrop(it)
			ctx.SendShort(m, "You don't have room to carry what you find.")
			return
		}
		p.Inventory().Add(it)
		w.Town(d.base.Coords().Town).FindKey()
		ctx.SendShort(m, "Buried in the rubble, you find a Tarnished Key.")
	})}
}
