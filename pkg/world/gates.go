package world

import (
	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Gate seals a town at both ends. The far gate carries the crossing
// into the next town; a start gate in any town past the first leads
// back to the previous town's far gate.
type Gate struct {
	base BaseArea
	town *Town
}

func newGate(t *Town, num int, coords player.Coordinates) Area {
	return &Gate{base: newBaseArea(num, coords), town: t}
}

func (g *Gate) Base() *BaseArea { return &g.base }
func (g *Gate) Kind() string    { return "gate" }
func (g *Gate) Icon() string    { return "[G]" }

func (g *Gate) Title() string {
	if g.town.Unlocked() {
		return "Gate"
	}
	return "Locked Gate"
}

func (g *Gate) endGate() bool { return g.base.coords.X > 0 }

func (g *Gate) startingTown() bool { return g.base.coords.Town <= 1 }

func (g *Gate) Entrance() string {
	switch {
	case g.endGate():
		return "You notice that your path concludes at a familiar gate and\nbegin to wonder if there is some sort of key."
	case g.startingTown():
		return "As you gaze upon the sealed grounds that mark the beginning\nof your journey, you reflect upon your new life which has\nforever changed."
	default:
		return "You arrive in front a tall, locked gate, wondering only\nif you can return from whence you came."
	}
}

func (g *Gate) Specials(w *World, m *player.Meta) []dialogue.Response {
	c := g.base.Coords()
	switch {
	case g.endGate():
		return []dialogue.Response{dialogue.Simple("Test going to the next area", func(ctx *dialogue.Context, m *player.Meta) {
			moveTo(w, m, StartingCoords(c.Town+1))
		})}
	case !g.startingTown():
		return []dialogue.Response{dialogue.Simple("Test going to the previous area", func(ctx *dialogue.Context, m *player.Meta) {
			moveTo(w, m, w.Town(c.Town-1).EndGate())
		})}
	}
	return nil
}
