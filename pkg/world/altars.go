package world

import (
	"fmt"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Altar is a shrine to one of the town class's gods. Praying once
// grants a boon, or a blessing-and-curse pair for players sworn to a
// different god.
type Altar struct {
	base BaseArea
	god  God
}

func newAltar(t *Town, num int, coords player.Coordinates) Area {
	return &Altar{base: newBaseArea(num, coords), god: RandomGod(t.class)}
}

func (a *Altar) Base() *BaseArea { return &a.base }
func (a *Altar) Kind() string    { return "altar" }
func (a *Altar) Icon() string    { return " A " }
func (a *Altar) Title() string   { return "Altar" }

func (a *Altar) Entrance() string { return "Monument to " + a.god.Name }

func (a *Altar) Info(w *World, m *player.Meta) string {
	desc := a.god.Info
	if text.HasAutoBreak(desc) {
		desc = text.AutoBreak(text.StripAutoBreak(desc), m.LineLength)
	}
	return fmt.Sprintf("The inscription upon the altar reads:\n\"    Hallowed %s,\n%s\"", a.god.Name, desc)
}

func (a *Altar) Specials(w *World, m *player.Meta) []dialogue.Response {
	if m.Record(a.base.Coords(), "num_uses") != 0 {
		return []dialogue.Response{dialogue.TextOnly("You have already prayed here (do nothing).")}
	}

	return []dialogue.Response{dialogue.Simple("Pray to the god", func(ctx *dialogue.Context, m *player.Meta) {
		p, err := w.PlayerBody(m)
		if err != nil {
			return
		}
		if m.God == a.god.Name {
			PositiveAltarEffect().Apply(ctx, w, p)
		} else {
			blessing, curse := AltarEffect()
			blessing.Apply(ctx, w, p)
			curse.Apply(ctx, w, p)
		}
		m.IncrRecord(a.base.Coords(), "num_uses")
	})}
}
