package world

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

const (
	gamblingMinPerTown = 22.15
	// A bet wins on 14 or better on a d20, roughly one round in three.
	gamblingWinRoll = 14
)

var gamblingRoller = d20.NewRandomRoller()

var gamblingWinMessages = []string{
	"The dealer stares in disbelief and\nslides your winnings across the table.",
	"A lucky roll. The table goes quiet\nas you collect your gold.",
	"You win this round. Even the dealer\ncracks a smile.",
	"The dice land your way and your\npile of coins grows.",
}

var gamblingLoseMessages = []string{
	"The house takes it all. The dealer\ndoesn't even blink.",
	"Not this time. Your coins vanish\ninto the till.",
	"The dice betray you. The dealer\nsweeps your bet away.",
	"A bad roll. The regulars chuckle\nas the house collects.",
}

var gamblingBrokeMessages = []string{
	"The dealer eyes your empty purse\nand waves you off.",
	"No gold, no game. House rules.",
	"You dig through your pockets and come\nup short. The dealer shakes his head.",
}

// GamblingDen offers three fixed bets scaled to the town. The odds
// favor the house.
type GamblingDen struct {
	base BaseArea
}

func newGamblingDen(t *Town, num int, coords player.Coordinates) Area {
	return &GamblingDen{base: newBaseArea(num, coords)}
}

func (g *GamblingDen) Base() *BaseArea { return &g.base }
func (g *GamblingDen) Kind() string    { return "gambling" }
func (g *GamblingDen) Icon() string    { return " M " }
func (g *GamblingDen) Title() string   { return "Gambling Den" }

func (g *GamblingDen) Specials(w *World, m *player.Meta) []dialogue.Response {
	min := int(gamblingMinPerTown * float64(g.base.Coords().Town))
	return []dialogue.Response{
		gambleResponse(w, min, 2),
		gambleResponse(w, min*2, 2),
		gambleResponse(w, min*4, 3),
	}
}

func gambleResponse(w *World, amount, multiple int) dialogue.Response {
	return dialogue.Simple(fmt.Sprintf("Bet %dg.", amount), func(ctx *dialogue.Context, m *player.Meta) {
		p, err := w.PlayerBody(m)
		if err != nil {
			return
		}
		if !p.Body().SpendMoney(amount) {
			ctx.SendShort(m, text.ChooseText(gamblingBrokeMessages))
			return
		}
		if roll, err := gamblingRoller.Roll("1d20"); err == nil && roll.Value >= gamblingWinRoll {
			p.Body().AddMoney(amount * multiple)
			ctx.SendShort(m, text.ChooseText(gamblingWinMessages))
		} else {
			ctx.SendShort(m, text.ChooseText(gamblingLoseMessages))
		}
		refreshHealthBar(p)
	})
}
