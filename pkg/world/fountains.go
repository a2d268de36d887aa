package world

import (
	"fmt"
	"math/rand"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

const (
	fountainBasePrice = 10
	fountainLevelRate = 7.5
)

// Fountain takes coin donations for a coin-flip chance at a
// town-scaled boon. Every donation raises the next price; one success
// silences the fountain for that player.
type Fountain struct {
	base BaseArea
}

func newFountain(t *Town, num int, coords player.Coordinates) Area {
	return &Fountain{base: newBaseArea(num, coords)}
}

func (f *Fountain) Base() *BaseArea { return &f.base }
func (f *Fountain) Kind() string    { return "fountain" }
func (f *Fountain) Icon() string    { return "[F]" }
func (f *Fountain) Title() string   { return "Fountain" }

func (f *Fountain) Entrance() string { return "Welcome to the test fountain." }

func donationPrice(numDonations, town int) int {
	return (fountainBasePrice + int(float64(town)*fountainLevelRate)) * (numDonations + 1)
}

func (f *Fountain) Specials(w *World, m *player.Meta) []dialogue.Response {
	coords := f.base.Coords()
	if m.Record(coords, "successful_donations") != 0 {
		return []dialogue.Response{dialogue.TextOnly("The gods have already spoken in your\nfavor (do nothing).")}
	}

	price := donationPrice(m.Record(coords, "num_donations"), coords.Town)
	label := fmt.Sprintf("Throw a coin into the fountain (%dg).", price)

	return []dialogue.Response{dialogue.Simple(label, func(ctx *dialogue.Context, m *player.Meta) {
		p, err := w.PlayerBody(m)
		if err != nil {
			return
		}
		if !p.Body().SpendMoney(price) {
			ctx.SendShort(m, "You can't afford this offering.")
			return
		}
		m.IncrRecord(coords, "num_donations")
		refreshHealthBar(p)

		if rand.Intn(2) == 0 {
			m.IncrRecord(coords, "successful_donations")
			effect := FountainEffect(coords.Town)
			effect.Apply(ctx, w, p)

			if effect.Kind == Temporary {
				ctx.SendShort(m, fmt.Sprintf("The gods have blessed you with\n%s %d for %d seconds.", effect.Name, effect.Level, effect.Duration/1000))
			} else {
				ctx.SendShort(m, fmt.Sprintf("The gods have blessed you with\n%s %d.", effect.Name, effect.Level))
			}
		} else {
			ctx.SendShort(m, donationRejected())
		}
	})}
}
