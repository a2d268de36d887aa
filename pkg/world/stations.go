package world

import (
	"fmt"
	"strconv"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Fare constants: the per-town rate bump, the surcharge per reuse, and
// the base fare that spreads out across a town's distance.
const (
	ratePerTown    = 1.26
	reusePriceRate = 1.05
	startingPrice  = 600
)

var stationEntranceText = []string{
	"§Welcome to station #<station>. Our trains can make it as far as <south>km south, " +
		"while our north-bound travels are going as far as <north>km.∫ " +
		"Ask the conductor to find out we're going.",
	"§Welcome to station #<station>. These trains are going down about <south>km from here. " +
		"We're also travelling all the way up as far as <north> km.∫ " +
		"Ask the conductor for more information.",
	"§Welcome to station #<station>. These old rails can make it anywhere from <south>km south " +
		"to <north>km north.∫ Feel free to ask the conductor for more information about our travels.",
	"§Hello and welcome to station #<station>. Our conductor's fares will go as far as <south>km south " +
		"and <north>km north.∫ Enjoy your travels and don't hesitate to ask the conductor for more information.",
	"§Hello, there! Welcome to station #<station>. We're currently offering travels south-bound " +
		"as far as <south>km from here, and roughly <north>km north-bound.∫ " +
		"Enjoy your travels and feel free to speak to the conductor, if you need anything else.",
}

var travelPassInfoText = []string{
	"§You can use travel passes to travel between towns. Travel passes are stored inside of a booklet, " +
		"which is fairly cheap and can hold up to five passes at a time.∫ " +
		"Depending on the class you purchase, passes can be reused for free until they run out.",
	"§Travel passes can be used to travel between towns. You can hold up to five passes inside of " +
		"a travel booklet, which can be purchased for fairly cheap.∫ " +
		"Depending on which class you purchase, you'll be able to reuse them for free until they run out.",
	"§We sell travel passes, which can be used at any station to travel between towns. " +
		"You can hold up to five of these passes inside of a travel booklet.∫ " +
		"Each pass can be reused a certain number of times, depending on which class you purchase.",
}

var passPurchaseInfoText = []string{
	"§We're currently selling passes at about <rate>g per km.∫0.5 " +
		"If you need a booklet to hold more, you can buy one for about <booklet>g.",
	"§Our travel passes are currently going for about <rate>g per km.∫0.5 " +
		"if your booklet is running low on space or if you need to purchase a new one, " +
		"you can buy one from us for about <booklet>g.",
	"§We sell travel passes for roughly <rate>g per km.∫0.5 " +
		"If needed, you can also buy a booklet for about <booklet>g.",
}

var passPurchaseText = []string{
	"§We'll sell you a pass for anywhere from town #<south> to town #<north>. " +
		"The current rate per town is <rate>g.∫0.5 " +
		"If you want to purchase a reusable ticket, just let me know and I'll give you an upgrade.",
	"§Looks like we're selling tickets for anywhere from town #<south> to town #<north>. " +
		"They're going at about <rate>g per town.∫0.5 " +
		"If you want me to upgrade your ticket so you can reuse it, just let me know and " +
		"I'll see what I can arrange.",
	"§We're currently offering travel passes that will take you from town #<south> to town #<north>. " +
		"But it's not easy going long distance, so each kilometer will cost you an extra <rate>g.∫0.5 " +
		"If you like, I can upgrade your pass for you so you can reuse it later on. " +
		"Just say so, if that's what you need.",
}

var passUseText = []string{
	"§Very well. Just let me know the number of the town you'd like to travel to and we'll set off.",
	"§Ah, yes. Just let me know which town you'd like to travel to and we'll be on our way shortly.",
	"§Very good. Just tell me which town you'd like to travel to and we'll leave shortly.",
}

// Station sells train passes and carries players between towns. How far
// the line reaches is fixed for the first three towns and rolled for
// the rest, leaning farther south than north.
type Station struct {
	base          BaseArea
	distanceSouth int
	distanceNorth int
}

func newStation(t *Town, num int, coords player.Coordinates) Area {
	town := coords.Town
	var south, north int
	switch town {
	case 1:
		south, north = 0, 9
	case 2:
		south, north = 1, 5
	case 3:
		south, north = 2, 2
	default:
		variance := town/3 + 1
		max := randRange(town-variance, town+variance)
		south = int(float64(max)*0.6) + 1
		north = int(float64(max)*0.5) + 1
	}
	return &Station{base: newBaseArea(num, coords), distanceSouth: south, distanceNorth: north}
}

func (s *Station) Base() *BaseArea { return &s.base }
func (s *Station) Kind() string    { return "station" }
func (s *Station) Icon() string    { return " T " }
func (s *Station) Title() string   { return "Travel Station" }

func (s *Station) Entrance() string {
	return text.Generate(stationEntranceText,
		"<station>", strconv.Itoa(s.base.Coords().Town),
		"<south>", strconv.Itoa(s.distanceSouth),
		"<north>", strconv.Itoa(s.distanceNorth),
	)
}

func (s *Station) Specials(w *World, m *player.Meta) []dialogue.Response {
	town := s.base.Coords().Town
	return []dialogue.Response{
		dialogue.ActionOnly("§Ask for more information about travel passes.", func(ctx *dialogue.Context, m *player.Meta) {
			ctx.SendBlocking(m, text.ChooseText(travelPassInfoText))
		}),
		dialogue.ActionOnly("Ask about buying travel passes.", func(ctx *dialogue.Context, m *player.Meta) {
			ctx.SendBlocking(m, text.Generate(passPurchaseInfoText,
				"<rate>", strconv.Itoa(int(travelRate(town))),
				"<booklet>", strconv.Itoa(bookletPrice(town)),
			))
		}),
		dialogue.Goto("Use one of your passes.", s.usePassDialogue(w)),
		dialogue.Goto("Buy a new travel booklet.", s.purchaseBookletDialogue(w)),
		dialogue.Goto("Add a pass to your booklet.", s.purchasePassDialogue(w)),
	}
}

// travelRate is the per-town fare from this town.
func travelRate(town int) float64 {
	return startingPrice/float64(town) + ratePerTown*float64(town)
}

func travelPrice(town, to int) int {
	d := to - town
	if d < 0 {
		d = -d
	}
	return int(travelRate(town) * float64(d))
}

func ticketPrice(travelPrice, uses int) int {
	return travelPrice + int(float64(uses)*reusePriceRate)
}

func bookletPrice(town int) int {
	return int(float64(town)*ratePerTown) + 10
}

func (s *Station) usePassDialogue(w *World) dialogue.Thunk {
	town := s.base.Coords().Town
	southBound := town - s.distanceSouth
	northBound := town + s.distanceNorth

	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		d := dialogue.New("Use a Pass", m.ID)
		d.Text = text.ChooseText(passUseText)
		d.Responses = []dialogue.Response{dialogue.TextOnly("Walk away.")}
		d.Commands = []dialogue.Command{
			dialogue.ActionCommand("goto #", "Go to town #.", func(ctx *dialogue.Context, m *player.Meta, args []string) {
				handleUsePass(ctx, w, m, args, southBound, northBound)
			}),
		}
		return d
	}
}

// handleUsePass validates the whole trip before anything is spent; the
// pass is only consumed once the travel dialogue is safely closed.
func handleUsePass(ctx *dialogue.Context, w *World, m *player.Meta, args []string, southBound, northBound int) {
	if len(args) < 1 {
		ctx.SendShort(m, "Excuse me?")
		return
	}
	to, err := strconv.Atoi(args[0])
	if err != nil {
		ctx.SendShort(m, "§I'm not sure exactly where you're trying to go.")
		return
	}
	if to > northBound || to < southBound {
		ctx.SendShort(m, "§Sorry, but we can't quite take you home from here. You'll need to make a connection to get that far.")
		return
	}
	p, err := w.PlayerBody(m)
	if err != nil {
		return
	}
	book := findPassBook(p.Inventory(), func(b *PassBook) bool { return b.HasPass(to) })
	if book == nil {
		ctx.SendShort(m, "§Looks like you don't actually have a pass for this area. Maybe buy one or try again.")
		return
	}
	if _, err := ctx.Registry.TryDeleteExclusive(m.ID); err != nil {
		ctx.SendShort(m, "§You should finish your current dialogues before moving on.")
		return
	}
	book.UsePass(to)

	dest, ok := w.Town(to).LocateArea("station")
	if !ok {
		panic(fmt.Sprintf("world: town %d generated without a station", to))
	}
	moveTo(w, m, dest)

	a, err := w.Area(dest)
	if err != nil {
		return
	}
	ctx.Registry.Register(AreaDialogue(w, a, m))
	ctx.UpdateOptions(m)
	ctx.SendBlocking(m, "∫0.3.∫0.3 .∫0.3 .∫0.3 .∫0.3 .")
}

func (s *Station) purchaseBookletDialogue(w *World) dialogue.Thunk {
	price := bookletPrice(s.base.Coords().Town)
	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		return dialogue.NewSimple(m.ID, "Confirm Purchase",
			fmt.Sprintf("Sure thing! That'll be %dg.", price),
			[]dialogue.Response{
				dialogue.Simple("Walk away.", func(ctx *dialogue.Context, m *player.Meta) {
					m.AddShort("§No harm done. Just let me know if you need anything else.")
				}),
				dialogue.Simple("Purchase item.", func(ctx *dialogue.Context, m *player.Meta) {
					buyBooklet(ctx, w, m, price)
				}),
			})
	}
}

func buyBooklet(ctx *dialogue.Context, w *World, m *player.Meta, price int) {
	p, err := w.PlayerBody(m)
	if err != nil {
		return
	}
	booklet := NewPassBook()
	if !p.Inventory().CanAdd(booklet) {
		m.AddShort("§Looks like you don't have enough space for that. Make some and come back later.")
		return
	}
	p.Inventory().Add(booklet)
	p.Body().AddMoney(-price)
	refreshHealthBar(p)
	m.AddShort("Thanks for your purchase!")
}

func (s *Station) purchasePassDialogue(w *World) dialogue.Thunk {
	town := s.base.Coords().Town
	southBound := town - s.distanceSouth
	northBound := town + s.distanceNorth
	rate := int(travelRate(town))

	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		d := dialogue.New("Buy a Pass", m.ID)
		d.Text = text.Generate(passPurchaseText,
			"<south>", strconv.Itoa(southBound),
			"<north>", strconv.Itoa(northBound),
			"<rate>", strconv.Itoa(rate),
		)
		d.Responses = []dialogue.Response{dialogue.TextOnly("Walk away.")}
		d.Commands = []dialogue.Command{
			dialogue.ActionCommand("buy #x #y", "Buy a pass for town #x with #y uses.", func(ctx *dialogue.Context, m *player.Meta, args []string) {
				handlePurchasePass(ctx, w, m, args, town, southBound, northBound)
			}),
		}
		return d
	}
}

func handlePurchasePass(ctx *dialogue.Context, w *World, m *player.Meta, args []string, town, southBound, northBound int) {
	if len(args) < 1 {
		ctx.SendShort(m, "Excuse me?")
		return
	}
	to, err := strconv.Atoi(args[0])
	if err != nil {
		ctx.SendShort(m, "You may need to speak up, there.")
		return
	}
	if to > northBound || to < southBound {
		ctx.SendShort(m, "§Sorry, but we can't quite take you home from here. You'll need to make a connection to get that far.")
		return
	}
	uses := 1
	if len(args) > 1 {
		uses, err = strconv.Atoi(args[1])
		if err != nil {
			ctx.SendShort(m, "§I'm not really sure how many uses you're looking for.")
			return
		}
	}

	p, err := w.PlayerBody(m)
	if err != nil {
		return
	}
	full := ticketPrice(travelPrice(town, to), uses)
	if p.Body().Money() < full {
		ctx.SendShort(m, "Sorry, there, but you can't afford that.")
		return
	}
	if findPassBook(p.Inventory(), func(b *PassBook) bool { return b.CanHoldMore() }) == nil {
		ctx.SendShort(m, "§Looks like you don't have a place for that. You might want to buy a new travel book.")
		return
	}
	confirmPassPurchase(ctx, w, m, full, to, uses)
}

// confirmPassPurchase puts a temporary yes/no in front of the charge.
func confirmPassPurchase(ctx *dialogue.Context, w *World, m *player.Meta, price, to, uses int) {
	onYes := func(ctx *dialogue.Context, m *player.Meta) {
		p, err := w.PlayerBody(m)
		if err != nil {
			return
		}
		book := findPassBook(p.Inventory(), func(b *PassBook) bool { return b.CanHoldMore() })
		if book == nil {
			m.AddShort("§Huh... That's odd. Looks like you no longer have a book.")
			return
		}
		book.AddPass(to, uses)
		p.Body().AddMoney(-price)
		refreshHealthBar(p)
		m.AddShort("§Thanks for doing business with us! You can use this whenever you like.")
	}
	onNo := func(ctx *dialogue.Context, m *player.Meta) {
		m.AddShort("That's too bad∫0.2.∫0.2.∫0.2.∫0.3 Let me know if you\nneed anything else.")
	}

	ctx.Registry.Register(dialogue.Confirm(ctx, m.ID, true, onYes, onNo))
	ctx.UpdateOptions(m)
	ctx.SendBlocking(m, fmt.Sprintf("Thanks! That's gonna be %dg.", price))
}

// findPassBook scans the inventory for the first booklet matching the
// condition.
func findPassBook(inv *Inventory, match func(*PassBook) bool) *PassBook {
	var found *PassBook
	inv.Each(func(it Item) bool {
		if b, ok := it.(*PassBook); ok && match(b) {
			found = b
			return true
		}
		return false
	})
	return found
}
