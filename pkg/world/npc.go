package world

import (
	"fmt"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Dialogue markers label the screens a speaker can jump between.
// Marker 0 is the opening screen and is what a player lands on when
// returning to a speaker they have already met.
const (
	markerMain = iota
	markerTrades
	markerSpecialTrades
)

// Speaker is an entity a player can open a dialogue with.
type Speaker interface {
	Entity

	// ResponseText is the line offered in the area's option list.
	ResponseText(m *player.Meta) string

	// DialogueFor opens the speaker's dialogue, introducing it on the
	// first meeting.
	DialogueFor(w *World, m *player.Meta) *dialogue.Dialogue

	// DialogueAt jumps to a specific screen.
	DialogueAt(w *World, m *player.Meta, marker int) *dialogue.Dialogue
}

// gotoEntity re-resolves the speaker at click time and opens the given
// screen. Speakers can leave the area between sends, in which case the
// player falls back onto the area's own options.
func gotoEntity(w *World, acc Accessor, marker int) dialogue.Thunk {
	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		e, err := w.Entity(acc)
		if err == nil {
			if s, ok := e.(Speaker); ok {
				return s.DialogueAt(w, m, marker)
			}
		}
		ctx.SendShort(m, "They got bored and walked away.")
		return ctx.AreaDialogue(ctx, m)
	}
}

// speakResponse is the area option that opens a speaker's dialogue.
func speakResponse(w *World, s Speaker, m *player.Meta) dialogue.Response {
	acc := accessorFor(s)
	return dialogue.Response{
		Text: s.ResponseText(m),
		Next: dialogue.Generate(func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
			e, err := w.Entity(acc)
			if err == nil {
				if sp, ok := e.(Speaker); ok {
					return sp.DialogueFor(w, m)
				}
			}
			ctx.SendShort(m, "They got bored and walked away.")
			return ctx.AreaDialogue(ctx, m)
		}),
	}
}

// NPC is a generated townsperson. Every one carries a small food trade
// and a weapon trade that only opens up to players sharing its god.
type NPC struct {
	body          Body
	description   string
	god           string
	title         string
	intro         string
	foodTrades    *PersistentShop
	specialTrades *BlacksmithShop
}

func NewNPC(class player.Class, coords player.Coordinates) *NPC {
	name, description := randNPCDetails()
	return &NPC{
		body:          newBody(name, 10, 5, coords),
		description:   description,
		god:           RandomGod(class).Name,
		foodTrades:    NewPersistentShop([]Item{PoisonousPotato()}),
		specialTrades: NewBlacksmithShop(coords.Town),
	}
}

// NewNPCWithIntro builds an NPC that opens with its own line and has
// nothing to sell on the main trade.
func NewNPCWithIntro(intro string, class player.Class, coords player.Coordinates) *NPC {
	n := NewNPC(class, coords)
	n.intro = intro
	n.foodTrades = NewPersistentShop(nil)
	return n
}

func (n *NPC) Body() *Body { return &n.body }

func (n *NPC) Kind() string { return "npc" }

func (n *NPC) Description() string { return n.description }

func (n *NPC) ResponseText(m *player.Meta) string {
	if m.Met(n.body.ID()) {
		if n.title != "" {
			return fmt.Sprintf("Speak to %s: %s", n.body.Name(), n.title)
		}
		return fmt.Sprintf("Speak to %s.", n.body.Name())
	}
	return fmt.Sprintf("Speak to the %s.", n.description)
}

func (n *NPC) DialogueFor(w *World, m *player.Meta) *dialogue.Dialogue {
	if !m.Met(n.body.ID()) {
		m.Meet(n.body.ID())
		return n.mainDialogue(w, m, true)
	}
	return n.DialogueAt(w, m, m.Marker(n.body.ID()))
}

func (n *NPC) DialogueAt(w *World, m *player.Meta, marker int) *dialogue.Dialogue {
	acc := accessorFor(n)
	switch marker {
	case markerTrades:
		return ShopDialogue(w, n.foodTrades, m, true, 1.0, gotoEntity(w, acc, markerTrades))
	case markerSpecialTrades:
		return ShopDialogue(w, n.specialTrades, m, false, 1.0, gotoEntity(w, acc, markerSpecialTrades))
	default:
		return n.mainDialogue(w, m, false)
	}
}

// mainDialogue is the NPC's opening screen. Introductions show once;
// players sharing the NPC's god get greeted and offered the special
// trade instead.
func (n *NPC) mainDialogue(w *World, m *player.Meta, introTitle bool) *dialogue.Dialogue {
	title := n.body.Name()
	if introTitle {
		title = fmt.Sprintf("Hi, I'm %s.", n.body.Name())
	}
	d := dialogue.New(title, m.ID)
	acc := accessorFor(n)

	d.Responses = append(d.Responses, dialogue.Response{
		Text: "View main trades",
		Next: dialogue.Generate(gotoEntity(w, acc, markerTrades)),
	})
	if n.god == m.God {
		d.Text = sameGodGreeting(n.god)
		d.Responses = append(d.Responses, dialogue.Response{
			Text: "View special trades",
			Next: dialogue.Generate(gotoEntity(w, acc, markerSpecialTrades)),
		})
	} else if introTitle && n.intro != "" {
		d.Text = n.intro
	}
	d.Responses = append(d.Responses, dialogue.TextOnly(
		fmt.Sprintf("Walk away from %s, the %s.", n.body.Name(), n.description)))
	return d
}

// Shopkeeper runs a town's smithy.
type Shopkeeper struct {
	body  Body
	title string
	god   string
	shop  *BlacksmithShop
}

func NewShopkeeper(coords player.Coordinates) *Shopkeeper {
	return &Shopkeeper{
		body:  newBody("Blacksmith Guy", 10, 5, coords),
		title: "Ordinary Blacksmith",
		god:   RandomGod(player.Melee).Name,
		shop:  NewBlacksmithShop(coords.Town),
	}
}

func (k *Shopkeeper) Body() *Body { return &k.body }

func (k *Shopkeeper) Kind() string { return "keeper" }

func (k *Shopkeeper) ResponseText(m *player.Meta) string {
	if m.Met(k.body.ID()) {
		return fmt.Sprintf("Speak to %s: %s", k.body.Name(), k.title)
	}
	return "Speak to the blacksmith."
}

func (k *Shopkeeper) DialogueFor(w *World, m *player.Meta) *dialogue.Dialogue {
	if !m.Met(k.body.ID()) {
		m.Meet(k.body.ID())
	}
	return k.DialogueAt(w, m, markerTrades)
}

func (k *Shopkeeper) DialogueAt(w *World, m *player.Meta, _ int) *dialogue.Dialogue {
	acc := accessorFor(k)
	return ShopDialogue(w, k.shop, m, false, 1.0, gotoEntity(w, acc, markerTrades))
}
