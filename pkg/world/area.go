package world

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Area is one cell of a town. Kinds share BaseArea for identity, links
// and occupants, and differ in their icon, title and options.
type Area interface {
	Base() *BaseArea

	// Kind identifies the area type; towns index their special areas
	// by it.
	Kind() string

	// Icon is the three-character marker shown on the town map.
	Icon() string

	Title() string
}

// Optional area behaviors, picked up during dialogue assembly.
type (
	// entranceArea shows a one-time message on a player's first visit.
	entranceArea interface{ Entrance() string }

	// infoArea replaces the default town-map info block.
	infoArea interface {
		Info(w *World, m *player.Meta) string
	}

	// specialArea contributes options unique to the area's purpose,
	// like praying or gambling.
	specialArea interface {
		Specials(w *World, m *player.Meta) []dialogue.Response
	}
)

// BaseArea carries what every area kind shares.
type BaseArea struct {
	num    int
	coords player.Coordinates

	mu       sync.Mutex
	links    []player.Coordinates
	entities []Entity
	drop     Item
}

func newBaseArea(num int, coords player.Coordinates) BaseArea {
	return BaseArea{num: num, coords: coords}
}

func (b *BaseArea) Num() int { return b.num }

func (b *BaseArea) Coords() player.Coordinates { return b.coords }

// Links returns the coordinates this area connects to, in the order
// they were added.
func (b *BaseArea) Links() []player.Coordinates {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]player.Coordinates, len(b.links))
	copy(out, b.links)
	return out
}

// AddLink records a connection. Duplicates are dropped so path rerolls
// during town generation can re-link safely.
func (b *BaseArea) AddLink(c player.Coordinates) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, have := range b.links {
		if have == c {
			return
		}
	}
	b.links = append(b.links, c)
}

func (b *BaseArea) AddEntity(e Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entities = append(b.entities, e)
}

func (b *BaseArea) RemoveEntity(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entities {
		if e.Body().ID() == id {
			b.entities = append(b.entities[:i], b.entities[i+1:]...)
			return
		}
	}
}

func (b *BaseArea) Entity(id uuid.UUID) (Entity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entities {
		if e.Body().ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Entities returns a snapshot of the occupants.
func (b *BaseArea) Entities() []Entity {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entity, len(b.entities))
	copy(out, b.entities)
	return out
}

// ContainsKind reports whether any occupant is of the kind.
func (b *BaseArea) ContainsKind(kind string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entities {
		if e.Kind() == kind {
			return true
		}
	}
	return false
}

// SetDrop stores the area's guaranteed drop. Every town plants its
// gate key in one area this way.
func (b *BaseArea) SetDrop(it Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drop = it
}

func (b *BaseArea) HasDrop() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drop != nil
}

// TakeDrop removes and returns the guaranteed drop, nil when spent.
func (b *BaseArea) TakeDrop() Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	it := b.drop
	b.drop = nil
	return it
}

// AreaThunk builds the option screen for whatever area the player is
// standing in. FromArea transitions in the dialogue engine run through
// this.
func (w *World) AreaThunk() dialogue.Thunk {
	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		a, err := w.Area(m.Coords)
		if err != nil {
			return nil
		}
		return AreaDialogue(w, a, m)
	}
}

// AreaDialogue assembles the screen a player sees in an area: the
// entrance text on a first visit, the town map, movement between
// connected areas, the area's own specials, interactions with the other
// occupants, and the standing commands. An area holding mobs shows the
// fight sequence instead.
func AreaDialogue(w *World, a Area, m *player.Meta) *dialogue.Dialogue {
	base := a.Base()
	if base.ContainsKind("mob") {
		return dialogue.Empty(m.ID)
	}

	title := fmt.Sprintf("Town #%d; Area #%d: %s", base.Coords().Town, base.Num(), a.Title())
	d := dialogue.New(title, m.ID)

	d.Responses = append(d.Responses, movementResponses(w, a)...)
	if sp, ok := a.(specialArea); ok {
		d.Responses = append(d.Responses, sp.Specials(w, m)...)
	}
	d.Responses = append(d.Responses, interactionResponses(w, base, m)...)
	d.Commands = areaCommands(w, m)

	if ent, ok := a.(entranceArea); ok && !m.Visited(base.Coords()) {
		m.RecordVisit(base.Coords())
		d.Text = ent.Entrance()
	}

	if inf, ok := a.(infoArea); ok {
		d.Info = inf.Info(w, m)
	} else {
		d.Info = w.Town(base.Coords().Town).Map(m)
	}
	return d
}

// movementResponses links the area to its neighbors. A dead end gets a
// single "walk away" line; anything else is labeled by direction.
func movementResponses(w *World, a Area) []dialogue.Response {
	base := a.Base()
	from := base.Coords()
	links := base.Links()

	out := make([]dialogue.Response, 0, len(links))
	for _, to := range links {
		to := to
		label := directionLabel(w, len(links), from, to)
		out = append(out, dialogue.Simple(label, func(ctx *dialogue.Context, m *player.Meta) {
			moveTo(w, m, to)
		}))
	}
	return out
}

// moveTo relocates a player's body. A player without a body (still in
// character creation) stays put.
func moveTo(w *World, m *player.Meta, to player.Coordinates) {
	p, err := w.PlayerBody(m)
	if err != nil {
		return
	}
	_ = w.MoveEntity(p, to)
}

func directionLabel(w *World, numLinks int, from, to player.Coordinates) string {
	if numLinks == 1 {
		return fmt.Sprintf("Walk away from the %s", areaTitle(w, from))
	}
	return fmt.Sprintf("Go %s: %s", direction(from, to), areaTitle(w, to))
}

func areaTitle(w *World, c player.Coordinates) string {
	a, err := w.Area(c)
	if err != nil {
		return ""
	}
	return a.Title()
}

// direction names the step between two adjacent cells. Generation only
// ever links neighbors, so anything else is a corrupted town.
func direction(from, to player.Coordinates) string {
	switch {
	case to.Z == from.Z && to.X == from.X+1:
		return "forward"
	case to.Z == from.Z && to.X == from.X-1:
		return "backward"
	case to.X == from.X && to.Z == from.Z+1:
		return "right"
	case to.X == from.X && to.Z == from.Z-1:
		return "left"
	}
	panic(fmt.Sprintf("world: link between non-adjacent areas %v and %v", from, to))
}

// interactionResponses offers the other occupants: speakers get their
// own dialogue, other players get a wave and a trade.
func interactionResponses(w *World, base *BaseArea, m *player.Meta) []dialogue.Response {
	var out []dialogue.Response
	for _, e := range base.Entities() {
		if e.Body().ID() == m.ID {
			continue
		}
		if s, ok := e.(Speaker); ok {
			out = append(out, speakResponse(w, s, m))
		}
		if p, ok := e.(*Player); ok {
			out = append(out, waveResponse(p), tradeResponse(p))
		}
	}
	return out
}

var waveMessages = []string{
	"<name> says hello!",
	"<name> says hi!",
	"<name>, a fellow player, has called out\nto you.",
	"You have been contacted by <name>.",
	"A strange creature known as \"<name>\"\nis shaking its hands at you.",
	"You notice a bizarre machination which\ncalls itself \"<name>\" staring in your\ndirection.",
	"You can't help but notice you're being\nwatched by <name>.",
	"You stop and gaze upon the horror that\nis <name>.",
	"Frightened, you turn around to get away\nfrom <name>.",
	"You must be special. <name> has been\nwatching you.",
}

var waveMissedMessages = []string{
	"They were too busy to notice you, but heard your message.",
	"They didn't see you there, but got your message.",
}

// waveResponse greets another player. The receiver's display refreshes
// with the notice; if they can't be reached anymore the sender is told
// the message still landed.
func waveResponse(target *Player) dialogue.Response {
	receiverID := target.Meta.ID
	respText := fmt.Sprintf("Wave to %s.", target.Body().Name())
	return dialogue.ActionOnly(respText, func(ctx *dialogue.Context, m *player.Meta) {
		recv, ok := ctx.Players.Player(receiverID)
		if !ok {
			ctx.SendShort(m, text.Choose(waveMissedMessages))
			return
		}
		recv.AddShort(text.Generate(waveMessages, "<name>", m.Name))
		ctx.SendOptions(recv)
		ctx.SendOptions(m)
	})
}

func tradeResponse(target *Player) dialogue.Response {
	return dialogue.TextOnly(fmt.Sprintf("Trade with %s", target.Body().Name()))
}

// areaCommands are the standing commands every normal area offers.
func areaCommands(w *World, m *player.Meta) []dialogue.Command {
	commands := []dialogue.Command{
		dialogue.GotoCommand("i", "View your inventory", regenInventory(w)),
	}
	if p, err := w.PlayerBody(m); err == nil && p.Secondary() != "None" {
		commands = append(commands, dialogue.SimpleCommand("s", "Use your secondary item.",
			func(ctx *dialogue.Context, m *player.Meta, _ []string) {
				p, err := w.PlayerBody(m)
				if err != nil {
					return
				}
				p.UseSecondary(ctx, w)
			}))
	}
	return commands
}
