package world

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// ItemInfo pairs an item id with its rendered stat block, so listings
// can be matched back to the item they described.
type ItemInfo struct {
	ID   uuid.UUID
	Text string
}

// Slot stacks items of one kind. Capacity comes from the first item
// stored.
type Slot struct {
	items []Item
	kind  string
	max   int
}

func newSlot(it Item) *Slot {
	return &Slot{items: []Item{it}, kind: it.Kind(), max: it.MaxStack()}
}

func (s *Slot) Size() int { return len(s.items) }

func (s *Slot) CanHoldMore() bool { return len(s.items) < s.max }

func (s *Slot) CanAdd(it Item) bool {
	return s.CanHoldMore() && it.Kind() == s.kind
}

// Top returns the item next in line to be used or taken.
func (s *Slot) Top() Item {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *Slot) Info(priceFactor float64) ItemInfo {
	top := s.Top()
	return ItemInfo{
		ID:   top.ID(),
		Text: fmt.Sprintf("(%dx) %s", len(s.items), top.Info(priceFactor)),
	}
}

// Inventory is an ordered set of item slots with a fixed capacity.
type Inventory struct {
	slots []*Slot
	max   int
}

func NewInventory(max int) *Inventory {
	return &Inventory{max: max}
}

func (v *Inventory) MaxSize() int { return v.max }

// Size counts occupied slots.
func (v *Inventory) Size() int { return len(v.slots) }

// Slot returns the i-th slot, nil when out of range.
func (v *Inventory) Slot(i int) *Slot {
	if i < 0 || i >= len(v.slots) {
		return nil
	}
	return v.slots[i]
}

func (v *Inventory) CanHoldMore() bool { return len(v.slots) < v.max }

// CanAdd reports whether the item fits: a free slot or an existing
// stack of its kind with room.
func (v *Inventory) CanAdd(it Item) bool {
	if v.CanHoldMore() {
		return true
	}
	for _, s := range v.slots {
		if s.CanAdd(it) {
			return true
		}
	}
	return false
}

// Add stacks the item onto an existing slot when possible, otherwise
// opens a new one.
func (v *Inventory) Add(it Item) {
	for _, s := range v.slots {
		if s.CanAdd(it) {
			s.items = append(s.items, it)
			return
		}
	}
	v.slots = append(v.slots, newSlot(it))
}

// Take removes and returns the top item of slot i, dropping the slot
// once empty. Returns nil when out of range.
func (v *Inventory) Take(i int) Item {
	s := v.Slot(i)
	if s == nil || len(s.items) == 0 {
		return nil
	}
	it := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	if len(s.items) == 0 {
		v.slots = append(v.slots[:i], v.slots[i+1:]...)
	}
	return it
}

// SlotIndex finds the slot whose top item has the given id, -1 when
// absent.
func (v *Inventory) SlotIndex(id uuid.UUID) int {
	for i, s := range v.slots {
		if top := s.Top(); top != nil && top.ID() == id {
			return i
		}
	}
	return -1
}

// TakeID removes the item with the given id, nil when absent.
func (v *Inventory) TakeID(id uuid.UUID) Item {
	i := v.SlotIndex(id)
	if i < 0 {
		return nil
	}
	return v.Take(i)
}

// Transfer moves the top item of slot i into dst. Reports whether dst
// could hold it.
func (v *Inventory) Transfer(i int, dst *Inventory) bool {
	s := v.Slot(i)
	if s == nil {
		return false
	}
	top := s.Top()
	if top == nil || !dst.CanAdd(top) {
		return false
	}
	dst.Add(v.Take(i))
	return true
}

// Each visits every item until fn returns true.
func (v *Inventory) Each(fn func(Item) bool) {
	for _, s := range v.slots {
		for _, it := range s.items {
			if fn(it) {
				return
			}
		}
	}
}

// HasKind reports whether any held item is of the kind.
func (v *Inventory) HasKind(kind string) bool {
	found := false
	v.Each(func(it Item) bool {
		found = it.Kind() == kind
		return found
	})
	return found
}

// Infos renders one line block per slot.
func (v *Inventory) Infos(priceFactor float64) []ItemInfo {
	out := make([]ItemInfo, 0, len(v.slots))
	for _, s := range v.slots {
		out = append(out, s.Info(priceFactor))
	}
	return out
}

// FormatInfos numbers the blocks for display.
func FormatInfos(infos []ItemInfo) string {
	ret := ""
	for i, info := range infos {
		ret += fmt.Sprintf("#%d: %s", i+1, info.Text)
		if i != len(infos)-1 {
			ret += "\n"
		}
	}
	return ret
}

// UseTop spends and uses the top item of slot i, removing it once worn
// out. The item's message, if any, goes back to the user.
func (v *Inventory) UseTop(ctx *dialogue.Context, w *World, i int, user, target Entity) {
	s := v.Slot(i)
	if s == nil {
		return
	}
	it := s.Top()
	if it == nil {
		return
	}
	it.Spend()
	msg := ""
	if u, ok := it.(Usable); ok {
		msg = u.Use(ctx, w, user, target)
	}
	if it.Uses() <= 0 {
		v.Take(i)
		if user != nil {
			refreshHealthBar(user)
		}
	}
	if msg == "" || user == nil {
		return
	}
	if p, ok := user.(*Player); ok {
		ctx.SendShort(p.Meta, msg)
	}
}

// InventoryDialogue builds the player's "Inventory" screen: the item
// listing plus equip and use commands that rebuild the screen after
// each action.
func InventoryDialogue(w *World, p *Player) *dialogue.Dialogue {
	d := dialogue.New("Inventory", p.Meta.ID)
	d.Info = FormatInfos(p.Inventory().Infos(1))
	d.Responses = []dialogue.Response{dialogue.TextOnly("Close inventory.")}
	d.Commands = []dialogue.Command{equipCommand(w), useCommand(w)}
	return d
}

func regenInventory(w *World) dialogue.Thunk {
	return func(ctx *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
		wc, err := w.PlayerContext(m.ID)
		if err != nil {
			return nil
		}
		return InventoryDialogue(w, wc.Body)
	}
}

func equipCommand(w *World) dialogue.Command {
	return dialogue.Command{
		Input:  "e #",
		Output: "Equip item #.",
		Run: func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				ctx.SendShort(m, "You must specify the item #.")
				return
			}
			num, err := strconv.Atoi(args[0])
			if err != nil {
				ctx.SendShort(m, "Not sure what you're trying to do, there.")
				return
			}
			wc, werr := w.PlayerContext(m.ID)
			if werr != nil {
				return
			}
			if num < 1 || num > wc.Body.Inventory().Size() {
				ctx.SendShort(m, "Invalid item #.")
				return
			}
			wc.Body.EquipItem(ctx, w, num)
		},
		Next: dialogue.Generate(regenInventory(w)),
	}
}

func useCommand(w *World) dialogue.Command {
	return dialogue.Command{
		Input:  "u #",
		Output: "Use item #.",
		Run: func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				ctx.SendShort(m, "You must specify the item #.")
				return
			}
			num, err := strconv.Atoi(args[0])
			if err != nil || num < 1 {
				ctx.SendShort(m, "Not sure what you're trying to do, there.")
				return
			}
			wc, werr := w.PlayerContext(m.ID)
			if werr != nil {
				return
			}
			wc.Body.UseItem(ctx, w, num, nil)
		},
		Next: dialogue.Generate(regenInventory(w)),
	}
}
