package world

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// PurchaseResult classifies one buy attempt.
type PurchaseResult int

const (
	PurchaseOK PurchaseResult = iota
	PurchaseNotFound
	PurchaseCantAfford
	PurchaseCantHold
)

// Shop is a stocked inventory with trade rates. Restock fires whenever
// the stock runs out.
type Shop interface {
	Inventory() *Inventory
	// SellRate is the fraction of base price the shop pays for player
	// items.
	SellRate() float64
	// BuyRate scales the shop's own prices.
	BuyRate() float64
	Restock()
}

// Buy moves the identified item from the shop to the player for its
// adjusted price. An emptied shop restocks immediately.
func Buy(s Shop, p *Player, itemID uuid.UUID, priceFactor float64) PurchaseResult {
	inv := s.Inventory()
	slot := inv.SlotIndex(itemID)
	if slot < 0 {
		return PurchaseNotFound
	}
	it := inv.Slot(slot).Top()
	price := AdjustedPrice(it.Price(), priceFactor)
	if p.Body().Money() < price {
		return PurchaseCantAfford
	}
	if !p.Inventory().CanAdd(it) {
		return PurchaseCantHold
	}
	p.Inventory().Add(inv.Take(slot))
	p.Body().SpendMoney(price)
	refreshHealthBar(p)
	if inv.Size() == 0 {
		s.Restock()
	}
	return PurchaseOK
}

// ShopDialogue builds the "Trades" screen over the shop's current
// stock. The regen thunk rebuilds the screen after each purchase so the
// listing and numbering stay current. Selling is stubbed out.
func ShopDialogue(w *World, s Shop, m *player.Meta, allowSales bool, priceFactor float64, regen dialogue.Thunk) *dialogue.Dialogue {
	infos := s.Inventory().Infos(priceFactor)
	ids := make([]uuid.UUID, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}

	d := dialogue.New("Trades", m.ID)
	d.Info = FormatInfos(infos)
	d.Responses = []dialogue.Response{dialogue.TextOnly("Leave.")}
	d.Commands = []dialogue.Command{buyCommand(w, s, ids, priceFactor, regen)}
	if allowSales {
		d.Commands = append(d.Commands, sellCommand())
	}
	if _, ok := s.(*BlacksmithShop); ok {
		d.Commands = append(d.Commands, repairCommand(w))
	}
	return d
}

func buyCommand(w *World, s Shop, ids []uuid.UUID, priceFactor float64, regen dialogue.Thunk) dialogue.Command {
	return dialogue.Command{
		Input:  "buy #",
		Output: "Buy item #.",
		Run: func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) == 0 {
				return
			}
			if len(ids) == 0 {
				ctx.SendShort(m, "There are no items to buy.")
				return
			}
			num, err := strconv.Atoi(args[0])
			if err != nil || num < 0 {
				ctx.SendShort(m, "Not sure which item you're looking for.")
				return
			}
			if num < 1 || num > len(ids) {
				ctx.SendShort(m, "I'm afraid I can't tell what you're looking for.")
				return
			}
			p, perr := w.PlayerBody(m)
			if perr != nil {
				return
			}
			switch Buy(s, p, ids[num-1], priceFactor) {
			case PurchaseNotFound:
				ctx.SendShort(m, "Looks like someone already bought that item.")
			case PurchaseCantAfford:
				ctx.SendShort(m, "You can't afford that.")
			case PurchaseCantHold:
				ctx.SendShort(m, "You don't have enough room.")
			case PurchaseOK:
				ctx.SendShort(m, "Purchase successful.")
			}
		},
		Next: dialogue.Generate(regen),
	}
}

func sellCommand() dialogue.Command {
	return dialogue.Command{
		Input:  "sell #",
		Output: "Sell item # from inventory.",
		Run: func(ctx *dialogue.Context, m *player.Meta, _ []string) {
			ctx.SendShort(m, "Let's just pretend you sold that. ;)")
		},
		Next: dialogue.Ignore,
	}
}

// repairCommand restores the player's equipped weapon for its repair
// price, which climbs with every repair done.
func repairCommand(w *World) dialogue.Command {
	return dialogue.Command{
		Input:  "repair",
		Output: "Repair your equipped weapon.",
		Run: func(ctx *dialogue.Context, m *player.Meta, _ []string) {
			p, err := w.PlayerBody(m)
			if err != nil {
				return
			}
			weapon := p.Weapon()
			if weapon == nil {
				ctx.SendShort(m, "You have nothing equipped to repair.")
				return
			}
			price := weapon.RepairPrice()
			if !p.Body().SpendMoney(price) {
				ctx.SendShort(m, "You can't afford that.")
				return
			}
			weapon.Repair()
			refreshHealthBar(p)
			ctx.SendShort(m, "Repair successful.")
		},
		Next: dialogue.Ignore,
	}
}

// PersistentShop restocks clones of the same listing whenever it runs
// out.
type PersistentShop struct {
	inv   *Inventory
	stock []Item
}

func NewPersistentShop(stock []Item) *PersistentShop {
	s := &PersistentShop{inv: NewInventory(len(stock)), stock: stock}
	s.Restock()
	return s
}

func (s *PersistentShop) Inventory() *Inventory { return s.inv }
func (s *PersistentShop) SellRate() float64     { return 0 }
func (s *PersistentShop) BuyRate() float64      { return 1 }

func (s *PersistentShop) Restock() {
	for _, it := range s.stock {
		s.inv.Add(it.Clone())
	}
}

// BlacksmithShop stocks freshly rolled weapons for its town.
type BlacksmithShop struct {
	inv  *Inventory
	town int
}

func NewBlacksmithShop(town int) *BlacksmithShop {
	s := &BlacksmithShop{inv: NewInventory(5), town: town}
	s.Restock()
	return s
}

func (s *BlacksmithShop) Inventory() *Inventory { return s.inv }
func (s *BlacksmithShop) SellRate() float64     { return 0.6 }
func (s *BlacksmithShop) BuyRate() float64      { return 1 }

func (s *BlacksmithShop) Restock() {
	for i := 0; i < s.inv.MaxSize(); i++ {
		s.inv.Add(RandomWeapon(s.town, nil))
	}
}
