package world

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/events"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// stubSender satisfies the dialogue engine without any transport.
type stubSender struct {
	s *events.Scheduler
}

func (ss stubSender) Send(m *player.Meta) events.DelayHandler {
	return ss.s.NewDelayHandler(0)
}

func testCtx(w *World) *dialogue.Context {
	s := events.NewScheduler()
	return &dialogue.Context{
		Registry:     dialogue.NewRegistry(),
		Scheduler:    s,
		Sender:       stubSender{s},
		Players:      w,
		AreaDialogue: w.AreaThunk(),
	}
}

// spawn puts a fresh player's body in town 1's starting area.
func spawn(t *testing.T, w *World, name string) (*player.Meta, *Player) {
	t.Helper()
	m := player.NewMeta(player.Remote)
	m.Name = name
	m.Coords = StartingCoords(1)
	w.AddPlayer(m)
	p := NewPlayer(m)
	w.StartingArea(1).Base().AddEntity(p)
	return m, p
}

func TestTownLayout(t *testing.T) {
	w := New()
	for num := 1; num <= 5; num++ {
		town := w.Town(num)

		start, ok := town.Area(0, C)
		if !ok || start.Kind() != "gate" {
			t.Fatalf("town %d: no start gate at (0, %d)", num, C)
		}
		end := town.EndGate()
		if end.X == 0 {
			t.Errorf("town %d: end gate at row 0", num)
		}

		// Every guaranteed placement must be present.
		for _, kind := range []string{"gate", "altar", "boss", "dungeon", "shop", "station"} {
			if _, ok := town.LocateArea(kind); !ok {
				t.Errorf("town %d: no %s placed", num, kind)
			}
		}

		// Every link must resolve to a generated adjacent area.
		for x := 0; x < D; x++ {
			for z := 0; z < W; z++ {
				a, ok := town.Area(x, z)
				if !ok {
					continue
				}
				from := a.Base().Coords()
				for _, to := range a.Base().Links() {
					if _, err := w.Area(to); err != nil {
						t.Errorf("town %d: (%d,%d) links to empty cell %v", num, x, z, to)
					}
					direction(from, to) // panics on non-adjacent links
				}
			}
		}

		// The end gate must be walkable from the start.
		if !reachable(w, StartingCoords(num), end) {
			t.Errorf("town %d: end gate %v unreachable from start", num, end)
		}
	}
}

func reachable(w *World, from, goal player.Coordinates) bool {
	seen := map[player.Coordinates]bool{from: true}
	queue := []player.Coordinates{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return true
		}
		a, err := w.Area(c)
		if err != nil {
			continue
		}
		for _, next := range a.Base().Links() {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func TestMoveEntity(t *testing.T) {
	w := New()
	m, p := spawn(t, w, "Brennan")

	start := w.StartingArea(1)
	links := start.Base().Links()
	if len(links) == 0 {
		t.Fatal("starting area has no links")
	}
	dest := links[0]

	if err := w.MoveEntity(p, dest); err != nil {
		t.Fatalf("MoveEntity: %v", err)
	}
	if m.Coords != dest {
		t.Errorf("meta coords = %v, want %v", m.Coords, dest)
	}
	if _, ok := start.Base().Entity(m.ID); ok {
		t.Error("body still present in the starting area")
	}
	if _, err := w.PlayerBody(m); err != nil {
		t.Errorf("PlayerBody after move: %v", err)
	}
}

func TestDeathReturnsPlayerToStart(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	m, p := spawn(t, w, "Brennan")

	dest := w.StartingArea(1).Base().Links()[0]
	if err := w.MoveEntity(p, dest); err != nil {
		t.Fatalf("MoveEntity: %v", err)
	}

	GenericHarming(999).Apply(ctx, w, p)

	if p.Body().Health() != 0 {
		t.Errorf("health = %d, want 0", p.Body().Health())
	}
	if m.Coords != StartingCoords(1) {
		t.Errorf("coords after death = %v, want %v", m.Coords, StartingCoords(1))
	}
}

func TestTemporaryEffectReverses(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	_, p := spawn(t, w, "Brennan")

	base := p.Body().BaseDamage()
	e := Effect{Name: "Strength", Kind: Temporary, Duration: 5000, BaseDamage: 3}
	e.Apply(ctx, w, p)

	if got := p.Body().BaseDamage(); got != base+3 {
		t.Fatalf("damage = %d, want %d", got, base+3)
	}
	if len(p.Body().Effects()) != 1 {
		t.Fatalf("effects = %d, want 1", len(p.Body().Effects()))
	}

	ctx.Scheduler.Tick(5001)

	if got := p.Body().BaseDamage(); got != base {
		t.Errorf("damage after expiry = %d, want %d", got, base)
	}
	if len(p.Body().Effects()) != 0 {
		t.Errorf("effects after expiry = %d, want 0", len(p.Body().Effects()))
	}
}

func TestRepeatingEffectTicks(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	_, p := spawn(t, w, "Brennan")

	start := p.Body().Health()
	e := Effect{Name: "Poison", Kind: Repeating, Duration: 3000, Interval: 1000, Health: -2}
	e.Apply(ctx, w, p)

	ctx.Scheduler.Tick(1000)
	if got := p.Body().Health(); got != start-2 {
		t.Errorf("health after first interval = %d, want %d", got, start-2)
	}
	ctx.Scheduler.Tick(2000)
	ctx.Scheduler.Tick(3000)
	if got := p.Body().Health(); got != start-6 {
		t.Errorf("health after three intervals = %d, want %d", got, start-6)
	}
	if len(p.Body().Effects()) != 0 {
		t.Errorf("effects after duration = %d, want 0", len(p.Body().Effects()))
	}

	ctx.Scheduler.Tick(10000)
	if got := p.Body().Health(); got != start-6 {
		t.Errorf("health kept dropping after expiry: %d", got)
	}
}

func TestEffectTimersCancelByTag(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	m, p := spawn(t, w, "Brennan")

	base := p.Body().BaseDamage()
	e := Effect{Name: "Strength", Kind: Temporary, Duration: 5000, BaseDamage: 3}
	e.Apply(ctx, w, p)

	removed := ctx.Scheduler.DeleteWhere(events.Tags{EntityID: m.ID})
	if len(removed) != 1 {
		t.Fatalf("cancelled %d timers, want 1", len(removed))
	}

	ctx.Scheduler.Tick(10000)
	if got := p.Body().BaseDamage(); got != base+3 {
		t.Errorf("damage = %d, want %d (reversal was cancelled)", got, base+3)
	}
}

func TestGamblingBetOutcomes(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	m, p := spawn(t, w, "Lucky")
	town := 1
	amount := int(gamblingMinPerTown * float64(town))
	bet := gambleResponse(w, amount, 2)

	// A winning bet pays the stake times the multiple on top of the
	// spent stake; a losing bet just takes it. Both must turn up.
	p.Body().AddMoney(amount * 300)
	wins, losses := 0, 0
	for i := 0; i < 200; i++ {
		before := p.Body().Money()
		bet.Run(ctx, m)
		switch diff := p.Body().Money() - before; diff {
		case -amount:
			losses++
		case amount:
			wins++
		default:
			t.Fatalf("bet changed money by %d, want -%d or +%d", diff, amount, amount)
		}
	}
	if wins == 0 || losses == 0 {
		t.Errorf("200 bets: %d wins, %d losses; expected both outcomes", wins, losses)
	}

	// Too broke to play: the bet is refused and nothing changes.
	bm, bp := spawn(t, w, "Broke")
	bet.Run(ctx, bm)
	if bp.Body().Money() != 0 {
		t.Errorf("broke player's money = %d, want 0", bp.Body().Money())
	}
}

func TestTownGamblingLevelBounds(t *testing.T) {
	// Town 1 has base level 1; the roll spans [0, 2] and clamps up to 1,
	// so only levels 1 and 2 may come out, priced at 750g per level.
	for i := 0; i < 100; i++ {
		e := TownGambling(1)
		if e.Level < 1 || e.Level > 2 {
			t.Fatalf("town 1 gambling level = %d, want 1 or 2", e.Level)
		}
		if e.Money != e.Level*750 {
			t.Errorf("level %d pays %dg, want %d", e.Level, e.Money, e.Level*750)
		}
		if e.Duration != 15000+10000*int64(e.Level) {
			t.Errorf("level %d lasts %dms, want %d", e.Level, e.Duration, 15000+10000*int64(e.Level))
		}
	}
}

func TestShopBuyAndRestock(t *testing.T) {
	w := New()
	_, p := spawn(t, w, "Brennan")
	shop := NewPersistentShop([]Item{PoisonousPotato()})

	itemID := shop.Inventory().Infos(1)[0].ID
	price := AdjustedPrice(PoisonousPotato().Price(), 1)

	if got := Buy(shop, p, itemID, 1); got != PurchaseCantAfford {
		t.Errorf("broke purchase = %v, want PurchaseCantAfford", got)
	}

	p.Body().AddMoney(100)
	if got := Buy(shop, p, itemID, 1); got != PurchaseOK {
		t.Fatalf("purchase = %v, want PurchaseOK", got)
	}
	if got := p.Body().Money(); got != 100-price {
		t.Errorf("money = %d, want %d", got, 100-price)
	}
	if !p.Inventory().HasKind("consumable") {
		t.Error("bought item missing from player inventory")
	}

	// The shop restocks the listing once it sells out.
	if shop.Inventory().Size() != 1 {
		t.Errorf("shop slots after sellout = %d, want 1", shop.Inventory().Size())
	}

	if got := Buy(shop, p, uuid.New(), 1); got != PurchaseNotFound {
		t.Errorf("unknown id purchase = %v, want PurchaseNotFound", got)
	}
}

func TestInventoryStacking(t *testing.T) {
	inv := NewInventory(3)
	for i := 0; i < 5; i++ {
		inv.Add(PoisonousPotato()) // stacks of 4
	}
	if inv.Size() != 2 {
		t.Fatalf("slots = %d, want 2", inv.Size())
	}
	if inv.Slot(0).Size() != 4 || inv.Slot(1).Size() != 1 {
		t.Errorf("stacks = %d/%d, want 4/1", inv.Slot(0).Size(), inv.Slot(1).Size())
	}

	if it := inv.Take(1); it == nil {
		t.Fatal("Take returned nil")
	}
	if inv.Size() != 1 {
		t.Errorf("slots after emptying a stack = %d, want 1", inv.Size())
	}

	if it := inv.Take(5); it != nil {
		t.Error("Take out of range returned an item")
	}
}

func TestEquipSwapsWeapons(t *testing.T) {
	w := New()
	ctx := testCtx(w)
	_, p := spawn(t, w, "Brennan")

	first := SwordFromLevel(1)
	second := SwordFromLevel(2)
	p.Inventory().Add(first)
	p.EquipItem(ctx, w, 1)

	if wp := p.Weapon(); wp == nil || wp.(*Sword).ID() != first.ID() {
		t.Fatal("first sword not equipped")
	}
	if p.Inventory().Size() != 0 {
		t.Fatalf("main inventory not emptied by equip")
	}

	p.Inventory().Add(second)
	p.EquipItem(ctx, w, 1)

	if wp := p.Weapon(); wp == nil || wp.(*Sword).ID() != second.ID() {
		t.Error("second sword not equipped after swap")
	}
	if idx := p.Inventory().SlotIndex(first.ID()); idx < 0 {
		t.Error("swapped-out sword missing from main inventory")
	}
}

func TestAreaDialogueFirstVisit(t *testing.T) {
	w := New()
	m, _ := spawn(t, w, "Brennan")
	area := w.StartingArea(1)

	d := AreaDialogue(w, area, m)
	if d.Text == "" {
		t.Error("first visit: no entrance text")
	}
	if !m.Visited(m.Coords) {
		t.Error("first visit not recorded")
	}
	if d.Info == "" {
		t.Error("no info block")
	}
	if len(d.Responses) == 0 {
		t.Fatal("no responses")
	}
	found := false
	for _, r := range d.Responses {
		if strings.HasPrefix(r.Text, "Go ") || strings.HasPrefix(r.Text, "Walk away") {
			found = true
		}
	}
	if !found {
		t.Error("no movement responses")
	}

	// The entrance text plays once.
	if d2 := AreaDialogue(w, area, m); d2.Text != "" {
		t.Errorf("second visit entrance text = %q, want none", d2.Text)
	}
}

func TestAreaDialogueOffersOtherPlayers(t *testing.T) {
	w := New()
	m, _ := spawn(t, w, "Brennan")
	spawn(t, w, "Sona")
	m.RecordVisit(m.Coords)

	d := AreaDialogue(w, w.StartingArea(1), m)
	var wave, trade bool
	for _, r := range d.Responses {
		if r.Text == "Wave to Sona." {
			wave = true
		}
		if r.Text == "Trade with Sona" {
			trade = true
		}
	}
	if !wave || !trade {
		t.Errorf("wave=%v trade=%v, want both offered", wave, trade)
	}
}

func TestPlayerContext(t *testing.T) {
	w := New()
	m, p := spawn(t, w, "Brennan")

	c, err := w.PlayerContext(m.ID)
	if err != nil {
		t.Fatalf("PlayerContext: %v", err)
	}
	if c.Meta != m || c.Body != p {
		t.Error("context resolved wrong player")
	}
	if c.Town.Num() != 1 {
		t.Errorf("town = %d, want 1", c.Town.Num())
	}

	w.RemovePlayer(m.ID)
	if _, err := w.PlayerContext(m.ID); err == nil {
		t.Error("PlayerContext after removal: want error")
	}
}

func TestTownMapMarksPosition(t *testing.T) {
	w := New()
	m, _ := spawn(t, w, "Brennan")
	m.RecordVisit(m.Coords)

	out := w.Town(1).Map(m)
	if !strings.Contains(out, "(X)") {
		t.Error("map does not mark the player's position")
	}
	if !strings.Contains(out, "·") {
		t.Error("map does not dot unvisited cells")
	}
}
