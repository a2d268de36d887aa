// Package game ties the engine together: the world, the dialogue
// registry, the scheduler and the event bus, all driven by one tick
// goroutine. Everything that mutates game state runs on that goroutine;
// transports hand lines in through HandleLine and read screen updates
// off the bus.
package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/boltstore"
	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/events"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
	"github.com/wayfarer-mud/wayfarer/pkg/world"
)

// Game owns the live engine state and the loop that drives it.
type Game struct {
	Conf      *GameConf
	World     *world.World
	Registry  *dialogue.Registry
	Scheduler *events.Scheduler
	Bus       *events.Bus
	Store     *boltstore.Store
	Ctx       *dialogue.Context
	Metrics   *Metrics
	StartTime time.Time

	tune  tunables
	tasks chan func()
}

// New assembles a game around an open store. The global command
// dialogue is registered before any player can join, so it always
// renders, and numbers, first.
func New(conf *GameConf, store *boltstore.Store) *Game {
	g := &Game{
		Conf:      conf,
		World:     world.New(),
		Registry:  dialogue.NewRegistry(),
		Scheduler: events.NewScheduler(),
		Bus:       events.NewBus(),
		Store:     store,
		StartTime: time.Now(),
		tasks:     make(chan func(), 256),
	}
	g.tune.apply(conf)
	g.Ctx = &dialogue.Context{
		Registry:     g.Registry,
		Scheduler:    g.Scheduler,
		Sender:       g,
		Players:      g.World,
		AreaDialogue: g.World.AreaThunk(),
	}
	g.Registry.Register(g.globalCommands())
	return g
}

// Run drives the game loop until ctx is canceled: scheduler ticks at
// the configured rate, interleaved with queued tasks from transports.
// All players are saved on the way out.
func (g *Game) Run(ctx context.Context) {
	ups := g.Conf.UpdatesPerSecond
	if ups <= 0 {
		ups = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(ups))
	defer ticker.Stop()

	log.Printf("GAME: Loop running at %d updates/second", ups)
	for {
		select {
		case <-ctx.Done():
			g.SaveAll()
			log.Printf("GAME: Loop stopped")
			return
		case <-ticker.C:
			g.Scheduler.Tick(time.Since(g.StartTime).Milliseconds())
		case fn := <-g.tasks:
			fn()
		}
	}
}

// Do queues fn onto the game loop. Everything touching game state from
// outside the loop goes through here.
func (g *Game) Do(fn func()) {
	g.tasks <- fn
}

// HandleLine queues one line of player input for resolution.
func (g *Game) HandleLine(id uuid.UUID, line string) {
	g.Do(func() { g.resolveLine(id, line) })
}

func (g *Game) resolveLine(id uuid.UUID, line string) {
	m, ok := g.World.Player(id)
	if !ok {
		return
	}
	res, max := g.Ctx.Resolve(m, line)
	if g.Metrics != nil {
		g.Metrics.linesTotal.WithLabelValues(res.String()).Inc()
	}
	switch res {
	case dialogue.NoArgs, dialogue.NoneFound:
		g.Ctx.SendShort(m, "Not sure what you're trying to do, there.")
	case dialogue.InvalidNumber:
		g.Ctx.SendShort(m, fmt.Sprintf("Invalid number: must be below %d.", max+1))
	}
}

// Join brings a player into the world. A record that has never finished
// character creation (no town yet) starts the new-player flow; anyone
// else gets their body back in their saved area.
func (g *Game) Join(m *player.Meta) {
	g.Do(func() { g.join(m) })
}

func (g *Game) join(m *player.Meta) {
	if m.TextSpeed <= 0 {
		m.TextSpeed = g.tune.textSpeed.Load()
	}
	if m.LineLength <= 0 {
		m.LineLength = int(g.tune.lineLength.Load())
	}
	g.World.AddPlayer(m)
	log.Printf("GAME: %s joined on %s", m.Name, m.Channel)

	if m.Coords.Town == 0 {
		g.startNewPlayer(m)
		return
	}

	a, err := g.World.Area(m.Coords)
	if err != nil {
		// The town layout is regenerated each boot; a saved position
		// that no longer exists falls back to the town gate.
		m.Coords = world.StartingCoords(m.Coords.Town)
		a, err = g.World.Area(m.Coords)
		if err != nil {
			log.Printf("WARNING: No area for %s at %v", m.Name, m.Coords)
			return
		}
	}
	body := world.NewPlayer(m)
	a.Base().AddEntity(body)
	body.RefreshBar()
	g.present(m, world.AreaDialogue(g.World, a, m))
}

// Leave removes a player: body out of the area, dialogues and pending
// events gone, record saved.
func (g *Game) Leave(id uuid.UUID) {
	g.Do(func() { g.leave(id) })
}

func (g *Game) leave(id uuid.UUID) {
	m := g.World.RemovePlayer(id)
	if m == nil {
		return
	}
	if a, err := g.World.Area(m.Coords); err == nil {
		a.Base().RemoveEntity(id)
	}
	g.Registry.RemoveAll(id)
	g.Scheduler.DeleteWhere(events.Tags{EntityID: id})
	if g.Store != nil {
		if err := g.Store.SavePlayer(m); err != nil {
			log.Printf("WARNING: Could not save %s on leave: %v", m.Name, err)
		} else if g.Metrics != nil {
			g.Metrics.savesTotal.Inc()
		}
	}
	log.Printf("GAME: %s left", m.Name)
}

// present installs a freshly built dialogue as the player's screen,
// playing its blocking text when it has any.
func (g *Game) present(m *player.Meta, d *dialogue.Dialogue) {
	if d == nil {
		g.Ctx.SendOptions(m)
		return
	}
	g.Registry.Register(d)
	if d.Text != "" {
		g.Ctx.UpdateOptions(m)
		g.Ctx.SendBlocking(m, d.Text)
	} else {
		g.Ctx.SendOptions(m)
	}
}

// SaveAll writes every connected player's record in one transaction.
func (g *Game) SaveAll() {
	if g.Store == nil {
		return
	}
	ms := g.World.Players()
	if len(ms) == 0 {
		return
	}
	if err := g.Store.SavePlayers(ms...); err != nil {
		log.Printf("WARNING: Autosave failed: %v", err)
		return
	}
	if g.Metrics != nil {
		g.Metrics.savesTotal.Add(float64(len(ms)))
	}
	log.Printf("STORE: Saved %d players", len(ms))
}

// StartAutoSave saves all players on the configured interval.
func (g *Game) StartAutoSave() {
	if g.Conf.AutoSaveInterval <= 0 || g.Store == nil {
		return
	}
	interval := time.Duration(g.Conf.AutoSaveInterval) * time.Second
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			g.Do(g.SaveAll)
		}
	}()
	log.Printf("STORE: Autosave every %s", interval)
}

// Send delivers a player's assembled screen over the bus in timed
// parts. The first part of the general block goes out immediately; each
// pause mark adds its factor of the player's text speed; the option
// list and health bar land one beat after the last part. The returned
// handler expires with that final delivery.
func (g *Game) Send(m *player.Meta) events.DelayHandler {
	speed := m.TextSpeed
	general := m.Msg().General()
	tail := m.Msg().Options()
	if hb := m.Msg().HealthBar(); hb != "" {
		tail += "\n" + hb
	}

	if speed <= 0 {
		g.deliver(m.ID, m.Msg().Format())
		return g.Scheduler.NewDelayHandler(0)
	}

	var delay int64
	if general != "" {
		for i, p := range text.SplitTimed(general) {
			if i == 0 {
				g.deliver(m.ID, p.Text)
				continue
			}
			delay += int64(float64(speed) * p.Factor)
			part := p.Text
			g.Scheduler.After(delay, func() { g.deliver(m.ID, part) })
		}
	}
	if tail != "" {
		delay += speed
		final := tail + "\n"
		g.Scheduler.After(delay, func() { g.deliver(m.ID, final) })
	}
	return g.Scheduler.NewDelayHandler(delay)
}

func (g *Game) deliver(id uuid.UUID, msg string) {
	g.Bus.EmitToPlayer(id, events.Event{
		Type:   events.EvMessage,
		Player: id,
		Text:   msg,
	})
}
