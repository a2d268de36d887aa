// Package world models the game world: towns laid out on a grid of
// areas, the areas' entities, items, shops and effects, and the dialogue
// screens all of them present to players.
//
// Ownership is single-writer: all world mutation happens on the game
// tick goroutine. The player and town registries carry locks because
// transports read them (login checks, the who list, metrics), but area
// and entity state is confined to the tick goroutine and unguarded.
// Thunks and timed callbacks capture ids and coordinates, never entity
// pointers, and re-resolve through the accessors when they run; a target
// gone by then surfaces as ErrNotFound rather than acting on a stale
// pointer.
package world

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// ErrNotFound reports that an accessor's target no longer exists: the
// player logged off, the entity was killed or traded away, or the
// coordinates point outside any generated town.
var ErrNotFound = errors.New("world: not found")

// World is the root registry: players by id and towns by number. Towns
// generate lazily on first access.
type World struct {
	mu      sync.RWMutex
	players map[uuid.UUID]*player.Meta
	towns   map[int]*Town
}

// New creates an empty world.
func New() *World {
	return &World{
		players: make(map[uuid.UUID]*player.Meta),
		towns:   make(map[int]*Town),
	}
}

// AddPlayer registers a player's meta.
func (w *World) AddPlayer(m *player.Meta) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players[m.ID] = m
}

// RemovePlayer unregisters and returns the player's meta, nil when the
// id is unknown.
func (w *World) RemovePlayer(id uuid.UUID) *player.Meta {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.players[id]
	delete(w.players, id)
	return m
}

// Player looks up a player's meta by id.
func (w *World) Player(id uuid.UUID) (*player.Meta, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.players[id]
	return m, ok
}

// PlayerByName finds a player by exact name.
func (w *World) PlayerByName(name string) (*player.Meta, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.players {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Players returns every registered player sorted by name.
func (w *World) Players() []*player.Meta {
	w.mu.RLock()
	out := make([]*player.Meta, 0, len(w.players))
	for _, m := range w.players {
		out = append(out, m)
	}
	w.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PlayerCount reports how many players are registered.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// Town returns the town with the given number, generating it on first
// access.
func (w *World) Town(num int) *Town {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.towns[num]
	if !ok {
		t = generateTown(w, num)
		w.towns[num] = t
	}
	return t
}

// TownCount reports how many towns have been generated.
func (w *World) TownCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.towns)
}

// Area resolves coordinates to an area within their town, generating the
// town as needed.
func (w *World) Area(c player.Coordinates) (Area, error) {
	a, ok := w.Town(c.Town).Area(c.X, c.Z)
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// StartingCoords addresses a town's entrance gate.
func StartingCoords(town int) player.Coordinates {
	return player.Coordinates{Town: town, X: 0, Z: C}
}

// StartingArea returns a town's entrance area. Every generated town has
// one; its absence is a generation bug and panics.
func (w *World) StartingArea(town int) Area {
	a, err := w.Area(StartingCoords(town))
	if err != nil {
		panic("world: town generated without a starting area")
	}
	return a
}

// Accessor identifies an entity for deferred lookup. Player accessors
// re-read the player's coordinates when resolved, so they stay valid
// across moves.
type Accessor struct {
	Coords   player.Coordinates
	EntityID uuid.UUID
	IsPlayer bool
}

// PlayerAccessor addresses a player's in-world body.
func PlayerAccessor(m *player.Meta) Accessor {
	return Accessor{Coords: m.Coords, EntityID: m.ID, IsPlayer: true}
}

// Entity resolves an accessor to a live entity.
func (w *World) Entity(acc Accessor) (Entity, error) {
	if acc.IsPlayer {
		m, ok := w.Player(acc.EntityID)
		if !ok {
			return nil, ErrNotFound
		}
		acc.Coords = m.Coords
	}
	a, err := w.Area(acc.Coords)
	if err != nil {
		return nil, err
	}
	e, ok := a.Base().Entity(acc.EntityID)
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// PlayerBody resolves a player's entity in their current area.
func (w *World) PlayerBody(m *player.Meta) (*Player, error) {
	e, err := w.Entity(PlayerAccessor(m))
	if err != nil {
		return nil, err
	}
	p, ok := e.(*Player)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Context bundles what a player's input acts on: their meta, town, area
// and body, resolved together.
type Context struct {
	Meta *player.Meta
	Town *Town
	Area Area
	Body *Player
}

// PlayerContext resolves the player's full surroundings in one step.
func (w *World) PlayerContext(id uuid.UUID) (Context, error) {
	m, ok := w.Player(id)
	if !ok {
		return Context{}, ErrNotFound
	}
	t := w.Town(m.Coords.Town)
	a, err := w.Area(m.Coords)
	if err != nil {
		return Context{}, err
	}
	body, err := w.PlayerBody(m)
	if err != nil {
		return Context{}, err
	}
	return Context{Meta: m, Town: t, Area: a, Body: body}, nil
}

// MoveEntity removes the entity from its current area and places it at
// the destination, updating the entity's own coordinates.
func (w *World) MoveEntity(e Entity, to player.Coordinates) error {
	dest, err := w.Area(to)
	if err != nil {
		return err
	}
	if cur, err := w.Area(e.Body().Coords()); err == nil {
		cur.Base().RemoveEntity(e.Body().ID())
	}
	dest.Base().AddEntity(e)
	e.Body().SetCoords(to)
	// Player lookups resolve through the meta's coordinates, so those
	// have to move with the body.
	if p, ok := e.(*Player); ok {
		p.Meta.Coords = to
	}
	return nil
}
