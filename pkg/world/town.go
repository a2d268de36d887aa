package world

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Town grid dimensions. X runs inward from the start gate, Z runs
// across. The main path is laid down the center column.
const (
	W = 11
	D = 10
	C = W / 2
)

// pathPreference says whether an area kind replaces a cell on the main
// path or branches off beside it.
type pathPreference int

const (
	onPath pathPreference = iota
	offPath
)

// areaSetting drives one placement attempt during town generation.
type areaSetting struct {
	construct   func(t *Town, num int, coords player.Coordinates) Area
	minX, maxX  int
	chance      float64
	pref        pathPreference
	classLimits []player.Class
}

// areaSettings is evaluated in order, on-path placements before
// branches. Row bounds are inclusive.
var areaSettings = []areaSetting{
	{construct: newGate, minX: 9, maxX: 9, chance: 1, pref: onPath},
	{construct: newAltar, minX: 7, maxX: 8, chance: 1, pref: offPath},
	{construct: newBossRoom, minX: 5, maxX: 8, chance: 1, pref: onPath},
	{construct: newDungeon, minX: 1, maxX: 8, chance: 1, pref: offPath},
	{construct: newFountain, minX: 3, maxX: 5, chance: 0.75, pref: onPath},
	{construct: newPub, minX: 1, maxX: 8, chance: 1, pref: offPath},
	{construct: newStation, minX: 1, maxX: 2, chance: 1, pref: offPath},
	{construct: newGamblingDen, minX: 3, maxX: 7, chance: 0.35, pref: offPath},
}

type location struct {
	kind string
	x, z int
}

// Town is one generated grid of areas. The layout is immutable once
// generated; only the gate flags change afterwards.
type Town struct {
	num   int
	class player.Class

	areas     [D][W]Area
	locations []location

	keyFound atomic.Bool
	unlocked atomic.Bool
}

func (t *Town) Num() int            { return t.num }
func (t *Town) Class() player.Class { return t.class }

func (t *Town) KeyFound() bool { return t.keyFound.Load() }
func (t *Town) FindKey()       { t.keyFound.Store(true) }
func (t *Town) Unlocked() bool { return t.unlocked.Load() }
func (t *Town) Unlock()        { t.unlocked.Store(true) }

// Area returns the cell at (x, z), false for empty or out-of-range
// cells.
func (t *Town) Area(x, z int) (Area, bool) {
	if x < 0 || x >= D || z < 0 || z >= W {
		return nil, false
	}
	a := t.areas[x][z]
	return a, a != nil
}

// LocateArea finds the first placed area of the kind. The start gate
// and plain path cells are not placements and never match.
func (t *Town) LocateArea(kind string) (player.Coordinates, bool) {
	for _, l := range t.locations {
		if l.kind == kind {
			return player.Coordinates{Town: t.num, X: l.x, Z: l.z}, true
		}
	}
	return player.Coordinates{}, false
}

// EndGate returns the far gate's coordinates. Generation always places
// one, so a town without it is corrupted.
func (t *Town) EndGate() player.Coordinates {
	c, ok := t.LocateArea("gate")
	if !ok {
		panic(fmt.Sprintf("world: town %d has no end gate", t.num))
	}
	return c
}

// generateTown lays a straight main path from the start gate to the far
// row, swaps settings-chosen cells in along it, back-traces the return
// links, then hangs side branches off it.
func generateTown(w *World, num int) *Town {
	t := &Town{num: num, class: player.RandomClass()}

	areaNum := 1
	t.areas[0][C] = newGate(t, areaNum, player.Coordinates{Town: num, X: 0, Z: C})
	for x := 1; x < D; x++ {
		areaNum++
		t.areas[x][C] = newPath(areaNum, player.Coordinates{Town: num, X: x, Z: C})
		t.link(x-1, C, x, C)
	}

	for _, s := range areaSettings {
		if s.pref != onPath || !t.placeable(s) {
			continue
		}
		t.replaceOnPath(s)
	}

	t.traceBack(D-1, C)

	for _, s := range areaSettings {
		if s.pref != offPath || !t.placeable(s) {
			continue
		}
		areaNum++
		t.addBranch(s, areaNum)
	}
	return t
}

func (t *Town) placeable(s areaSetting) bool {
	return t.class.AllowedBy(s.classLimits) && rand.Float64() <= s.chance
}

// link adds a one-way connection from (x, z) to (nx, nz).
func (t *Town) link(x, z, nx, nz int) {
	t.areas[x][z].Base().AddLink(player.Coordinates{Town: t.num, X: nx, Z: nz})
}

// replaceOnPath swaps a path cell in the setting's row range for the
// setting's kind, keeping the old cell's number and links. Rows whose
// path cell was already replaced are rerolled.
func (t *Town) replaceOnPath(s areaSetting) {
	var x, z int
	for {
		x = randRange(s.minX, s.maxX+1)
		z = t.firstAreaZ(x)
		if t.areas[x][z].Kind() == "path" {
			break
		}
	}

	old := t.areas[x][z].Base()
	a := s.construct(t, old.Num(), old.Coords())
	for _, l := range old.Links() {
		a.Base().AddLink(l)
	}
	t.areas[x][z] = a
	t.locations = append(t.locations, location{a.Kind(), x, z})
}

// traceBack walks from the path's far end toward the start gate,
// adding the return link at each step. Cells deeper in take priority,
// so labels come out as forward/backward moves along the path.
func (t *Town) traceBack(x, z int) {
	px, pz := x, z
	for x > 0 {
		switch {
		case t.areas[x-1][z] != nil:
			x--
		case z > 0 && t.areas[x][z-1] != nil:
			z--
		default:
			z++
		}
		t.link(px, pz, x, z)
		px, pz = x, z
	}
}

// addBranch hangs a new area beside a path cell in the setting's row
// range, linked both ways. Rows with no free side are rerolled.
func (t *Town) addBranch(s areaSetting, num int) {
	var onX, onZ, offX, offZ int
	for {
		x := randRange(s.minX, s.maxX+1)
		var ok bool
		if onX, onZ, offX, offZ, ok = t.besidePath(x); ok {
			break
		}
	}

	a := s.construct(t, num, player.Coordinates{Town: t.num, X: offX, Z: offZ})
	t.areas[offX][offZ] = a
	t.locations = append(t.locations, location{a.Kind(), offX, offZ})
	t.link(onX, onZ, offX, offZ)
	t.link(offX, offZ, onX, onZ)
}

// besidePath looks for a free cell next to row x's path cell, trying a
// random side first. A side whose outermost area is not a path cell is
// already taken.
func (t *Town) besidePath(x int) (onX, onZ, offX, offZ int, ok bool) {
	left := func() (int, int, bool) {
		for z := 0; z < W; z++ {
			if t.areas[x][z] == nil {
				continue
			}
			if t.areas[x][z].Kind() == "path" {
				return z, z - 1, true
			}
			return 0, 0, false
		}
		panic(fmt.Sprintf("world: row %d has no path", x))
	}
	right := func() (int, int, bool) {
		for z := W - 1; z >= 0; z-- {
			if t.areas[x][z] == nil {
				continue
			}
			if t.areas[x][z].Kind() == "path" {
				return z, z + 1, true
			}
			return 0, 0, false
		}
		panic(fmt.Sprintf("world: row %d has no path", x))
	}

	first, second := left, right
	if rand.Intn(2) == 0 {
		first, second = right, left
	}
	if on, off, found := first(); found {
		return x, on, x, off, true
	}
	if on, off, found := second(); found {
		return x, on, x, off, true
	}
	return 0, 0, 0, 0, false
}

// firstAreaZ finds the leftmost occupied cell of row x. Every row in
// the path's range has one.
func (t *Town) firstAreaZ(x int) int {
	for z := 0; z < W; z++ {
		if t.areas[x][z] != nil {
			return z
		}
	}
	panic(fmt.Sprintf("world: row %d has no areas", x))
}

// Map renders the town for a player: their position as (X), icons for
// areas they have visited, dots for everything else.
func (t *Town) Map(m *player.Meta) string {
	border := strings.Repeat("-", W*3+2)

	var b strings.Builder
	b.WriteString(border)
	b.WriteString("\n")
	for x := D - 1; x >= 0; x-- {
		b.WriteString("|")
		for z := 0; z < W; z++ {
			c := player.Coordinates{Town: t.num, X: x, Z: z}
			switch {
			case t.areas[x][z] == nil || !m.Visited(c):
				b.WriteString(" · ")
			case m.Coords == c:
				b.WriteString("(X)")
			default:
				b.WriteString(t.areas[x][z].Icon())
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
