// Package player holds per-player state that survives across areas: the
// identity and progress metadata, the record books tracking what a player
// has done where, knowledge of entities met along the way, and the
// reusable screen message that every outbound display is composed into.
//
// Nothing in this package talks to the network or the world registries;
// the game layer owns delivery and lookup. Exported fields on Meta are the
// persisted surface, runtime-only state stays unexported.
package player

import "fmt"

// Channel says how a player's text reaches them.
type Channel int

const (
	// Local players read and type on the server's own terminal.
	Local Channel = iota
	// Remote players are attached through a network session.
	Remote
	// Bot players have no sink at all; their sends are dropped. Tests
	// and scripted actors run on this channel.
	Bot
)

func (c Channel) String() string {
	switch c {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case Bot:
		return "bot"
	default:
		return "unknown"
	}
}

// Coordinates address one area: a town number and the (x, z) cell inside
// that town's grid. X runs from the town entrance toward the far gate, Z
// runs across.
type Coordinates struct {
	Town int
	X    int
	Z    int
}

func (c Coordinates) String() string {
	return fmt.Sprintf("town %d (%d, %d)", c.Town, c.X, c.Z)
}

// Key returns a stable string form used to tag scheduled events against
// this area.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%d:%d:%d", c.Town, c.X, c.Z)
}
