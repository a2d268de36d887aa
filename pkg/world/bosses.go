package world

import "github.com/wayfarer-mud/wayfarer/pkg/player"

// BossRoom caps the main path. The boss itself is still missing.
type BossRoom struct {
	base BaseArea
}

func newBossRoom(t *Town, num int, coords player.Coordinates) Area {
	return &BossRoom{base: newBaseArea(num, coords)}
}

func (b *BossRoom) Base() *BaseArea { return &b.base }
func (b *BossRoom) Kind() string    { return "boss" }
func (b *BossRoom) Icon() string    { return "[B]" }
func (b *BossRoom) Title() string   { return "Test Boss Area" }

// SpawnsMobs marks the area for the fight sequence.
func (b *BossRoom) SpawnsMobs() bool { return true }

func (b *BossRoom) Entrance() string {
	return "You see a boss who does not exist. Maybe try\na newer version of the game."
}
