package world

import "github.com/wayfarer-mud/wayfarer/pkg/player"

// Path is a plain cell on the town's main route.
type Path struct {
	base BaseArea
	name string
}

func newPath(num int, coords player.Coordinates) *Path {
	return &Path{base: newBaseArea(num, coords), name: pathName()}
}

func (p *Path) Base() *BaseArea { return &p.base }
func (p *Path) Kind() string    { return "path" }
func (p *Path) Icon() string    { return "[ ]" }
func (p *Path) Title() string   { return p.name }
