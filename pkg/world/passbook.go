package world

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxPasses bounds how many train passes fit in one booklet.
const MaxPasses = 5

// TrainPass grants rides to one town's station.
type TrainPass struct {
	Town int
	Uses int
}

// PassBook holds a player's train passes.
type PassBook struct {
	id     uuid.UUID
	passes []TrainPass
}

func NewPassBook() *PassBook {
	return &PassBook{id: uuid.New()}
}

func (p *PassBook) CanHoldMore() bool {
	return len(p.passes) < MaxPasses
}

func (p *PassBook) AddPass(town, uses int) {
	p.passes = append(p.passes, TrainPass{Town: town, Uses: uses})
}

func (p *PassBook) HasPass(town int) bool {
	for _, pass := range p.passes {
		if pass.Town == town {
			return true
		}
	}
	return false
}

// UsePass decrements the pass for the town and drops it once spent.
func (p *PassBook) UsePass(town int) {
	for i := range p.passes {
		if p.passes[i].Town != town {
			continue
		}
		p.passes[i].Uses--
		if p.passes[i].Uses <= 0 {
			p.passes = append(p.passes[:i], p.passes[i+1:]...)
		}
		return
	}
}

func (p *PassBook) Passes() []TrainPass { return p.passes }

func (p *PassBook) ID() uuid.UUID { return p.id }
func (p *PassBook) Name() string  { return "Travel Booklet" }
func (p *PassBook) Kind() string  { return "pass_book" }
func (p *PassBook) Level() int    { return 0 }
func (p *PassBook) Price() int    { return 10 }
func (p *PassBook) MaxStack() int { return 1 }
func (p *PassBook) Uses() int     { return 1 }
func (p *PassBook) SetUses(int)   {}
func (p *PassBook) MaxUses() int  { return 1 }
func (p *PassBook) Spend()        {}

func (p *PassBook) Clone() Item {
	c := *p
	c.passes = append([]TrainPass(nil), p.passes...)
	return &c
}

func (p *PassBook) Info(_ float64) string {
	info := p.Name()
	for _, pass := range p.passes {
		info += fmt.Sprintf("\n  * Town #%d; Remaining uses: %d", pass.Town, pass.Uses)
	}
	return info
}
