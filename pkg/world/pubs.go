package world

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

var pubLocations = []string{
	"standing by the wall",
	"sitting at the first table",
	"leaning on the bar",
	"sitting at the bar",
	"staring at the entrance",
	"sitting near the back",
	"talking to the shopkeeper",
	"near the center of the room",
}

var pubWalkIn = []string{
	"As you walk into the bar, you notice",
	"You walk into the bar, look around, and see",
	"You quickly look through the room and notice",
	"As you look into the establishment, you see",
	"Making your way inside, you look around and see",
	"As you make your way inside, you notice",
}

var pubSeeBartender = []string{
	" as well as the bartender, <name>, standing nearby.",
	" and the bartender, <name>, behind the counter.",
	" and also <name>, the owner, standing nearby.",
	" and even <name>, the owner of the pub.",
	" as well as the bartender, <name>.",
}

// Pub holds the town's traders. The entrance line is assembled from
// whoever is inside when the player walks in.
type Pub struct {
	base          BaseArea
	ownerName     string
	locationOrder []int
}

func newPub(t *Town, num int, coords player.Coordinates) Area {
	p := &Pub{
		base:          newBaseArea(num, coords),
		ownerName:     randNPCName(),
		locationOrder: pubLocationOrder(2),
	}
	p.base.AddEntity(NewShopkeeper(coords))
	p.base.AddEntity(NewNPC(t.class, coords))
	p.base.AddEntity(NewNPCWithIntro(
		"I've lived a terrible, boring life.∫\nI have nothing else to say∫0.2.∫0.2.∫0.2.∫0.4\nand nothing to sell.",
		t.class, coords))
	return p
}

func (p *Pub) Base() *BaseArea { return &p.base }
func (p *Pub) Kind() string    { return "shop" }
func (p *Pub) Icon() string    { return " S " }
func (p *Pub) Title() string   { return "Pub" }

func (p *Pub) Entrance() string {
	var b strings.Builder
	b.WriteString(text.AutoBreakMark)
	b.WriteString(text.ChooseText(pubWalkIn))

	i := 0
	for _, e := range p.base.Entities() {
		n, ok := e.(*NPC)
		if !ok {
			continue
		}
		desc := n.Description()
		b.WriteString(fmt.Sprintf(" %s %s %s,", article(desc), desc, pubLocations[p.locationOrder[i]]))
		i++
	}

	b.WriteString(text.Generate(pubSeeBartender, "<name>", p.ownerName))
	return b.String()
}

func pubLocationOrder(size int) []int {
	return rand.Perm(len(pubLocations))[:size]
}
