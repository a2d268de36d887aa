package player

import "math/rand"

// Class is a player's combat discipline. Towns are aligned to a class as
// well: their shops stock for it and their altars follow its pantheon.
type Class int

const (
	Melee Class = iota
	Ranged
	Magic
)

// Classes lists every class in display order.
var Classes = []Class{Melee, Ranged, Magic}

func (c Class) String() string {
	switch c {
	case Melee:
		return "Melee"
	case Ranged:
		return "Ranged"
	case Magic:
		return "Magic"
	default:
		return "Classless"
	}
}

// RandomClass picks a class uniformly.
func RandomClass() Class {
	return Classes[rand.Intn(len(Classes))]
}

// AllowedBy reports whether this class may use something restricted to
// limits. An empty limit list restricts nothing.
func (c Class) AllowedBy(limits []Class) bool {
	if len(limits) == 0 {
		return true
	}
	for _, l := range limits {
		if l == c {
			return true
		}
	}
	return false
}
