package dialogue

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

var (
	// ErrNoDialogue means the player has no dialogue of their own.
	ErrNoDialogue = errors.New("dialogue: none found for player")
	// ErrAmbiguous means an exclusive operation found more than one.
	ErrAmbiguous = errors.New("dialogue: multiple found for player")
)

// Registry is the process-wide live set of dialogues, in registration
// order. Several dialogues per player may coexist; stacking a prompt on
// top of an area screen is normal. Mutation during a resolution pass is
// allowed because passes work on snapshots.
type Registry struct {
	mu   sync.Mutex
	list []*Dialogue
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends d to the active set.
func (r *Registry) Register(d *Dialogue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, d)
}

// Delete removes the dialogue with the given id. Globally owned
// dialogues are never removed; deleting one, or an id that is not
// registered, returns false and changes nothing.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.list {
		if d.ID != id {
			continue
		}
		if d.IsGlobal() {
			return false
		}
		r.list = append(r.list[:i], r.list[i+1:]...)
		return true
	}
	return false
}

// TryDeleteExclusive removes and returns the owner's single dialogue.
// It fails without mutating when the owner has none (ErrNoDialogue) or
// more than one (ErrAmbiguous); callers use it when they must be certain
// they are replacing the player's one and only screen.
func (r *Registry) TryDeleteExclusive(owner uuid.UUID) (*Dialogue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := -1
	for i, d := range r.list {
		if d.Owner != owner || d.IsGlobal() {
			continue
		}
		if found >= 0 {
			return nil, ErrAmbiguous
		}
		found = i
	}
	if found < 0 {
		return nil, ErrNoDialogue
	}
	d := r.list[found]
	r.list = append(r.list[:found], r.list[found+1:]...)
	return d, nil
}

// RemoveAll removes and returns every dialogue the owner holds,
// preserving registration order. Used to stash a player's screens while
// a blocking message plays.
func (r *Registry) RemoveAll(owner uuid.UUID) []*Dialogue {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []*Dialogue
	rest := r.list[:0]
	for _, d := range r.list {
		if d.Owner == owner && !d.IsGlobal() {
			removed = append(removed, d)
		} else {
			rest = append(rest, d)
		}
	}
	r.list = rest
	return removed
}

// Active returns the dialogues the player can address, globals included,
// in registration order. The slice is a snapshot; registry mutation does
// not disturb it.
func (r *Registry) Active(owner uuid.UUID) []*Dialogue {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Dialogue
	for _, d := range r.list {
		if d.IsGlobal() || d.Owner == owner {
			out = append(out, d)
		}
	}
	return out
}

// Len reports how many dialogues are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

// OptionsText renders the player's merged option list: every active
// dialogue in registration order under one running response counter. The
// counter here and the resolution scan must stay in lockstep, or the
// numbers a player sees would not be the numbers that act.
func (r *Registry) OptionsText(m *player.Meta) string {
	var b strings.Builder
	first := 1
	for _, d := range r.Active(m.ID) {
		b.WriteString("\n")
		b.WriteString(d.Display(m.LineLength, first))
		first += len(d.Responses)
	}
	return b.String()
}
