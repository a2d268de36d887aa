package dialogue

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/events"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// Sender delivers a player's assembled screen message over their
// channel, honoring pause marks, and returns a handler expiring when the
// last part lands. The game layer implements it; the engine never
// performs I/O itself.
type Sender interface {
	Send(m *player.Meta) events.DelayHandler
}

// PlayerSource resolves player ids for scheduled callbacks that run
// after the triggering player may have left.
type PlayerSource interface {
	Player(id uuid.UUID) (*player.Meta, bool)
}

// Context wires the engine to its collaborators: the registry it
// resolves against, the scheduler for timed work, the sender for
// delivery, and the hook that builds a player's area dialogue for
// FromArea transitions.
type Context struct {
	Registry     *Registry
	Scheduler    *events.Scheduler
	Sender       Sender
	Players      PlayerSource
	AreaDialogue Thunk
}

// Result classifies one resolution attempt. Anything but Success leaves
// all state untouched; these are expected outcomes of free-text parsing,
// not errors.
type Result int

const (
	Success Result = iota
	NoArgs
	NoneFound
	InvalidNumber
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case NoArgs:
		return "no args"
	case NoneFound:
		return "none found"
	case InvalidNumber:
		return "invalid number"
	default:
		return "unknown"
	}
}

// Resolve runs one line of player input against the player's active
// dialogues. The second return is the highest response number scanned,
// meaningful only for InvalidNumber.
//
// A numeric first token is matched against the merged response
// numbering: each dialogue in registration order claims the next
// len(responses) numbers, and the first dialogue whose range contains
// the number runs the response. A number no dialogue claims is
// InvalidNumber; it never falls through to commands. A non-numeric
// token tries every active dialogue's commands by name, then the last
// registered text handler gets the whole raw line.
func (ctx *Context) Resolve(m *player.Meta, input string) (Result, int) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return NoArgs, 0
	}
	head := fields[0]
	active := ctx.Registry.Active(m.ID)

	// Numbering starts at 1, so "0" is not numeric input; it falls
	// through to command and text-handler matching below.
	if n, err := strconv.Atoi(head); err == nil && n >= 1 {
		offset := 1
		for _, d := range active {
			local := n - (offset - 1)
			if local >= 1 && local <= len(d.Responses) {
				r := d.Responses[local-1]
				if r.Run != nil {
					r.Run(ctx, m)
				}
				ctx.apply(m, d, r.Next)
				return Success, 0
			}
			offset += len(d.Responses)
		}
		return InvalidNumber, offset - 1
	}

	for _, d := range active {
		for _, c := range d.Commands {
			if !c.Matches(head) {
				continue
			}
			if c.Run != nil {
				c.Run(ctx, m, fields[1:])
			}
			ctx.apply(m, d, c.Next)
			return Success, 0
		}
	}

	for i := len(active) - 1; i >= 0; i-- {
		d := active[i]
		if d.Handler == nil {
			continue
		}
		if d.Handler.Run != nil {
			d.Handler.Run(ctx, m, input)
		}
		ctx.apply(m, d, d.Handler.Next)
		return Success, 0
	}

	return NoneFound, 0
}

// apply carries out an option's transition after its action has run.
func (ctx *Context) apply(m *player.Meta, current *Dialogue, tr Transition) {
	switch tr.kind {
	case transIgnore:
	case transDelete:
		ctx.Registry.Delete(current.ID)
		ctx.SendOptions(m)
	case transFromArea:
		ctx.install(m, current, ctx.AreaDialogue(ctx, m))
	case transGenerate:
		ctx.install(m, current, tr.gen(ctx, m))
	}
}

// install swaps current for next. A next with blocking text is revealed
// gradually: the new option list is rendered into the player's message
// silently, then the text plays out while a placeholder keeps the new
// options unresolvable; the stash restore at the end of SendBlocking
// makes them live exactly as the final timed part shows them.
func (ctx *Context) install(m *player.Meta, current, next *Dialogue) {
	if next == nil {
		ctx.SendOptions(m)
		return
	}
	ctx.Registry.Delete(current.ID)
	ctx.Registry.Register(next)
	if next.Text != "" {
		ctx.UpdateOptions(m)
		ctx.SendBlocking(m, next.Text)
	} else {
		ctx.SendOptions(m)
	}
}

// UpdateOptions re-renders the player's option list into their message
// without sending anything.
func (ctx *Context) UpdateOptions(m *player.Meta) {
	m.Msg().SetOptions(ctx.Registry.OptionsText(m))
}

// SendOptions re-renders the option list and sends the full display.
func (ctx *Context) SendOptions(m *player.Meta) {
	ctx.UpdateOptions(m)
	ctx.Sender.Send(m)
}

// SendGeneral replaces the general block and sends the display.
func (ctx *Context) SendGeneral(m *player.Meta, msg string) events.DelayHandler {
	m.SetGeneral(msg)
	return ctx.Sender.Send(m)
}

// SendShort adds a short notice and sends the display.
func (ctx *Context) SendShort(m *player.Meta, msg string) {
	m.AddShort(msg)
	ctx.Sender.Send(m)
}

// SendBlocking plays msg as a timed interstitial. The player's own
// dialogues are stashed behind an empty placeholder for the duration, so
// nothing of theirs resolves until the restore fires; the option list
// already rendered into their message is left untouched and arrives with
// the final timed part.
func (ctx *Context) SendBlocking(m *player.Meta, msg string) events.DelayHandler {
	stash := ctx.Registry.RemoveAll(m.ID)
	placeholder := Empty(m.ID)
	ctx.Registry.Register(placeholder)
	m.SetGeneral(msg)
	h := ctx.Sender.Send(m)
	h.Then(func() {
		ctx.Registry.Delete(placeholder.ID)
		for _, d := range stash {
			ctx.Registry.Register(d)
		}
	})
	return h
}
