// Package dialogue is the option engine: every screen a player sees is a
// Dialogue made of numbered responses, named commands and an optional
// free-text handler, all kept in one process-wide Registry. Input
// resolution, the transition protocol that swaps dialogues in and out,
// and the timed "blocking" message mechanics live here; building the
// dialogues themselves is the world's and the game's business.
//
// Numbering is global across a player's active set: the displayed option
// list merges the global dialogues with the player's own, in registration
// order, under one running counter, and resolution walks the same order
// with the same counter. Render and resolve must never disagree.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/events"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Global is the owner of dialogues visible to every player. Globally
// owned dialogues cannot be deleted through the registry.
var Global uuid.UUID

// TempDialogueDuration is how long a temporary dialogue such as a
// confirmation prompt stays up before deleting itself, in ms.
const TempDialogueDuration int64 = 20000

// Dialogue is one screen's worth of interaction. Text, when set, is
// delivered as a timed blocking message as the dialogue is installed;
// Info is a persistent description rendered above the responses.
type Dialogue struct {
	ID        uuid.UUID
	Title     string
	Text      string
	Info      string
	Responses []Response
	Commands  []Command
	Handler   *TextHandler
	Owner     uuid.UUID
}

// New creates an empty dialogue with a fresh id.
func New(title string, owner uuid.UUID) *Dialogue {
	return &Dialogue{ID: uuid.New(), Title: title, Owner: owner}
}

// NewSimple builds a dialogue with blocking text and responses.
func NewSimple(owner uuid.UUID, title, blockText string, rs []Response) *Dialogue {
	d := New(title, owner)
	d.Text = blockText
	d.Responses = rs
	return d
}

// NewOptions builds a dialogue with responses and commands and no
// blocking text.
func NewOptions(owner uuid.UUID, title string, rs []Response, cs []Command) *Dialogue {
	d := New(title, owner)
	d.Responses = rs
	d.Commands = cs
	return d
}

// NewHandleText builds a dialogue around a free-text prompt.
func NewHandleText(owner uuid.UUID, title, blockText string, h TextHandler) *Dialogue {
	d := New(title, owner)
	d.Text = blockText
	d.Handler = &h
	return d
}

// NewCommands builds a command-only dialogue.
func NewCommands(owner uuid.UUID, title string, cs []Command) *Dialogue {
	d := New(title, owner)
	d.Commands = cs
	return d
}

// Empty is the placeholder screen shown while a blocking message plays.
func Empty(owner uuid.UUID) *Dialogue {
	return New("...", owner)
}

// Confirm stacks a yes/no prompt on top of the player's current screen.
// Both answers remove the prompt again. A temporary prompt removes
// itself after TempDialogueDuration.
func Confirm(ctx *Context, owner uuid.UUID, temporary bool, onYes, onNo Action) *Dialogue {
	d := New("Confirm Action", owner)
	d.Info = "Are you sure?"
	d.Responses = []Response{
		Closing("Yes.", onYes),
		Closing("No.", onNo),
	}
	if temporary {
		DeleteIn(ctx, owner, d.ID, TempDialogueDuration)
	}
	return d
}

// IsGlobal reports whether the dialogue is globally owned.
func (d *Dialogue) IsGlobal() bool {
	return d.Owner == Global
}

// DeleteIn schedules the dialogue's removal delay ms from now; when it
// is still registered at that point, the owner's display is re-sent.
func DeleteIn(ctx *Context, owner, id uuid.UUID, delay int64) events.DelayHandler {
	h := ctx.Scheduler.NewDelayHandler(delay)
	h.Then(func() {
		if !ctx.Registry.Delete(id) {
			return
		}
		if m, ok := ctx.Players.Player(owner); ok {
			ctx.SendOptions(m)
		}
	})
	return h
}

// Display renders the dialogue with its responses numbered from
// firstResponse, wrapping marked text at width columns:
//
//	### <title> ###
//
//	> <info>
//
//	<n>: <response>
//	_: <text handler prompt>
//
//	| <command input> | -> <command effect>
func (d *Dialogue) Display(width, firstResponse int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s ###\n\n", d.Title)
	if d.Info != "" {
		b.WriteString(text.Prefix(d.Info, "> "))
		b.WriteString("\n\n")
	}
	num := firstResponse
	for _, r := range d.Responses {
		fmt.Fprintf(&b, "%d: %s\n", num, r.display(width))
		num++
	}
	if d.Handler != nil {
		fmt.Fprintf(&b, "_: %s\n", d.Handler.Prompt)
	}
	if len(d.Commands) > 0 {
		b.WriteString("\n")
		for _, c := range d.Commands {
			fmt.Fprintf(&b, "| %s | -> %s\n", c.Input, c.Output)
		}
	}
	return b.String()
}
