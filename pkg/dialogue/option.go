package dialogue

import (
	"strings"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Action runs when a player picks a numbered response.
type Action func(ctx *Context, m *player.Meta)

// ArgsAction runs a named command with the tokens after the command name.
type ArgsAction func(ctx *Context, m *player.Meta, args []string)

// InputAction runs a text handler with the player's whole input line.
type InputAction func(ctx *Context, m *player.Meta, input string)

// Thunk builds the next dialogue on demand, after the triggering action
// has run, so it observes post-action state. A nil result installs
// nothing and just refreshes the player's display.
type Thunk func(ctx *Context, m *player.Meta) *Dialogue

type transitionKind int

const (
	transIgnore transitionKind = iota
	transFromArea
	transDelete
	transGenerate
)

// Transition says what follows once a response, command or text handler
// has run: nothing, the player's area dialogue, removal of the current
// dialogue, or a freshly generated one.
type Transition struct {
	kind transitionKind
	gen  Thunk
}

var (
	// Ignore leaves the registry alone; the action is expected to have
	// arranged any follow-up itself.
	Ignore = Transition{kind: transIgnore}
	// FromArea replaces the current dialogue with the one the player's
	// area builds.
	FromArea = Transition{kind: transFromArea}
	// Delete removes the current dialogue and re-sends the display,
	// dropping back to whatever is stacked beneath.
	Delete = Transition{kind: transDelete}
)

// Generate replaces the current dialogue with the thunk's product.
func Generate(gen Thunk) Transition {
	return Transition{kind: transGenerate, gen: gen}
}

// Response is a numbered, selectable choice on a dialogue.
type Response struct {
	Text string
	Run  Action // optional
	Next Transition
}

// Simple is a response that returns to the area dialogue after running.
func Simple(respText string, run Action) Response {
	return Response{Text: respText, Run: run, Next: FromArea}
}

// ActionOnly runs and leaves the current dialogue in place.
func ActionOnly(respText string, run Action) Response {
	return Response{Text: respText, Run: run, Next: Ignore}
}

// TextOnly does nothing but return to the area dialogue.
func TextOnly(respText string) Response {
	return Response{Text: respText, Next: FromArea}
}

// Closing removes the dialogue it belongs to after running.
func Closing(respText string, run Action) Response {
	return Response{Text: respText, Run: run, Next: Delete}
}

// Goto moves to the dialogue the thunk builds.
func Goto(respText string, gen Thunk) Response {
	return Response{Text: respText, Next: Generate(gen)}
}

func (r Response) display(width int) string {
	if text.HasAutoBreak(r.Text) {
		return text.AutoBreak(text.StripAutoBreak(r.Text), width)
	}
	return r.Text
}

// Command is a named alternative to a numbered response. Input is the
// displayed usage ("buy #"); its first word is the name matched against
// the player's first token. Output describes the effect.
type Command struct {
	Input  string
	Output string
	Run    ArgsAction // optional
	Next   Transition
}

// NewCommand builds a command with an explicit transition.
func NewCommand(input, output string, run ArgsAction, next Transition) Command {
	return Command{Input: input, Output: output, Run: run, Next: next}
}

// SimpleCommand returns to the area dialogue after running.
func SimpleCommand(input, output string, run ArgsAction) Command {
	return Command{Input: input, Output: output, Run: run, Next: FromArea}
}

// ActionCommand runs and leaves the current dialogue in place.
func ActionCommand(input, output string, run ArgsAction) Command {
	return Command{Input: input, Output: output, Run: run, Next: Ignore}
}

// ClosingCommand removes the dialogue it belongs to after running.
func ClosingCommand(input, output string, run ArgsAction) Command {
	return Command{Input: input, Output: output, Run: run, Next: Delete}
}

// GotoCommand moves to the dialogue the thunk builds.
func GotoCommand(input, output string, gen Thunk) Command {
	return Command{Input: input, Output: output, Next: Generate(gen)}
}

// Matches reports whether token selects this command.
func (c Command) Matches(token string) bool {
	name := c.Input
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return name == token
}

// TextHandler catches free text typed at a dialogue expecting it, such as
// a name prompt. It receives the entire raw input line.
type TextHandler struct {
	Prompt string
	Run    InputAction
	Next   Transition
}
