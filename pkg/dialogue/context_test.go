package dialogue

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

func TestResolveNumberingAcrossDialogues(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	g := New("Commands", Global)
	g.Responses = []Response{respond("A", &ran), respond("B", &ran)}
	p := New("Area", env.meta.ID)
	p.Responses = []Response{respond("C", &ran), respond("D", &ran), respond("E", &ran)}
	env.reg.Register(g)
	env.reg.Register(p)

	if res, _ := env.ctx.Resolve(env.meta, "3"); res != Success {
		t.Fatalf("resolve 3 = %v", res)
	}
	if res, _ := env.ctx.Resolve(env.meta, "5"); res != Success {
		t.Fatalf("resolve 5 = %v", res)
	}
	if len(ran) != 2 || ran[0] != "C" || ran[1] != "E" {
		t.Errorf("ran = %v, want [C E]", ran)
	}

	res, max := env.ctx.Resolve(env.meta, "6")
	if res != InvalidNumber {
		t.Fatalf("resolve 6 = %v, want InvalidNumber", res)
	}
	if max != 5 {
		t.Errorf("max seen = %d, want 5", max)
	}
}

func TestResolveScansPastSmallerDialogues(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	a := New("First", env.meta.ID)
	a.Responses = []Response{respond("a1", &ran), respond("a2", &ran)}
	b := New("Second", env.meta.ID)
	b.Responses = []Response{respond("b1", &ran), respond("b2", &ran), respond("b3", &ran)}
	env.reg.Register(a)
	env.reg.Register(b)

	res, max := env.ctx.Resolve(env.meta, "10")
	if res != InvalidNumber || max != 5 {
		t.Errorf("resolve 10 = (%v, %d), want (InvalidNumber, 5)", res, max)
	}
	if len(ran) != 0 {
		t.Errorf("an out-of-range number ran %v", ran)
	}

	// Number owned by the second dialogue resolves through the first.
	if res, _ := env.ctx.Resolve(env.meta, "4"); res != Success {
		t.Fatalf("resolve 4 = %v", res)
	}
	if len(ran) != 1 || ran[0] != "b2" {
		t.Errorf("ran = %v, want [b2]", ran)
	}
}

func TestResolveNoArgs(t *testing.T) {
	env := newTestEnv(t)
	if res, _ := env.ctx.Resolve(env.meta, "   "); res != NoArgs {
		t.Errorf("resolve blank = %v, want NoArgs", res)
	}
}

func TestResolveNoneFound(t *testing.T) {
	env := newTestEnv(t)
	env.reg.Register(New("Area", env.meta.ID))
	if res, _ := env.ctx.Resolve(env.meta, "xyzzy"); res != NoneFound {
		t.Errorf("resolve = %v, want NoneFound", res)
	}
}

func TestResolveCommandArgs(t *testing.T) {
	env := newTestEnv(t)
	var gotArgs []string
	d := New("Trades", env.meta.ID)
	d.Commands = []Command{
		ActionCommand("buy #", "Buy item #.", func(ctx *Context, m *player.Meta, args []string) {
			gotArgs = args
		}),
	}
	env.reg.Register(d)

	if res, _ := env.ctx.Resolve(env.meta, "buy 3 now"); res != Success {
		t.Fatalf("resolve = %v", res)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "3" || gotArgs[1] != "now" {
		t.Errorf("args = %v, want [3 now]", gotArgs)
	}

	// Only the command's name matches, not its usage arguments.
	if res, _ := env.ctx.Resolve(env.meta, "#"); res != NoneFound {
		t.Error("argument placeholder matched as a command name")
	}
}

func TestResolveZeroFallsThrough(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	d := New("Area", env.meta.ID)
	d.Responses = []Response{respond("one", &ran)}
	env.reg.Register(d)

	// Numbering starts at 1; "0" never addresses a response.
	if res, _ := env.ctx.Resolve(env.meta, "0"); res != NoneFound {
		t.Errorf("resolve 0 = %v, want NoneFound", res)
	}
	if len(ran) != 0 {
		t.Errorf("resolve 0 ran %v", ran)
	}

	// With a text handler up, "0" reads as ordinary text.
	var got string
	d.Handler = &TextHandler{
		Prompt: "Enter a code:",
		Run:    func(ctx *Context, m *player.Meta, input string) { got = input },
		Next:   Ignore,
	}
	if res, _ := env.ctx.Resolve(env.meta, "0"); res != Success {
		t.Fatal("text handler did not consume the line")
	}
	if got != "0" {
		t.Errorf("handler got %q, want %q", got, "0")
	}
}

func TestResolveOtherPlayersDialoguesInvisible(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	other := player.NewMeta(player.Local)
	d := New("Private", other.ID)
	d.Responses = []Response{respond("theirs", &ran)}
	env.reg.Register(d)

	if res, _ := env.ctx.Resolve(env.meta, "1"); res != InvalidNumber {
		t.Errorf("another player's dialogue resolved: ran %v", ran)
	}
}

func TestResolveTextHandlerGetsRawLine(t *testing.T) {
	env := newTestEnv(t)
	var got string
	outer := New("Outer", env.meta.ID)
	outer.Handler = &TextHandler{
		Prompt: "unused",
		Run:    func(ctx *Context, m *player.Meta, input string) { got = "outer" },
		Next:   Ignore,
	}
	inner := New("Name", env.meta.ID)
	inner.Handler = &TextHandler{
		Prompt: "Enter your name:",
		Run:    func(ctx *Context, m *player.Meta, input string) { got = input },
		Next:   Ignore,
	}
	env.reg.Register(outer)
	env.reg.Register(inner)

	if res, _ := env.ctx.Resolve(env.meta, "Ada of the Vale"); res != Success {
		t.Fatal("text handler did not consume the line")
	}
	if got != "Ada of the Vale" {
		t.Errorf("handler got %q, last registered handler should win", got)
	}
}

func TestDeleteTransitionDropsDialogue(t *testing.T) {
	env := newTestEnv(t)
	under := New("Area", env.meta.ID)
	under.Responses = []Response{TextOnly("Look around.")}
	top := New("Confirm Action", env.meta.ID)
	top.Responses = []Response{Closing("No.", nil)}
	env.reg.Register(under)
	env.reg.Register(top)

	if res, _ := env.ctx.Resolve(env.meta, "2"); res != Success {
		t.Fatal("closing response did not resolve")
	}
	active := env.reg.Active(env.meta.ID)
	if len(active) != 1 || active[0].ID != under.ID {
		t.Error("closing a stacked dialogue should leave the one beneath")
	}
	if env.sender.sends != 1 {
		t.Errorf("sends = %d, want 1 re-send after delete", env.sender.sends)
	}
}

func TestDirectTransitionImmediatelyResolvable(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	first := New("First", env.meta.ID)
	first.Responses = []Response{
		Goto("Onward.", func(ctx *Context, m *player.Meta) *Dialogue {
			next := New("Second", m.ID)
			next.Responses = []Response{respond("arrived", &ran)}
			return next
		}),
	}
	env.reg.Register(first)

	if res, _ := env.ctx.Resolve(env.meta, "1"); res != Success {
		t.Fatal("goto response did not resolve")
	}
	if res, _ := env.ctx.Resolve(env.meta, "1"); res != Success {
		t.Fatal("new dialogue should be live at once for a textless install")
	}
	if len(ran) != 1 || ran[0] != "arrived" {
		t.Errorf("ran = %v, want [arrived]", ran)
	}
}

func TestBlockingTransitionDefersResolvability(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	first := New("First", env.meta.ID)
	first.Responses = []Response{
		Goto("Onward.", func(ctx *Context, m *player.Meta) *Dialogue {
			next := New("Second", m.ID)
			next.Text = "A long story plays out."
			next.Responses = []Response{respond("arrived", &ran)}
			return next
		}),
	}
	env.reg.Register(first)

	if res, _ := env.ctx.Resolve(env.meta, "1"); res != Success {
		t.Fatal("goto response did not resolve")
	}

	// While the text plays, the new dialogue is stashed behind the
	// placeholder and its numbers must not act.
	if res, _ := env.ctx.Resolve(env.meta, "1"); res == Success {
		t.Fatal("new dialogue resolvable before the blocking delay elapsed")
	}
	if len(ran) != 0 {
		t.Fatalf("response ran during the blocking window: %v", ran)
	}

	// The pre-rendered option list already shows the new dialogue.
	if opts := env.meta.Msg().Options(); opts == "" {
		t.Error("options were not rendered before the blocking send")
	}

	env.sch.Tick(env.sender.speed)

	if res, _ := env.ctx.Resolve(env.meta, "1"); res != Success {
		t.Fatal("new dialogue not resolvable after the reveal")
	}
	if len(ran) != 1 || ran[0] != "arrived" {
		t.Errorf("ran = %v, want [arrived]", ran)
	}
}

func TestSendBlockingRestoresStashOrder(t *testing.T) {
	env := newTestEnv(t)
	a := New("A", env.meta.ID)
	b := New("B", env.meta.ID)
	env.reg.Register(a)
	env.reg.Register(b)

	env.ctx.SendBlocking(env.meta, "Meanwhile...")

	active := env.reg.Active(env.meta.ID)
	if len(active) != 1 || active[0].Title != "..." {
		t.Fatalf("during block, active = %d dialogues, want the placeholder", len(active))
	}

	env.sch.Tick(env.sender.speed)

	active = env.reg.Active(env.meta.ID)
	if len(active) != 2 || active[0].ID != a.ID || active[1].ID != b.ID {
		t.Fatal("stash not restored in order")
	}
}

func TestFromAreaTransition(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.AreaDialogue = func(ctx *Context, m *player.Meta) *Dialogue {
		d := New("Path", m.ID)
		d.Responses = []Response{TextOnly("Go forward.")}
		return d
	}
	leaving := New("Trades", env.meta.ID)
	leaving.Responses = []Response{TextOnly("Leave.")}
	env.reg.Register(leaving)

	if res, _ := env.ctx.Resolve(env.meta, "1"); res != Success {
		t.Fatal("leave did not resolve")
	}
	active := env.reg.Active(env.meta.ID)
	if len(active) != 1 || active[0].Title != "Path" {
		t.Errorf("active after FromArea = %v, want the area dialogue", active)
	}
}

// Every number shown by the renderer must address exactly the response
// that produced it.
func TestRenderResolveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	var ran []string
	g := New("Commands", Global)
	g.Responses = []Response{respond("g1", &ran), respond("g2", &ran)}
	p1 := New("Area", env.meta.ID)
	p1.Info = "Numbered info should not shift numbering.\n1: not a response"
	p1.Responses = []Response{respond("p1a", &ran), respond("p1b", &ran), respond("p1c", &ran)}
	p2 := New("Stacked", env.meta.ID)
	p2.Responses = []Response{respond("p2a", &ran)}
	env.reg.Register(g)
	env.reg.Register(p1)
	env.reg.Register(p2)

	rendered := env.reg.OptionsText(env.meta)
	pairs := regexp.MustCompile(`(?m)^(\d+): (\S+)$`).FindAllStringSubmatch(rendered, -1)
	if len(pairs) != 6 {
		t.Fatalf("rendered %d numbered lines, want 6:\n%s", len(pairs), rendered)
	}

	for _, pair := range pairs {
		num, err := strconv.Atoi(pair[1])
		if err != nil {
			t.Fatalf("bad number %q", pair[1])
		}
		ran = ran[:0]
		if res, _ := env.ctx.Resolve(env.meta, pair[1]); res != Success {
			t.Fatalf("number %d did not resolve", num)
		}
		if len(ran) != 1 || ran[0] != pair[2] {
			t.Errorf("number %d ran %v, display says %q", num, ran, pair[2])
		}
	}
}
