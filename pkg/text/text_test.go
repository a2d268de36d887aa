package text

import (
	"strings"
	"testing"
)

func TestChoose(t *testing.T) {
	pool := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		got := Choose(pool)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("Choose returned %q, not a pool member", got)
		}
	}

	single := Choose([]int{7})
	if single != 7 {
		t.Errorf("Choose on one-element slice = %d, want 7", single)
	}
}

func TestChoosePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Choose on empty slice did not panic")
		}
	}()
	Choose([]string(nil))
}

func TestChooseText(t *testing.T) {
	if got := ChooseText(nil); got != "" {
		t.Errorf("ChooseText(nil) = %q, want empty", got)
	}
	if got := ChooseText([]string{"only"}); got != "only" {
		t.Errorf("ChooseText = %q, want %q", got, "only")
	}
}

func TestReplace(t *testing.T) {
	got := Replace("Hail <name>, chosen of <god>.", "<name>", "Ash", "<god>", "Ogma")
	want := "Hail Ash, chosen of Ogma."
	if got != want {
		t.Errorf("Replace = %q, want %q", got, want)
	}
}

func TestGenerate(t *testing.T) {
	got := Generate([]string{"<a>-<b>"}, "<a>", "x", "<b>", "y")
	if got != "x-y" {
		t.Errorf("Generate = %q, want %q", got, "x-y")
	}
}

func TestAutoBreakMarks(t *testing.T) {
	marked := AutoBreakMark + "some text"
	if !HasAutoBreak(marked) {
		t.Error("HasAutoBreak missed a leading mark")
	}
	if HasAutoBreak("some text") {
		t.Error("HasAutoBreak reported a mark on plain text")
	}
	if got := StripAutoBreak(marked); got != "some text" {
		t.Errorf("StripAutoBreak = %q, want %q", got, "some text")
	}
	if got := StripAutoBreak("plain"); got != "plain" {
		t.Errorf("StripAutoBreak on plain text = %q, want %q", got, "plain")
	}
}

func TestAutoBreak(t *testing.T) {
	got := AutoBreak("one two three four", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width 9", line)
		}
	}
	if strings.ReplaceAll(got, "\n", " ") != "one two three four" {
		t.Errorf("AutoBreak altered the words: %q", got)
	}
}

func TestPrefix(t *testing.T) {
	got := Prefix("first\nsecond", "> ")
	want := "> first\n> second"
	if got != want {
		t.Errorf("Prefix = %q, want %q", got, want)
	}
}

func TestPrefixLines(t *testing.T) {
	got := PrefixLines("first\nsecond\n", "> ")
	want := "> first\n> second\n"
	if got != want {
		t.Errorf("PrefixLines = %q, want %q", got, want)
	}

	// A missing final newline is supplied.
	if got := PrefixLines("only", "* "); got != "* only\n" {
		t.Errorf("PrefixLines = %q, want %q", got, "* only\n")
	}
}

func TestSplitTimed(t *testing.T) {
	parts := SplitTimed("Hello.∫0.2 A pause.∫ Another.")
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	if parts[0].Text != "Hello." || parts[0].Factor != 0 {
		t.Errorf("part 0 = %+v", parts[0])
	}
	if parts[1].Text != " A pause." || parts[1].Factor != 0.2 {
		t.Errorf("part 1 = %+v", parts[1])
	}
	if parts[2].Text != " Another." || parts[2].Factor != 1 {
		t.Errorf("part 2 = %+v", parts[2])
	}
}

func TestSplitTimedNoMarks(t *testing.T) {
	parts := SplitTimed("plain text")
	if len(parts) != 1 || parts[0].Text != "plain text" {
		t.Fatalf("got %+v, want single plain part", parts)
	}
}

func TestStripTimers(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello.∫0.2 A pause.∫ Another.", "Hello. A pause. Another."},
		{"...∫0.2.∫0.2.∫0.5", "....."},
		{"no timers here", "no timers here"},
		{"∫12.25tail", "tail"},
	}
	for _, c := range cases {
		if got := StripTimers(c.in); got != c.want {
			t.Errorf("StripTimers(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
