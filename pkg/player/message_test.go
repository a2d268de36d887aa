package player

import (
	"strings"
	"testing"
)

func TestSetGeneralIndents(t *testing.T) {
	var m Message
	m.SetGeneral("first line\nsecond line", 40)
	want := "> first line\n> second line\n"
	if got := m.General(); got != want {
		t.Errorf("General = %q, want %q", got, want)
	}
}

func TestSetGeneralAutoBreaks(t *testing.T) {
	var m Message
	m.SetGeneral("§alpha beta gamma delta", 11)
	for _, line := range strings.Split(strings.TrimSuffix(m.General(), "\n"), "\n") {
		if !strings.HasPrefix(line, "> ") {
			t.Errorf("line %q missing the general prefix", line)
		}
		if len(line) > len("> ")+11 {
			t.Errorf("line %q exceeds the wrap width", line)
		}
	}
}

func TestAddShortRolls(t *testing.T) {
	var m Message
	m.AddShort("one")
	m.AddShort("two")
	m.AddShort("three")
	got := m.General()
	want := "* one\n* two\n* three\n"
	if got != want {
		t.Errorf("General = %q, want %q", got, want)
	}

	m.AddShort("four")
	got = m.General()
	want = "* two\n* three\n* four\n"
	if got != want {
		t.Errorf("after rolling, General = %q, want %q", got, want)
	}
}

func TestAddShortClearsNarrative(t *testing.T) {
	var m Message
	m.SetGeneral("a long story", 40)
	m.AddShort("ding")
	if got := m.General(); got != "* ding\n" {
		t.Errorf("General = %q, want only the notice", got)
	}
}

func TestFormatAssembly(t *testing.T) {
	var m Message
	m.SetGeneral("You pray.∫0.5 Nothing happens.", 40)
	m.SetOptions("\n### Altar ###\n\n1: Leave.\n")
	m.SetHealthBar("HP: (20 / 20); Dps: (5d / 9.0s); Gold: 0g")

	got := m.Format()
	if strings.Contains(got, "∫") {
		t.Errorf("Format kept a pause mark: %q", got)
	}
	if !strings.Contains(got, "> You pray. Nothing happens.") {
		t.Errorf("Format lost the general block: %q", got)
	}
	if !strings.Contains(got, "### Altar ###") {
		t.Errorf("Format lost the options: %q", got)
	}
	if !strings.HasSuffix(got, "\nHP: (20 / 20); Dps: (5d / 9.0s); Gold: 0g") {
		t.Errorf("Format should end with the health bar: %q", got)
	}
}

func TestGeneralKeepsTimers(t *testing.T) {
	var m Message
	m.SetGeneral("Wait.∫0.3 Go.", 40)
	if !strings.Contains(m.General(), "∫0.3") {
		t.Error("General should keep pause marks for timed delivery")
	}
}
