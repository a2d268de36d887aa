package player

import (
	"strings"

	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// MaxShortMessages caps the rolling "* " notices kept in the general
// block before the oldest is dropped.
const MaxShortMessages = 3

// Message is the reusable screen message a player's whole display is
// composed into: a general text block (either one narrative block or a
// rolling list of short notices), the rendered option list, and the
// health bar. The zero value is empty and ready to use.
//
// The general block keeps its pause marks so delivery can play it out in
// timed parts; Format strips them for the fully-revealed form.
type Message struct {
	healthBar string
	general   []string
	options   string
}

// SetGeneral replaces the whole general block with one narrative entry,
// wrapped at width when the text carries the auto-break mark. Every line
// is set off with "> ".
func (m *Message) SetGeneral(s string, width int) {
	if text.HasAutoBreak(s) {
		s = text.AutoBreak(text.StripAutoBreak(s), width)
	}
	m.general = m.general[:0]
	m.general = append(m.general, text.Prefix(s, "> ")+"\n")
}

// AddShort appends a short "* " notice. A narrative block already in
// place is dropped first; once MaxShortMessages notices accumulate the
// oldest rolls off.
func (m *Message) AddShort(s string) {
	if len(m.general) > 0 && strings.HasPrefix(m.general[0], ">") {
		m.general = m.general[:0]
	}
	if len(m.general) >= MaxShortMessages {
		m.general = m.general[1:]
	}
	m.general = append(m.general, "* "+s+"\n")
}

// ClearGeneral empties the general block.
func (m *Message) ClearGeneral() {
	m.general = m.general[:0]
}

// General returns the general block as one string, pause marks intact.
func (m *Message) General() string {
	return strings.Join(m.general, "")
}

// SetOptions replaces the rendered option list.
func (m *Message) SetOptions(s string) {
	m.options = s
}

// Options returns the rendered option list.
func (m *Message) Options() string {
	return m.options
}

// SetHealthBar replaces the health bar line.
func (m *Message) SetHealthBar(s string) {
	m.healthBar = s
}

// HealthBar returns the health bar line.
func (m *Message) HealthBar() string {
	return m.healthBar
}

// Format assembles the full screen as it reads once every timed part has
// been delivered: general block, option list, then the health bar.
func (m *Message) Format() string {
	return text.StripTimers(m.General() + m.options + "\n" + m.healthBar)
}
