// Package text holds the string machinery shared by the dialogue and world
// layers: random selection from phrase pools, placeholder substitution,
// width-aware wrapping, and the inline markup that times and formats
// outbound game text.
//
// Two marks appear inside game strings. A leading "§" asks for automatic
// line breaking at the reader's configured width. A "∫" splits the text
// into sections delivered one after another; it may be followed by a
// floating point multiplier ("∫0.2") scaling the pause before that section,
// defaulting to 1.
package text

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// AutoBreakMark asks the renderer to wrap this text at the display width.
const AutoBreakMark = "§"

// PauseMark splits a message into timed sections.
const PauseMark = "∫"

var speedPattern = regexp.MustCompile(`^(\d{1,2}(\.\d{1,2})?)?`)

var timerPattern = regexp.MustCompile(`∫(\d{1,2}(\.\d{1,2})?)?`)

// Choose returns a random element of items. Panics on an empty slice;
// callers with possibly-empty pools use ChooseText.
func Choose[T any](items []T) T {
	if len(items) == 0 {
		panic("text: Choose on an empty slice")
	}
	return items[rand.Intn(len(items))]
}

// ChooseText returns a random element of items, or "" for an empty slice.
func ChooseText(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rand.Intn(len(items))]
}

// Replace substitutes placeholder pairs in order: Replace(s, "<name>", name).
func Replace(s string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(s)
}

// Generate picks a random template from options and applies the
// replacement pairs.
func Generate(options []string, oldnew ...string) string {
	return Replace(Choose(options), oldnew...)
}

// HasAutoBreak reports whether s carries the auto-break mark.
func HasAutoBreak(s string) bool {
	return strings.HasPrefix(s, AutoBreakMark)
}

// StripAutoBreak removes a leading auto-break mark.
func StripAutoBreak(s string) string {
	return strings.TrimPrefix(s, AutoBreakMark)
}

// AutoBreak wraps s at width columns, breaking on word boundaries and
// keeping any newlines already present.
func AutoBreak(s string, width int) string {
	return wordwrap.String(s, width)
}

// Prefix prepends pre to every line of s without altering line endings.
// Used for the "> " info block of a dialogue display.
func Prefix(s, pre string) string {
	return pre + strings.ReplaceAll(s, "\n", "\n"+pre)
}

// PrefixLines prefixes every line of s with pre, terminating each with a
// newline. The result always ends in "\n".
func PrefixLines(s, pre string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		b.WriteString(pre)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Part is one timed section of a split message. Factor scales the standard
// pause that precedes this section; the first section of any message has
// Factor 0 and is delivered immediately.
type Part struct {
	Text   string
	Factor float64
}

// SplitTimed splits s on pause marks into delivery sections. A mark
// followed by a number ("∫0.5") uses that number as the section's pause
// factor; otherwise the factor is 1.
func SplitTimed(s string) []Part {
	sections := strings.Split(s, PauseMark)
	parts := make([]Part, 0, len(sections))
	parts = append(parts, Part{Text: sections[0]})

	for _, section := range sections[1:] {
		factor := 1.0
		if m := speedPattern.FindString(section); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				factor = f
			}
			section = section[len(m):]
		}
		parts = append(parts, Part{Text: section, Factor: factor})
	}
	return parts
}

// StripTimers removes every pause mark and its speed factor, yielding the
// text as it reads once fully delivered.
func StripTimers(s string) string {
	return timerPattern.ReplaceAllString(s, "")
}
