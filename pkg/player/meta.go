package player

import (
	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Knowledge is what a player has learned about one entity: whether they
// know its name (unlocking familiar dialogue) and a marker the entity's
// dialogue logic uses to resume multi-step conversations.
type Knowledge struct {
	KnowsName bool
	Marker    int
}

// Meta is the persistent per-player record. Exported fields round-trip
// through the store; the screen message and anything else runtime-only is
// rebuilt on login.
type Meta struct {
	ID      uuid.UUID
	Name    string
	God     string
	Class   Class
	Coords  Coordinates
	Channel Channel

	// Display settings, adjustable from the settings dialogue.
	TextSpeed  int64
	LineLength int

	// Records holds one book per visited area keyed by the area's
	// coordinates; each book maps a record name to a counter. An area is
	// "visited" exactly when its book exists.
	Records map[Coordinates]map[string]int

	// Known tracks entity knowledge by entity id.
	Known map[uuid.UUID]Knowledge

	msg Message
}

// NewMeta creates a fresh, unnamed player on the given channel.
func NewMeta(ch Channel) *Meta {
	// TextSpeed and LineLength stay zero here; the game applies its
	// configured values when the player joins, so config (and config
	// hot-reload) wins over any hardcoded default.
	return &Meta{
		ID:      uuid.New(),
		Name:    "New Player",
		God:     "Godless heathen",
		Class:   Melee,
		Channel: ch,
		Records: make(map[Coordinates]map[string]int),
		Known:   make(map[uuid.UUID]Knowledge),
	}
}

// Msg returns the player's reusable screen message.
func (m *Meta) Msg() *Message {
	return &m.msg
}

// SetGeneral replaces the general text block, wrapped to the player's
// line length when the text asks for it.
func (m *Meta) SetGeneral(s string) {
	m.msg.SetGeneral(s, m.LineLength)
}

// AddShort appends a short "* " notice to the general block, wrapped to
// the player's line length when the text asks for it.
func (m *Meta) AddShort(s string) {
	if text.HasAutoBreak(s) {
		s = text.AutoBreak(text.StripAutoBreak(s), m.LineLength)
	}
	m.msg.AddShort(s)
}

// Visited reports whether the player has a record book for the area.
func (m *Meta) Visited(c Coordinates) bool {
	_, ok := m.Records[c]
	return ok
}

// RecordVisit creates the area's record book if absent.
func (m *Meta) RecordVisit(c Coordinates) {
	m.book(c)
}

// Record returns the named counter for the area, zero when unset.
func (m *Meta) Record(c Coordinates, name string) int {
	return m.Records[c][name]
}

// SetRecord sets the named counter for the area, creating the book as
// needed.
func (m *Meta) SetRecord(c Coordinates, name string, v int) {
	m.book(c)[name] = v
}

// IncrRecord adds one to the named counter and returns the new value.
func (m *Meta) IncrRecord(c Coordinates, name string) int {
	b := m.book(c)
	b[name]++
	return b[name]
}

func (m *Meta) book(c Coordinates) map[string]int {
	if m.Records == nil {
		m.Records = make(map[Coordinates]map[string]int)
	}
	b, ok := m.Records[c]
	if !ok {
		b = make(map[string]int)
		m.Records[c] = b
	}
	return b
}

// Met reports whether the player has encountered the entity before.
func (m *Meta) Met(id uuid.UUID) bool {
	_, ok := m.Known[id]
	return ok
}

// KnowsName reports whether the player has learned the entity's name.
func (m *Meta) KnowsName(id uuid.UUID) bool {
	return m.Known[id].KnowsName
}

// Meet records the encounter without learning anything further.
func (m *Meta) Meet(id uuid.UUID) {
	if m.Known == nil {
		m.Known = make(map[uuid.UUID]Knowledge)
	}
	if _, ok := m.Known[id]; !ok {
		m.Known[id] = Knowledge{}
	}
}

// LearnName marks the entity's name as known.
func (m *Meta) LearnName(id uuid.UUID) {
	if m.Known == nil {
		m.Known = make(map[uuid.UUID]Knowledge)
	}
	k := m.Known[id]
	k.KnowsName = true
	m.Known[id] = k
}

// Marker returns the dialogue marker recorded for the entity, zero when
// none has been set.
func (m *Meta) Marker(id uuid.UUID) int {
	return m.Known[id].Marker
}

// SetMarker records a dialogue marker for the entity.
func (m *Meta) SetMarker(id uuid.UUID, marker int) {
	if m.Known == nil {
		m.Known = make(map[uuid.UUID]Knowledge)
	}
	k := m.Known[id]
	k.Marker = marker
	m.Known[id] = k
}
