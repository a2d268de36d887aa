package player

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewMetaDefaults(t *testing.T) {
	m := NewMeta(Remote)
	if m.ID == uuid.Nil {
		t.Error("new player has no id")
	}
	if m.Name != "New Player" {
		t.Errorf("name = %q, want %q", m.Name, "New Player")
	}
	if m.God != "Godless heathen" {
		t.Errorf("god = %q, want %q", m.God, "Godless heathen")
	}
	if m.Class != Melee {
		t.Errorf("class = %v, want Melee", m.Class)
	}
	// Display settings stay unset until the game applies its configured
	// values on join.
	if m.TextSpeed != 0 || m.LineLength != 0 {
		t.Errorf("settings = (%d, %d), want (0, 0)", m.TextSpeed, m.LineLength)
	}
	if m.Channel != Remote {
		t.Errorf("channel = %v, want Remote", m.Channel)
	}
}

func TestRecords(t *testing.T) {
	m := NewMeta(Local)
	c := Coordinates{Town: 1, X: 3, Z: 5}

	if m.Visited(c) {
		t.Error("fresh player has visited an area")
	}
	if got := m.Record(c, "num_uses"); got != 0 {
		t.Errorf("unset record = %d, want 0", got)
	}

	m.RecordVisit(c)
	if !m.Visited(c) {
		t.Error("RecordVisit did not mark the area visited")
	}

	if got := m.IncrRecord(c, "num_uses"); got != 1 {
		t.Errorf("IncrRecord = %d, want 1", got)
	}
	if got := m.IncrRecord(c, "num_uses"); got != 2 {
		t.Errorf("second IncrRecord = %d, want 2", got)
	}

	m.SetRecord(c, "donations", 7)
	if got := m.Record(c, "donations"); got != 7 {
		t.Errorf("Record after SetRecord = %d, want 7", got)
	}

	// A record write on an unvisited area creates its book.
	other := Coordinates{Town: 2, X: 0, Z: 5}
	m.SetRecord(other, "seen", 1)
	if !m.Visited(other) {
		t.Error("SetRecord did not create the area's book")
	}
}

func TestRecordsNilMaps(t *testing.T) {
	// A Meta decoded from the store may arrive with nil maps.
	m := &Meta{ID: uuid.New()}
	c := Coordinates{Town: 1, X: 1, Z: 1}
	if m.Visited(c) {
		t.Error("nil records reported a visit")
	}
	m.IncrRecord(c, "x")
	if got := m.Record(c, "x"); got != 1 {
		t.Errorf("record = %d, want 1", got)
	}
	m.LearnName(uuid.New())
	m.SetMarker(uuid.New(), 2)
}

func TestEntityKnowledge(t *testing.T) {
	m := NewMeta(Local)
	id := uuid.New()

	if m.Met(id) || m.KnowsName(id) {
		t.Error("fresh player knows an entity")
	}

	m.Meet(id)
	if !m.Met(id) {
		t.Error("Meet did not record the encounter")
	}
	if m.KnowsName(id) {
		t.Error("Meet learned the name")
	}

	m.LearnName(id)
	if !m.KnowsName(id) {
		t.Error("LearnName did not stick")
	}

	if got := m.Marker(id); got != 0 {
		t.Errorf("default marker = %d, want 0", got)
	}
	m.SetMarker(id, 2)
	if got := m.Marker(id); got != 2 {
		t.Errorf("marker = %d, want 2", got)
	}
	if !m.KnowsName(id) {
		t.Error("SetMarker clobbered the known name")
	}
}

func TestClassAllowedBy(t *testing.T) {
	if !Ranged.AllowedBy(nil) {
		t.Error("empty limits should allow every class")
	}
	if !Melee.AllowedBy([]Class{Melee, Magic}) {
		t.Error("Melee should be allowed by a list containing it")
	}
	if Ranged.AllowedBy([]Class{Melee}) {
		t.Error("Ranged allowed by a Melee-only list")
	}
}

func TestCoordinatesKey(t *testing.T) {
	c := Coordinates{Town: 2, X: 9, Z: 4}
	if got := c.Key(); got != "2:9:4" {
		t.Errorf("Key = %q, want %q", got, "2:9:4")
	}
}
