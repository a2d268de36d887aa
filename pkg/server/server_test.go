package server

import (
	"path/filepath"
	"testing"

	"github.com/wayfarer-mud/wayfarer/pkg/boltstore"
	"github.com/wayfarer-mud/wayfarer/pkg/game"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	g := game.New(game.DefaultGameConf(), store)
	return NewServer(g, store, DefaultConfig())
}

func TestParseConnect(t *testing.T) {
	cases := []struct {
		in                      string
		command, user, password string
	}{
		{"connect Brennan hunter2", "connect", "Brennan", "hunter2"},
		{"co Brennan hunter2", "co", "Brennan", "hunter2"},
		{"create Sona p4ss", "create", "Sona", "p4ss"},
		{`connect "Old Wren" secret`, "connect", "Old Wren", "secret"},
		{"connect guest", "connect", "guest", ""},
		{"  connect   ", "connect", "", ""},
		{"", "", "", ""},
	}
	for _, c := range cases {
		command, user, password := ParseConnect(c.in)
		if command != c.command || user != c.user || password != c.password {
			t.Errorf("ParseConnect(%q) = (%q, %q, %q), want (%q, %q, %q)",
				c.in, command, user, password, c.command, c.user, c.password)
		}
	}
}

func TestCreateThenConnect(t *testing.T) {
	s := testServer(t)

	created, err := s.loginCreate("brennan", "hunter2")
	if err != nil {
		t.Fatalf("loginCreate: %v", err)
	}

	// Duplicate account names are refused.
	if _, err := s.loginCreate("Brennan", "other"); err != errNameTaken {
		t.Errorf("duplicate create: err = %v, want errNameTaken", err)
	}

	m, err := s.loginConnect("brennan", "hunter2")
	if err != nil {
		t.Fatalf("loginConnect: %v", err)
	}
	if m.ID != created.ID {
		t.Errorf("connect loaded player %s, want %s", m.ID, created.ID)
	}

	if _, err := s.loginConnect("brennan", "wrong"); err != errBadCredentials {
		t.Errorf("wrong password: err = %v, want errBadCredentials", err)
	}
	if _, err := s.loginConnect("ghost", "hunter2"); err != errBadCredentials {
		t.Errorf("unknown account: err = %v, want errBadCredentials", err)
	}
}

func TestConnectRestoresSavedRecord(t *testing.T) {
	s := testServer(t)

	m, err := s.loginCreate("sona", "p4ss")
	if err != nil {
		t.Fatalf("loginCreate: %v", err)
	}
	m.Name = "Sona"
	m.TextSpeed = 900
	if err := s.Store.SavePlayer(m); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}

	got, err := s.loginConnect("sona", "p4ss")
	if err != nil {
		t.Fatalf("loginConnect: %v", err)
	}
	if got.Name != "Sona" || got.TextSpeed != 900 {
		t.Errorf("restored %q / %d, want Sona / 900", got.Name, got.TextSpeed)
	}
}

func TestGuestLogin(t *testing.T) {
	s := testServer(t)

	a := s.loginGuest()
	b := s.loginGuest()
	if a.ID == b.ID {
		t.Error("guests must get distinct ids")
	}
	if a.Name == b.Name {
		t.Errorf("guests must get distinct names, both %q", a.Name)
	}
	if a.Coords.Town != 0 {
		t.Errorf("guest starts in creation, got town %d", a.Coords.Town)
	}
}

func TestValidAccountName(t *testing.T) {
	valid := []string{"Brennan", "old-wren", "a2", "Under_score"}
	invalid := []string{"", "a", "guest", "GUEST", "has space", "dot.name",
		"waaaaaaaaaaaaaaaaaaaaaaaaytoolong"}

	for _, name := range valid {
		if !validAccountName(name) {
			t.Errorf("validAccountName(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if validAccountName(name) {
			t.Errorf("validAccountName(%q) = true, want false", name)
		}
	}
}

func TestStripTelnet(t *testing.T) {
	in := "look\xff\xfb\x01north"
	if got := stripTelnet(in); got != "looknorth" {
		t.Errorf("stripTelnet = %q", got)
	}
}
