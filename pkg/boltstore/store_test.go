package boltstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPlayerRoundTrip(t *testing.T) {
	s := openTestStore(t)

	m := player.NewMeta(player.Remote)
	m.Name = "Brennan"
	m.God = "Gilgamesh"
	m.Class = player.Melee
	m.Coords = player.Coordinates{Town: 2, X: 3, Z: 5}
	m.SetRecord(m.Coords, "visits", 4)
	m.LearnName(uuid.New())

	if err := s.SavePlayer(m); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}

	got, err := s.LoadPlayer(m.ID)
	if err != nil {
		t.Fatalf("LoadPlayer: %v", err)
	}
	if got.Name != "Brennan" || got.God != "Gilgamesh" {
		t.Errorf("got %q / %q", got.Name, got.God)
	}
	if got.Coords != m.Coords {
		t.Errorf("coords = %v, want %v", got.Coords, m.Coords)
	}
	if got.Record(m.Coords, "visits") != 4 {
		t.Errorf("visits = %d, want 4", got.Record(m.Coords, "visits"))
	}
	if len(got.Known) != 1 {
		t.Errorf("known entities = %d, want 1", len(got.Known))
	}
}

func TestLoadPlayerByName(t *testing.T) {
	s := openTestStore(t)

	m := player.NewMeta(player.Remote)
	m.Name = "Sona"
	if err := s.SavePlayer(m); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}

	// Name lookup is case-insensitive.
	got, err := s.LoadPlayerByName("sona")
	if err != nil {
		t.Fatalf("LoadPlayerByName: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("loaded wrong player: %s", got.ID)
	}

	if _, err := s.LoadPlayerByName("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing name: err = %v, want ErrNotFound", err)
	}
}

func TestSavePlayersBatch(t *testing.T) {
	s := openTestStore(t)

	a := player.NewMeta(player.Remote)
	a.Name = "A"
	b := player.NewMeta(player.Remote)
	b.Name = "B"

	if err := s.SavePlayers(a, nil, b); err != nil {
		t.Fatalf("SavePlayers: %v", err)
	}

	all, err := s.Players()
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("stored players = %d, want 2", len(all))
	}
}

func TestDeletePlayer(t *testing.T) {
	s := openTestStore(t)

	m := player.NewMeta(player.Remote)
	m.Name = "Gone"
	if err := s.SavePlayer(m); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}
	if err := s.DeletePlayer(m.ID); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	if _, err := s.LoadPlayer(m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: err = %v, want ErrNotFound", err)
	}
	if _, err := s.LoadPlayerByName("Gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("name index after delete: err = %v, want ErrNotFound", err)
	}
}

func TestAccounts(t *testing.T) {
	s := openTestStore(t)
	pid := uuid.New()

	if _, err := s.CreateAccount("Keeper", "hunter2", pid); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := s.CreateAccount("keeper", "other", pid); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate name: err = %v, want ErrExists", err)
	}

	acct, err := s.Authenticate("keeper", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if acct.PlayerID != pid {
		t.Errorf("PlayerID = %s, want %s", acct.PlayerID, pid)
	}

	if _, err := s.Authenticate("keeper", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: err = %v, want ErrBadCredentials", err)
	}
	if _, err := s.Authenticate("ghost", "hunter2"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("missing account: err = %v, want ErrBadCredentials", err)
	}
}
