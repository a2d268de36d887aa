package server

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/wayfarer-mud/wayfarer/pkg/boltstore"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// ParseConnect parses a login-screen command into (command, user,
// password). Handles: "connect name password", "create name password",
// "connect guest", and quoted names with spaces.
func ParseConnect(msg string) (command, user, password string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", "", ""
	}

	parts := strings.SplitN(msg, " ", 2)
	command = strings.ToLower(parts[0])
	if len(parts) < 2 {
		return command, "", ""
	}

	rest := strings.TrimSpace(parts[1])
	if rest == "" {
		return command, "", ""
	}

	// Quoted names may contain spaces.
	if rest[0] == '"' {
		end := strings.Index(rest[1:], "\"")
		if end >= 0 {
			user = rest[1 : end+1]
			password = strings.TrimSpace(rest[end+2:])
			return
		}
	}

	fields := strings.SplitN(rest, " ", 2)
	user = fields[0]
	if len(fields) > 1 {
		password = strings.TrimSpace(fields[1])
	}
	return
}

var (
	errBadCredentials = errors.New("Either that player does not exist, or has a different password.")
	errNameTaken      = errors.New("That name is already taken.")
	errBadName        = errors.New("That name is not allowed.")
	errNoStore        = errors.New("Logins are disabled on this server.")
)

// loginConnect authenticates an account and loads its player record.
func (s *Server) loginConnect(user, password string) (*player.Meta, error) {
	if s.Store == nil {
		return nil, errNoStore
	}
	acct, err := s.Store.Authenticate(user, password)
	if err != nil {
		return nil, errBadCredentials
	}
	m, err := s.Store.LoadPlayer(acct.PlayerID)
	if errors.Is(err, boltstore.ErrNotFound) {
		// Account without a record; start the character over.
		m = player.NewMeta(player.Remote)
		m.ID = acct.PlayerID
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	m.Channel = player.Remote
	return m, nil
}

// loginCreate registers a new account with a fresh, unnamed character.
// The player names the character during creation; the account name only
// opens the door.
func (s *Server) loginCreate(user, password string) (*player.Meta, error) {
	if s.Store == nil {
		return nil, errNoStore
	}
	if !validAccountName(user) {
		return nil, errBadName
	}
	if password == "" {
		return nil, errors.New("Usage: create <name> <password>")
	}
	m := player.NewMeta(player.Remote)
	if _, err := s.Store.CreateAccount(user, password, m.ID); err != nil {
		if errors.Is(err, boltstore.ErrExists) {
			return nil, errNameTaken
		}
		return nil, err
	}
	return m, nil
}

var guestCounter atomic.Int64

// loginGuest builds a throwaway character with no account behind it.
func (s *Server) loginGuest() *player.Meta {
	m := player.NewMeta(player.Remote)
	m.Name = fmt.Sprintf("Guest%d", guestCounter.Add(1))
	return m
}

func validAccountName(name string) bool {
	if len(name) < 2 || len(name) > 24 {
		return false
	}
	if strings.EqualFold(name, "guest") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
