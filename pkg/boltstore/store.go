// Package boltstore persists player records and login accounts in a
// bbolt database. The game keeps everything hot in memory; the store is
// write-through on saves and read only at login and boot.
package boltstore

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

var (
	bucketPlayers  = []byte("players")
	bucketAccounts = []byte("accounts")
	bucketNames    = []byte("names")
)

var (
	// ErrNotFound is returned when a player or account does not exist.
	ErrNotFound = errors.New("boltstore: not found")
	// ErrExists is returned when creating an account whose name is taken.
	ErrExists = errors.New("boltstore: account exists")
	// ErrBadCredentials is returned on a failed password check.
	ErrBadCredentials = errors.New("boltstore: bad credentials")
)

// Account is one login identity. The password is stored only as a
// bcrypt hash.
type Account struct {
	Name     string
	Hash     []byte
	PlayerID uuid.UUID
}

// Store wraps a bbolt database holding players and accounts.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures all buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPlayers, bucketAccounts, bucketNames} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}

	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// SavePlayer persists a single player record (write-through).
func (s *Store) SavePlayer(m *player.Meta) error {
	data, err := encodePlayer(m)
	if err != nil {
		return fmt.Errorf("boltstore: encode player %s: %w", m.ID, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketPlayers).Put(m.ID[:], data); err != nil {
			return err
		}
		return tx.Bucket(bucketNames).Put(nameKey(m.Name), m.ID[:])
	})
}

// SavePlayers persists multiple player records in a single transaction.
func (s *Store) SavePlayers(ms ...*player.Meta) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		players := tx.Bucket(bucketPlayers)
		names := tx.Bucket(bucketNames)
		for _, m := range ms {
			if m == nil {
				continue
			}
			data, err := encodePlayer(m)
			if err != nil {
				return fmt.Errorf("boltstore: encode player %s: %w", m.ID, err)
			}
			if err := players.Put(m.ID[:], data); err != nil {
				return err
			}
			if err := names.Put(nameKey(m.Name), m.ID[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadPlayer reads one player record by id.
func (s *Store) LoadPlayer(id uuid.UUID) (*player.Meta, error) {
	var m *player.Meta
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPlayers).Get(id[:])
		if data == nil {
			return ErrNotFound
		}
		var err error
		m, err = decodePlayer(data)
		return err
	})
	return m, err
}

// LoadPlayerByName reads one player record through the name index.
func (s *Store) LoadPlayerByName(name string) (*player.Meta, error) {
	var m *player.Meta
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		ref := tx.Bucket(bucketNames).Get(nameKey(name))
		if ref == nil {
			return ErrNotFound
		}
		data := tx.Bucket(bucketPlayers).Get(ref)
		if data == nil {
			return ErrNotFound
		}
		var err error
		m, err = decodePlayer(data)
		return err
	})
	return m, err
}

// Players reads every player record. Records that fail to decode are
// logged and skipped so one bad entry cannot block a boot.
func (s *Store) Players() ([]*player.Meta, error) {
	var out []*player.Meta
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPlayers).ForEach(func(k, v []byte) error {
			m, err := decodePlayer(v)
			if err != nil {
				log.Printf("STORE: skipping bad player record %x: %v", k, err)
				return nil
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}

// DeletePlayer removes a player record and its name index entry.
func (s *Store) DeletePlayer(id uuid.UUID) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPlayers).Get(id[:])
		if data != nil {
			if m, err := decodePlayer(data); err == nil {
				tx.Bucket(bucketNames).Delete(nameKey(m.Name))
			}
		}
		return tx.Bucket(bucketPlayers).Delete(id[:])
	})
}

// CreateAccount registers a new login identity with a bcrypt-hashed
// password.
func (s *Store) CreateAccount(name, password string, playerID uuid.UUID) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("boltstore: hash password: %w", err)
	}
	acct := &Account{Name: name, Hash: hash, PlayerID: playerID}
	data, err := encodeAccount(acct)
	if err != nil {
		return nil, fmt.Errorf("boltstore: encode account %q: %w", name, err)
	}
	err = s.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		if b.Get(nameKey(name)) != nil {
			return ErrExists
		}
		return b.Put(nameKey(name), data)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Account reads one account by name.
func (s *Store) Account(name string) (*Account, error) {
	var acct *Account
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(nameKey(name))
		if data == nil {
			return ErrNotFound
		}
		var err error
		acct, err = decodeAccount(data)
		return err
	})
	return acct, err
}

// Authenticate checks a name and password pair. A missing account and a
// wrong password both return ErrBadCredentials so login attempts cannot
// probe for names.
func (s *Store) Authenticate(name, password string) (*Account, error) {
	acct, err := s.Account(name)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return acct, nil
}

func nameKey(name string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(name)))
}
