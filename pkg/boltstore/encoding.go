package boltstore

import (
	"bytes"
	"encoding/gob"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

// encodePlayer serializes a player record to bytes using gob. Only the
// exported fields round-trip; the screen message is rebuilt on login.
func encodePlayer(m *player.Meta) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodePlayer deserializes bytes back into a player record.
func decodePlayer(data []byte) (*player.Meta, error) {
	var m player.Meta
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// encodeAccount serializes an Account to bytes using gob.
func encodeAccount(a *Account) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeAccount deserializes bytes back into an Account.
func decodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
