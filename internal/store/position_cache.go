// Package store persists search results keyed by game.Game's canonical
// hash, so repeated positions across search sessions (or across process
// restarts) don't need to be re-evaluated.
//
// Grounded on chessplay's internal/storage.Storage: a badger.DB wrapped
// behind a small typed API, one JSON blob per key.
package store

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
)

// Entry is one cached evaluation of a position.
type Entry struct {
	Move  string `json:"move"`
	Score int    `json:"score"`
	Depth int    `json:"depth"`
}

// PositionCache wraps a badger.DB keyed by game.Game.HashKey().
type PositionCache struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database at dir.
func Open(dir string) (*PositionCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &PositionCache{db: db}, nil
}

// Close releases the underlying database.
func (c *PositionCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func keyFor(hash uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], hash)
	return b[:]
}

// Put stores an evaluation for hash, unless a deeper (and therefore more
// trustworthy) entry is already cached for that position.
func (c *PositionCache) Put(hash uint64, entry Entry) error {
	if existing, ok, err := c.Get(hash); err != nil {
		return err
	} else if ok && existing.Depth > entry.Depth {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(hash), data)
	})
}

// Get looks up the cached evaluation for hash. ok is false if nothing is
// cached for that position.
func (c *PositionCache) Get(hash uint64) (entry Entry, ok bool, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, gerr := txn.Get(keyFor(hash))
		if gerr == badger.ErrKeyNotFound {
			return nil
		}
		if gerr != nil {
			return gerr
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	return entry, ok, err
}
