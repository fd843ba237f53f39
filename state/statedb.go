package state

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key prefixes inside LevelDB. Everything is JSON under a string key.
const (
	keyAccountPrefix = "acct:"
	keyTokenPrefix   = "eyes:token:"
	keyWalletPrefix  = "eyes:wallet:"
	keyIssued        = "eyes:issued"
	keyIrisSupply    = "iris:supply"
	keyConfig        = "config"
	keyRoles         = "roles"
	keyWhitelist     = "whitelist"
)

// StateDB is the low-level LevelDB wrapper.
type StateDB struct {
	db *leveldb.DB
}

// NewStateDB opens the LevelDB at the given path.
func NewStateDB(path string) (*StateDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &StateDB{db: db}, nil
}

func (s *StateDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns (nil, nil) for a missing key.
func (s *StateDB) Get(key string) ([]byte, error) {
	data, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write commits a batch of puts atomically.
func (s *StateDB) Write(batch *leveldb.Batch) error {
	return s.db.Write(batch, nil)
}

// ForEachPrefix walks every key/value under the prefix. The callback
// receives the key with the prefix stripped.
func (s *StateDB) ForEachPrefix(prefix string, fn func(key string, value []byte) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	for iter.Next() {
		key := string(iter.Key())[len(prefix):]
		if err := fn(key, iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
