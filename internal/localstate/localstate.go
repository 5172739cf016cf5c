// Package localstate persists the client's login identity between runs in
// an embedded Badger database.
package localstate

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ytnotebook/ytnotebook/internal/domain"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// Fixed keys of the persisted identity.
const (
	KeyUserID   = "user_id"
	KeyUserName = "user_name"
)

// ErrNotLoggedIn is returned by Load when no identity is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Store is the client-local key-value store.
type Store struct {
	db     *badger.DB
	logger *logger.Logger
}

// Open opens (or creates) the store in dir.
func Open(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Discard()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}

	log.Debug("local state opened", "path", dir)
	return &Store{db: db, logger: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the identity returned by login, replacing any previous one.
func (s *Store) Save(id domain.Identity) error {
	if id.IsZero() {
		return errors.New("identity has no user id")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeyUserID), []byte(id.UserID)); err != nil {
			return err
		}
		return txn.Set([]byte(KeyUserName), []byte(id.UserName))
	})
}

// Load returns the stored identity, or ErrNotLoggedIn.
func (s *Store) Load() (domain.Identity, error) {
	var id domain.Identity
	err := s.db.View(func(txn *badger.Txn) error {
		userID, err := get(txn, KeyUserID)
		if err != nil {
			return err
		}
		userName, err := get(txn, KeyUserName)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		id = domain.Identity{UserID: userID, UserName: userName}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) || (err == nil && id.IsZero()) {
		return domain.Identity{}, ErrNotLoggedIn
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load identity: %w", err)
	}
	return id, nil
}

// Clear removes the stored identity (logout). Clearing an empty store is
// not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(KeyUserID)); err != nil {
			return err
		}
		return txn.Delete([]byte(KeyUserName))
	})
}

func get(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}
