// Package state persists the client's local key/value state (auth token, last
// screen) across process restarts.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

const (
	// DirEnv is the env var override for the state directory (for testing).
	DirEnv = "BOOKLIB_STATE_DIR"
	// DefaultDir is the default state directory relative to the user's home.
	DefaultDir = ".booklib/state"

	// KeyAuthToken holds the bearer token issued on login.
	KeyAuthToken = "authToken"
	// KeyViewMode holds the last displayed screen ("home" or "browse").
	KeyViewMode = "viewMode"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("state: key not found")

// Store is a string key/value store backed by Badger.
// Reads and writes are atomic per call; there are no multi-key transactions.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// DefaultPath returns the path in BOOKLIB_STATE_DIR if set,
// otherwise ~/.booklib/state.
func DefaultPath() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDir), nil
}

// Open opens (or creates) the store in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil      // badger would write to stderr under the TUI
	opts.SyncWrites = true // a reload must see the last transition
	return open(opts, logger)
}

// OpenInMemory opens a store that lives only for the life of the process.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	logger.Debug("state store opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// lookup is Get with missing and failed reads folded into ok=false.
func (s *Store) lookup(key string) (string, bool) {
	v, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("state read failed", "key", key, "err", err)
		}
		return "", false
	}
	return v, v != ""
}

// Token returns the stored auth token, if any.
func (s *Store) Token() (string, bool) {
	return s.lookup(KeyAuthToken)
}

// SetToken stores the auth token.
func (s *Store) SetToken(token string) error {
	return s.Set(KeyAuthToken, token)
}

// ClearToken removes the stored auth token.
func (s *Store) ClearToken() error {
	return s.Delete(KeyAuthToken)
}

// ViewMode returns the persisted screen name, if any.
func (s *Store) ViewMode() (string, bool) {
	return s.lookup(KeyViewMode)
}

// SetViewMode persists the screen name.
func (s *Store) SetViewMode(mode string) error {
	return s.Set(KeyViewMode, mode)
}
