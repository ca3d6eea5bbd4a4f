package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltPreferenceStore keeps preferences in a local bbolt file, one bucket
// per owner. It backs the terminal client.
type BoltPreferenceStore struct {
	db *bolt.DB
}

// OpenBoltPreferenceStore opens or creates the store at path, creating
// parent directories as needed.
func OpenBoltPreferenceStore(path string) (*BoltPreferenceStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening preference store: %w", err)
	}
	return &BoltPreferenceStore{db: db}, nil
}

// Close releases the file lock.
func (s *BoltPreferenceStore) Close() error {
	return s.db.Close()
}

// LoadPreference returns the value stored for owner under name.
func (s *BoltPreferenceStore) LoadPreference(_ context.Context, owner, name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(owner))
		if b == nil {
			return ErrPreferenceNotFound
		}
		v := b.Get([]byte(name))
		if v == nil {
			return ErrPreferenceNotFound
		}
		value = string(v)
		return nil
	})
	return value, err
}

// SavePreference sets the value for owner under name.
func (s *BoltPreferenceStore) SavePreference(_ context.Context, owner, name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(owner))
		if err != nil {
			return err
		}
		return b.Put([]byte(name), []byte(value))
	})
}
