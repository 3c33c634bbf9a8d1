// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

// Package prefs persists the user's extraction preferences in a small
// key/value store.
package prefs

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers/syncutil"
	bolt "go.etcd.io/bbolt"
)

const (
	// DBFile is the preference database file name inside the data dir.
	DBFile = "prefs.db"
	bucket = "prefs"
)

var ErrClosed = errors.New("preference store is closed")

// Store is a flat string key/value store.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	All() (map[string]string, error)
	Close() error
}

// BoltStore is a Store backed by a bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// Path returns the preference database path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// Open opens or creates the bbolt database at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize bolt database: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to view bolt database: %w", err)
	}
	return value, found, nil
}

func (s *BoltStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *BoltStore) All() (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to view bolt database: %w", err)
	}
	return out, nil
}

func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and for running without a
// writable data dir.
type MemoryStore struct {
	values map[string]string
	mu     syncutil.RWMutex
	closed bool
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) All() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return maps.Clone(s.values), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
