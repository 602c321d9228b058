// Package kv provides the two key-value storage scopes the generation
// pipeline persists into: a device-scoped file store that survives restarts
// and a session-scoped memory store that does not.
//
// Values are opaque JSON-serialized strings; interpretation belongs to the
// owning store (prompt templates, history, result cache).
package kv

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode"
)

// ErrInvalidKey is returned when a storage key contains invalid characters.
var ErrInvalidKey = errors.New("invalid storage key")

// ValidateKey checks if a storage key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
// This protects against typos and malformed keys.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value for key. The boolean reports presence.
	Get(key string) (string, bool, error)

	// Set creates or replaces the value for key.
	Set(key, value string) error

	// Delete removes the value for key. Missing keys are a no-op.
	Delete(key string) error

	// Keys returns all stored keys in sorted order.
	Keys() ([]string, error)
}

// MemoryStore is a session-scoped Store. Its contents live only as long as
// the owning process session, mirroring tab-session storage semantics.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty session-scoped store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set creates or replaces the value for key.
func (s *MemoryStore) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes the value for key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns all stored keys in sorted order.
func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Verify interface
var _ Store = (*MemoryStore)(nil)
