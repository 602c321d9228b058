package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MoAI-tw/introscript/internal/kv"
)

// historyKey is the fixed durable-storage key. One collection per device;
// multiple profiles sharing a home directory would collide, a documented
// limitation of the single-user scope.
const historyKey = "history"

// Store is the generation history archive. The collection is loaded once at
// construction; every mutation re-persists the whole collection in one write.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	logger  *slog.Logger
	records []Record
}

// NewStore creates a history store over durable storage. A missing
// collection starts empty; a corrupt one is logged and discarded rather than
// crashing the store.
func NewStore(store kv.Store, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: store, logger: logger}

	raw, found, err := store.Get(historyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if found {
		records, err := decodeRecords([]byte(raw))
		if err != nil {
			logger.Warn("history collection unreadable, starting empty", "error", err)
		} else {
			s.records = records
		}
	}
	return s, nil
}

// persist writes the entire collection in one write.
func (s *Store) persist() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.kv.Set(historyKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// Append archives a record, assigning a fresh id and creation timestamp.
// The caller's ID and Timestamp fields are ignored. The form snapshot is
// deep-copied on the way in: records are immutable after creation, so later
// edits to the caller's form state must not reach the archive.
func (s *Store) Append(rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec = rec.clone()
	rec.ID = uuid.New().String()
	rec.Timestamp = time.Now().UTC()
	s.records = append(s.records, rec)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return "", err
	}

	s.logger.Info("archived generation",
		"id", rec.ID,
		"provider", rec.Provider,
		"model", rec.Model,
		"total_tokens", rec.TotalTokens)
	return rec.ID, nil
}

// List returns all records in insertion order. Every record is a deep copy;
// re-sorting the slice or mutating a returned snapshot never touches the
// archive.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.clone()
	}
	return out
}

// GetByID returns a deep copy of the record with the given id.
func (s *Store) GetByID(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.clone(), true
		}
	}
	return Record{}, false
}

// DeleteByID removes one record and re-persists the remaining collection.
// Deleting a non-existent id is a no-op.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.persist()
		}
	}
	s.logger.Debug("delete of unknown history id ignored", "id", id)
	return nil
}

// Len returns the number of archived records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
