// Package resultcache holds at most one not-yet-archived generation outcome.
// It is the single-flight guard between a finished generation and its history
// record: the consumer reads the outcome, appends it to history, then clears
// the cache, in that order. The cache lives in session-scoped storage,
// separate from the durable history and template collections.
package resultcache

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/kv"
)

// resultKey is the fixed storage key. Single-user scope: concurrent profiles
// in one session would collide, which is a documented limitation.
const resultKey = "generation-result"

// Cache is the ephemeral single-result holder.
type Cache struct {
	kv     kv.Store
	logger *slog.Logger
}

// New creates a cache over the given session-scoped store.
func New(store kv.Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{kv: store, logger: logger}
}

// Store saves an outcome, fully replacing any prior value.
func (c *Cache) Store(outcome *generate.Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal cached result: %w", err)
	}
	if err := c.kv.Set(resultKey, string(data)); err != nil {
		return fmt.Errorf("failed to store cached result: %w", err)
	}
	return nil
}

// Read returns the cached outcome, or nil when the cache is empty. Reading is
// non-destructive; callers inspect first and consume explicitly via Clear.
func (c *Cache) Read() (*generate.Outcome, error) {
	raw, found, err := c.kv.Get(resultKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	if !found {
		return nil, nil
	}

	var outcome generate.Outcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil {
		// A corrupt cached value is dropped rather than propagated; the user
		// can regenerate.
		c.logger.Warn("discarding corrupt cached result", "error", err)
		if clearErr := c.kv.Delete(resultKey); clearErr != nil {
			return nil, fmt.Errorf("failed to clear corrupt cached result: %w", clearErr)
		}
		return nil, nil
	}
	return &outcome, nil
}

// Has reports whether a result is waiting to be consumed.
func (c *Cache) Has() (bool, error) {
	_, found, err := c.kv.Get(resultKey)
	if err != nil {
		return false, fmt.Errorf("failed to check cached result: %w", err)
	}
	return found, nil
}

// Clear removes the cached result. Clearing an empty cache is a no-op.
func (c *Cache) Clear() error {
	if err := c.kv.Delete(resultKey); err != nil {
		return fmt.Errorf("failed to clear cached result: %w", err)
	}
	return nil
}
