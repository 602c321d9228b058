package resultcache

import (
	"testing"

	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/kv"
)

func newTestCache() (*Cache, kv.Store) {
	store := kv.NewMemoryStore()
	return New(store, nil), store
}

func TestCache_EmptyState(t *testing.T) {
	c, _ := newTestCache()

	has, err := c.Has()
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if has {
		t.Error("fresh cache should be empty")
	}

	outcome, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if outcome != nil {
		t.Errorf("expected nil from empty cache, got %+v", outcome)
	}

	if err := c.Clear(); err != nil {
		t.Errorf("Clear of empty cache should be a no-op: %v", err)
	}
}

func TestCache_StoreReadClear(t *testing.T) {
	c, _ := newTestCache()

	stored := &generate.Outcome{
		Content:       "大家好，我是王小明。",
		Prompt:        "rendered prompt",
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		TotalTokens:   200,
		EstimatedCost: 0.0001,
	}
	if err := c.Store(stored); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	has, _ := c.Has()
	if !has {
		t.Fatal("expected cache to report a value")
	}

	// Read is non-destructive.
	for i := 0; i < 2; i++ {
		got, err := c.Read()
		if err != nil {
			t.Fatalf("Read %d failed: %v", i, err)
		}
		if got == nil || got.Content != stored.Content || got.TotalTokens != 200 {
			t.Fatalf("Read %d returned %+v", i, got)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	has, _ = c.Has()
	if has {
		t.Error("cache should be empty after Clear")
	}
}

func TestCache_StoreReplacesPriorValue(t *testing.T) {
	c, _ := newTestCache()

	if err := c.Store(&generate.Outcome{Content: "first", ProjectTitle: "kept?"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Store(&generate.Outcome{Content: "second"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Content != "second" {
		t.Errorf("expected full replacement, got %q", got.Content)
	}
	if got.ProjectTitle != "" {
		t.Error("replace must not merge fields from the prior value")
	}
}

func TestCache_CorruptValueIsDropped(t *testing.T) {
	c, store := newTestCache()
	if err := store.Set("generation-result", "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != nil {
		t.Errorf("corrupt value should read as empty, got %+v", got)
	}

	has, _ := c.Has()
	if has {
		t.Error("corrupt value should be cleared on read")
	}
}
