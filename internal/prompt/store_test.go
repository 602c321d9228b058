package prompt

import (
	"errors"
	"testing"

	"github.com/MoAI-tw/introscript/internal/kv"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	kvs := kv.NewMemoryStore()
	s, err := NewStore(kvs, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s, kvs
}

func strptr(s string) *string { return &s }

func TestNewStore_SeedsDefault(t *testing.T) {
	s, _ := newTestStore(t)

	templates := s.List()
	if len(templates) != 1 || templates[0].ID != DefaultTemplateID {
		t.Fatalf("expected seeded default, got %+v", templates)
	}
	if s.ActiveID() != DefaultTemplateID {
		t.Errorf("expected default active, got %s", s.ActiveID())
	}
	if s.Body() != DefaultTemplate().Content {
		t.Error("expected body rendered from default content")
	}
}

func TestNewStore_CorruptCollectionFallsBack(t *testing.T) {
	kvs := kv.NewMemoryStore()
	if err := kvs.Set("prompt-templates", `{not json`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s, err := NewStore(kvs, nil)
	if err != nil {
		t.Fatalf("NewStore failed on corrupt storage: %v", err)
	}
	if len(s.List()) != 1 || s.ActiveID() != DefaultTemplateID {
		t.Error("expected fallback to seeded defaults")
	}
}

func TestNewStore_SchemaRejectsMalformedEntries(t *testing.T) {
	kvs := kv.NewMemoryStore()
	// Valid JSON, but entries are missing required fields.
	if err := kvs.Set("prompt-templates", `[{"name":"no id or content"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s, err := NewStore(kvs, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if len(s.List()) != 1 || s.List()[0].ID != DefaultTemplateID {
		t.Error("expected schema failure to fall back to defaults")
	}
}

func TestStore_Add(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.Add(Template{Name: "short", Content: "Hi {name}"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == "" || id == DefaultTemplateID {
		t.Fatalf("expected fresh id, got %q", id)
	}

	if s.ActiveID() != id {
		t.Errorf("Add should activate the new template, active is %s", s.ActiveID())
	}
	if s.Body() != "Hi {name}" {
		t.Errorf("Add should copy content into the body, got %q", s.Body())
	}

	added, ok := s.Get(id)
	if !ok || added.Name != "short" {
		t.Errorf("expected to find added template, got %+v (found=%t)", added, ok)
	}
}

func TestStore_Update(t *testing.T) {
	s, _ := newTestStore(t)
	id, _ := s.Add(Template{Name: "short", Content: "Hi {name}"})

	t.Run("active update re-renders body", func(t *testing.T) {
		if err := s.Update(id, Update{Content: strptr("Hello {name}")}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if s.Body() != "Hello {name}" {
			t.Errorf("expected body re-rendered, got %q", s.Body())
		}
	})

	t.Run("non-active update leaves body alone", func(t *testing.T) {
		if err := s.Update(DefaultTemplateID, Update{Content: strptr("changed")}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if s.Body() != "Hello {name}" {
			t.Errorf("body should be untouched, got %q", s.Body())
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		if err := s.Update("nope", Update{Name: strptr("x")}); err != nil {
			t.Fatalf("Update of unknown id should not error: %v", err)
		}
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("default is protected", func(t *testing.T) {
		s, _ := newTestStore(t)
		if err := s.Delete(DefaultTemplateID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok := s.Get(DefaultTemplateID); !ok {
			t.Error("default template must survive deletion")
		}
	})

	t.Run("deleting active resets to default", func(t *testing.T) {
		s, _ := newTestStore(t)
		id, _ := s.Add(Template{Name: "t", Content: "custom body"})

		if err := s.Delete(id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if s.ActiveID() != DefaultTemplateID {
			t.Errorf("expected active reset to default, got %s", s.ActiveID())
		}
		if s.Body() != DefaultTemplate().Content {
			t.Error("expected body re-derived from default content")
		}
	})

	t.Run("deleting non-active is pure removal", func(t *testing.T) {
		s, _ := newTestStore(t)
		first, _ := s.Add(Template{Name: "a", Content: "A"})
		second, _ := s.Add(Template{Name: "b", Content: "B"})

		if err := s.Delete(first); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if s.ActiveID() != second {
			t.Errorf("active pointer moved unexpectedly to %s", s.ActiveID())
		}
		if s.Body() != "B" {
			t.Errorf("body changed unexpectedly to %q", s.Body())
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s, _ := newTestStore(t)
		if err := s.Delete("nope"); err != nil {
			t.Fatalf("Delete of unknown id should not error: %v", err)
		}
	})
}

func TestStore_ActivePointerIntegrity(t *testing.T) {
	// After any sequence of mutations the active pointer must resolve.
	s, _ := newTestStore(t)

	a, _ := s.Add(Template{Name: "a", Content: "A"})
	b, _ := s.Add(Template{Name: "b", Content: "B"})
	s.SetActive(a)
	s.Update(b, Update{Content: strptr("B2")})
	s.Delete(a)
	s.Delete(b)
	s.Delete(DefaultTemplateID)
	s.SetActive("missing")

	if _, ok := s.Get(s.ActiveID()); !ok {
		t.Fatalf("active pointer %q does not resolve", s.ActiveID())
	}
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	kvs := kv.NewMemoryStore()
	s, err := NewStore(kvs, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	id, _ := s.Add(Template{Name: "kept", Content: "Hi {name}", SystemPrompt: "Be brief."})

	reloaded, err := NewStore(kvs, nil)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.ActiveID() != id {
		t.Errorf("active pointer lost across reload: %s", reloaded.ActiveID())
	}
	got, ok := reloaded.Get(id)
	if !ok || got.SystemPrompt != "Be brief." {
		t.Errorf("template lost across reload: %+v (found=%t)", got, ok)
	}
	if reloaded.Body() != "Hi {name}" {
		t.Errorf("body lost across reload: %q", reloaded.Body())
	}
}

func TestBootstrap_FirstWriterWins(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(Template{Name: "x", Content: "X"})
	snapshot, err := s.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	t.Run("restores into empty storage", func(t *testing.T) {
		fresh := kv.NewMemoryStore()
		if err := Bootstrap(fresh, snapshot); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
		restored, err := NewStore(fresh, nil)
		if err != nil {
			t.Fatalf("NewStore after bootstrap failed: %v", err)
		}
		if len(restored.List()) != 2 {
			t.Errorf("expected 2 templates after restore, got %d", len(restored.List()))
		}
	})

	t.Run("refuses populated storage", func(t *testing.T) {
		populated := kv.NewMemoryStore()
		if _, err := NewStore(populated, nil); err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		err := Bootstrap(populated, snapshot)
		if !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})
}
