package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MoAI-tw/introscript/internal/kv"
)

// Storage keys in the device-scoped store.
const (
	templatesKey  = "prompt-templates"
	activeIDKey   = "active-prompt-id"
	bodyKey       = "prompt-body"
	customFlagKey = "use-custom-prompt"
)

// ErrAlreadyExists is returned when bootstrapping into storage that is
// already populated.
var ErrAlreadyExists = errors.New("template storage already populated")

// Store manages the persistent prompt template collection.
//
// Invariants held across every operation: the "default" template is always
// present, and the active pointer always resolves to a present template.
// Every mutator persists the collection, the active pointer, and the rendered
// body immediately; there is no separate save step.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	logger    *slog.Logger
	templates []Template // insertion order
	activeID  string
	body      string
	useCustom bool
}

// NewStore creates a template store backed by the given device-scoped
// key-value store, loading persisted state once. A missing collection is
// seeded with the default template; a corrupt one falls back to the seed
// state with a logged warning rather than failing.
func NewStore(kvs kv.Store, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kvs, logger: logger}

	raw, ok, err := kvs.Get(templatesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read template collection: %w", err)
	}

	if !ok {
		s.seed()
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}

	templates, err := decodeTemplates([]byte(raw))
	if err != nil {
		s.logger.Warn("template collection is corrupt, falling back to defaults",
			"error", err)
		s.seed()
		return s, nil
	}
	s.templates = templates
	if s.find(DefaultTemplateID) < 0 {
		s.logger.Warn("default template missing from storage, restoring it")
		s.templates = append([]Template{DefaultTemplate()}, s.templates...)
	}

	s.loadPointerState()
	return s, nil
}

// seed resets in-memory state to the built-in default.
func (s *Store) seed() {
	def := DefaultTemplate()
	s.templates = []Template{def}
	s.activeID = DefaultTemplateID
	s.body = def.Content
	s.useCustom = false
}

// loadPointerState reads the active pointer, rendered body, and custom flag,
// repairing any pointer that does not resolve.
func (s *Store) loadPointerState() {
	s.activeID = DefaultTemplateID
	if raw, ok, err := s.kv.Get(activeIDKey); err == nil && ok {
		var id string
		if jsonErr := json.Unmarshal([]byte(raw), &id); jsonErr == nil && s.find(id) >= 0 {
			s.activeID = id
		} else {
			s.logger.Warn("active template pointer does not resolve, resetting to default",
				"value", raw)
		}
	}

	s.body = s.templates[s.find(s.activeID)].Content
	if raw, ok, err := s.kv.Get(bodyKey); err == nil && ok {
		var body string
		if jsonErr := json.Unmarshal([]byte(raw), &body); jsonErr == nil {
			s.body = body
		}
	}

	if raw, ok, err := s.kv.Get(customFlagKey); err == nil && ok {
		var flag bool
		if jsonErr := json.Unmarshal([]byte(raw), &flag); jsonErr == nil {
			s.useCustom = flag
		}
	}
}

// find returns the index of the template with the given id, or -1.
func (s *Store) find(id string) int {
	for i, t := range s.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the collection, active pointer, rendered body, and custom
// flag to storage as one logical write.
func (s *Store) persist() error {
	collection, err := json.Marshal(s.templates)
	if err != nil {
		return fmt.Errorf("failed to marshal template collection: %w", err)
	}
	activeID, _ := json.Marshal(s.activeID)
	body, _ := json.Marshal(s.body)
	flag, _ := json.Marshal(s.useCustom)

	writes := []struct {
		key   string
		value string
	}{
		{templatesKey, string(collection)},
		{activeIDKey, string(activeID)},
		{bodyKey, string(body)},
		{customFlagKey, string(flag)},
	}
	for _, w := range writes {
		if err := s.kv.Set(w.key, w.value); err != nil {
			return fmt.Errorf("failed to persist %s: %w", w.key, err)
		}
	}
	return nil
}

// List returns all templates in insertion order.
func (s *Store) List() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// Get returns the template with the given id.
func (s *Store) Get(id string) (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 {
		return s.templates[i], true
	}
	return Template{}, false
}

// ActiveID returns the id of the active template.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the active template.
func (s *Store) Active() Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates[s.find(s.activeID)]
}

// Body returns the rendered working prompt body.
func (s *Store) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

// UseCustomPrompt reports whether a custom prompt is selected for generation.
func (s *Store) UseCustomPrompt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useCustom
}

// SetUseCustomPrompt toggles custom prompt usage.
func (s *Store) SetUseCustomPrompt(use bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useCustom = use
	return s.persist()
}

// Add inserts a new template under a fresh id, makes it active, and copies
// its content into the working prompt body. Returns the assigned id.
func (s *Store) Add(t Template) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.New().String()
	s.templates = append(s.templates, t)
	s.activeID = t.ID
	s.body = t.Content

	if err := s.persist(); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Update is a partial template modification; nil fields are left unchanged.
type Update struct {
	Name         *string
	Description  *string
	Content      *string
	SystemPrompt *string
}

// apply merges the update into the template.
func (u Update) apply(t *Template) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Content != nil {
		t.Content = *u.Content
	}
	if u.SystemPrompt != nil {
		t.SystemPrompt = *u.SystemPrompt
	}
}

// Update applies a partial update to the template with the given id.
// Updating the active template re-renders the working prompt body; updates to
// other templates never touch it. Updating a missing id is a logged no-op.
func (s *Store) Update(id string, upd Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		s.logger.Warn("update of unknown template ignored", "id", id)
		return nil
	}

	upd.apply(&s.templates[i])
	if id == s.activeID {
		s.body = s.templates[i].Content
	}
	return s.persist()
}

// Delete removes a template. The default template is structurally protected:
// deleting it is a logged no-op. Deleting the active template resets the
// active pointer to the default and re-derives the working prompt body.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == DefaultTemplateID {
		s.logger.Warn("refusing to delete the default template")
		return nil
	}

	i := s.find(id)
	if i < 0 {
		s.logger.Warn("delete of unknown template ignored", "id", id)
		return nil
	}

	s.templates = append(s.templates[:i], s.templates[i+1:]...)
	if id == s.activeID {
		s.activeID = DefaultTemplateID
		s.body = s.templates[s.find(DefaultTemplateID)].Content
	}
	return s.persist()
}

// SetActive points the active pointer at the given template and re-renders
// the working prompt body from its content. Unknown ids are a logged no-op.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		s.logger.Warn("cannot activate unknown template", "id", id)
		return nil
	}

	s.activeID = id
	s.body = s.templates[i].Content
	return s.persist()
}

// bundle is the export/restore wire format.
type bundle struct {
	Templates       []Template `json:"templates"`
	ActivePromptID  string     `json:"activePromptId"`
	PromptTemplate  string     `json:"promptTemplate"`
	UseCustomPrompt bool       `json:"useCustomPrompt"`
}

// Export returns a JSON snapshot of the full template state for backup.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := bundle{
		Templates:       s.templates,
		ActivePromptID:  s.activeID,
		PromptTemplate:  s.body,
		UseCustomPrompt: s.useCustom,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template export: %w", err)
	}
	return data, nil
}

// Bootstrap restores an exported snapshot into empty storage. It refuses to
// overwrite storage that is already populated: the first writer wins.
func Bootstrap(kvs kv.Store, data []byte) error {
	if _, ok, err := kvs.Get(templatesKey); err != nil {
		return fmt.Errorf("failed to check template storage: %w", err)
	} else if ok {
		return ErrAlreadyExists
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("failed to parse template snapshot: %w", err)
	}

	raw, err := json.Marshal(b.Templates)
	if err != nil {
		return fmt.Errorf("failed to marshal template collection: %w", err)
	}
	if _, err := decodeTemplates(raw); err != nil {
		return fmt.Errorf("invalid template snapshot: %w", err)
	}

	activeID, _ := json.Marshal(b.ActivePromptID)
	body, _ := json.Marshal(b.PromptTemplate)
	flag, _ := json.Marshal(b.UseCustomPrompt)

	writes := []struct {
		key   string
		value string
	}{
		{templatesKey, string(raw)},
		{activeIDKey, string(activeID)},
		{bodyKey, string(body)},
		{customFlagKey, string(flag)},
	}
	for _, w := range writes {
		if err := kvs.Set(w.key, w.value); err != nil {
			return fmt.Errorf("failed to persist %s: %w", w.key, err)
		}
	}
	return nil
}
