package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/history"
	"github.com/MoAI-tw/introscript/internal/kv"
	"github.com/MoAI-tw/introscript/internal/profile"
	"github.com/MoAI-tw/introscript/internal/resultcache"
)

// stubDispatcher returns a fixed outcome and counts invocations.
type stubDispatcher struct {
	outcome    *generate.Outcome
	calls      int
	onGenerate func()
}

func (d *stubDispatcher) Generate(_ context.Context, _ *profile.FormData, _ generate.Options) *generate.Outcome {
	d.calls++
	if d.onGenerate != nil {
		d.onGenerate()
	}
	return d.outcome
}

type fixture struct {
	orch    *Orchestrator
	disp    *stubDispatcher
	cache   *resultcache.Cache
	history *history.Store
}

func newFixture(t *testing.T, outcome *generate.Outcome) *fixture {
	t.Helper()
	hist, err := history.NewStore(kv.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("history.NewStore failed: %v", err)
	}
	cache := resultcache.New(kv.NewMemoryStore(), nil)
	disp := &stubDispatcher{outcome: outcome}
	return &fixture{
		orch:    New(disp, cache, hist, nil),
		disp:    disp,
		cache:   cache,
		history: hist,
	}
}

func testForm() *profile.FormData {
	form := &profile.FormData{}
	form.Personal.Name = "王小明"
	return form
}

func successOutcome() *generate.Outcome {
	return &generate.Outcome{
		Content:     "大家好，我是王小明。",
		Prompt:      "Hi 王小明",
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		TotalTokens: 42,
	}
}

func TestRun_FreshDispatch(t *testing.T) {
	f := newFixture(t, successOutcome())

	rec, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if f.disp.calls != 1 {
		t.Errorf("expected exactly one dispatch, got %d", f.disp.calls)
	}
	if rec == nil || rec.Content != "大家好，我是王小明。" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ID == "" || rec.Timestamp.IsZero() {
		t.Error("record not archived properly")
	}
	if f.history.Len() != 1 {
		t.Errorf("expected exactly one history record, got %d", f.history.Len())
	}

	// The cache must be empty after the store-append-clear continuation.
	has, _ := f.cache.Has()
	if has {
		t.Error("cache should be cleared after archiving")
	}
	if rec.FormData == nil || rec.FormData.Personal.Name != "王小明" {
		t.Error("form snapshot missing from record")
	}
}

func TestRun_AtMostOnceOnRepeatedEntry(t *testing.T) {
	f := newFixture(t, successOutcome())

	first, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if f.disp.calls != 1 {
		t.Errorf("repeat entry must not dispatch again, got %d calls", f.disp.calls)
	}
	if f.history.Len() != 1 {
		t.Errorf("repeat entry must not duplicate history, got %d records", f.history.Len())
	}
	if second.ID != first.ID {
		t.Error("repeat entry should return the first result")
	}
}

func TestRun_ConsumesCachedResult(t *testing.T) {
	f := newFixture(t, successOutcome())
	if err := f.cache.Store(&generate.Outcome{Content: "cached script", Provider: "gemini"}); err != nil {
		t.Fatalf("cache.Store failed: %v", err)
	}

	rec, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if f.disp.calls != 0 {
		t.Errorf("cached result must not trigger dispatch, got %d calls", f.disp.calls)
	}
	if rec.Content != "cached script" {
		t.Errorf("unexpected content %q", rec.Content)
	}
	if f.history.Len() != 1 {
		t.Errorf("expected exactly one archived record, got %d", f.history.Len())
	}
	has, _ := f.cache.Has()
	if has {
		t.Error("cache must be cleared after consumption")
	}
}

func TestRun_ReplayByID(t *testing.T) {
	f := newFixture(t, successOutcome())
	id, err := f.history.Append(history.Record{Content: "archived script", Provider: "openai"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	// A waiting cached value must be ignored on the replay path.
	if err := f.cache.Store(&generate.Outcome{Content: "cached"}); err != nil {
		t.Fatalf("cache.Store failed: %v", err)
	}

	rec, err := f.orch.Run(context.Background(), EntryParams{HistoryID: id, Form: testForm()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if f.disp.calls != 0 {
		t.Errorf("replay must not dispatch, got %d calls", f.disp.calls)
	}
	if rec.ID != id || rec.Content != "archived script" {
		t.Errorf("expected verbatim replay, got %+v", rec)
	}
	if f.history.Len() != 1 {
		t.Errorf("replay must not append, got %d records", f.history.Len())
	}
	has, _ := f.cache.Has()
	if !has {
		t.Error("replay must not consume the cache")
	}
}

func TestRun_UnknownHistoryID(t *testing.T) {
	f := newFixture(t, successOutcome())

	_, err := f.orch.Run(context.Background(), EntryParams{HistoryID: "missing"})
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestRun_FailedGenerationWritesNoHistory(t *testing.T) {
	f := newFixture(t, &generate.Outcome{Error: "unsupported provider: anthropic"})

	_, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "generation failed") {
		t.Errorf("expected surfaced generation error, got %v", err)
	}
	if f.history.Len() != 0 {
		t.Errorf("failed generation must not write history, got %d records", f.history.Len())
	}
	has, _ := f.cache.Has()
	if has {
		t.Error("failed generation must not populate the cache")
	}
}

func TestRun_NothingToShow(t *testing.T) {
	f := newFixture(t, successOutcome())

	_, err := f.orch.Run(context.Background(), EntryParams{})
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
	if f.disp.calls != 0 {
		t.Error("no form data means no dispatch")
	}
}

func TestRun_LateResultAfterAbortIsDropped(t *testing.T) {
	f := newFixture(t, successOutcome())
	// Simulate navigating away while the provider call is in flight.
	f.disp.onGenerate = f.orch.Abort

	_, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()})
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
	if f.history.Len() != 0 {
		t.Errorf("late result must not be archived, got %d records", f.history.Len())
	}
	has, _ := f.cache.Has()
	if has {
		t.Error("late result must not be cached")
	}
}

func TestRegenerate(t *testing.T) {
	f := newFixture(t, successOutcome())

	if _, err := f.orch.Run(context.Background(), EntryParams{Form: testForm()}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rec, err := f.orch.Regenerate(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}

	if f.disp.calls != 2 {
		t.Errorf("expected a second dispatch, got %d calls", f.disp.calls)
	}
	if f.history.Len() != 2 {
		t.Errorf("expected a second record, got %d", f.history.Len())
	}
	if rec == nil || rec.ID == "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRegenerate_IgnoresCachedValue(t *testing.T) {
	f := newFixture(t, successOutcome())
	if err := f.cache.Store(&generate.Outcome{Content: "stale"}); err != nil {
		t.Fatalf("cache.Store failed: %v", err)
	}

	rec, err := f.orch.Regenerate(context.Background(), EntryParams{Form: testForm()})
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if f.disp.calls != 1 {
		t.Errorf("Regenerate must always dispatch, got %d calls", f.disp.calls)
	}
	if rec.Content != "大家好，我是王小明。" {
		t.Errorf("expected fresh content, got %q", rec.Content)
	}
}
