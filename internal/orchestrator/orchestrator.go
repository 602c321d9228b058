// Package orchestrator composes the generation pipeline: replay a history
// record by id, consume a cached ephemeral result, or dispatch one fresh
// generation. Whatever path runs, the history store ends up with exactly one
// record for the generation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/history"
	"github.com/MoAI-tw/introscript/internal/profile"
	"github.com/MoAI-tw/introscript/internal/resultcache"
)

// ErrNoResult is returned when there is nothing to show: no history id, no
// cached result, and no form data to generate from.
var ErrNoResult = errors.New("no result found, please regenerate")

// Dispatcher is the facade seam. Satisfied by *generate.Facade.
type Dispatcher interface {
	Generate(ctx context.Context, form *profile.FormData, opts generate.Options) *generate.Outcome
}

// runState is the one-shot entry guard. Entry runs at most once per
// orchestrator instance even if the caller invokes it repeatedly.
type runState int

const (
	stateNotStarted runState = iota
	stateRunning
	stateDone
)

// EntryParams selects the entry path and carries the request inputs.
type EntryParams struct {
	// HistoryID replays an archived record read-only when set.
	HistoryID string

	// Form and Options feed a fresh dispatch when no replay applies.
	Form    *profile.FormData
	Options generate.Options
}

// Orchestrator drives one result-page lifetime.
type Orchestrator struct {
	dispatcher Dispatcher
	cache      *resultcache.Cache
	history    *history.Store
	logger     *slog.Logger

	mu     sync.Mutex
	state  runState
	result *history.Record
}

// New creates an orchestrator in the not-started state.
func New(dispatcher Dispatcher, cache *resultcache.Cache, hist *history.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		dispatcher: dispatcher,
		cache:      cache,
		history:    hist,
		logger:     logger,
	}
}

// Run executes the entry sequence, in strict priority order:
//
//  1. replay the record named by HistoryID, read-only;
//  2. consume a waiting cached result: read it, archive it, clear the cache;
//  3. dispatch exactly one generation from form state.
//
// A repeated Run on the same instance performs no store access at all and
// returns the first invocation's result.
func (o *Orchestrator) Run(ctx context.Context, params EntryParams) (*history.Record, error) {
	o.mu.Lock()
	if o.state != stateNotStarted {
		result := o.result
		o.mu.Unlock()
		o.logger.Debug("entry already ran, ignoring repeat invocation")
		if result == nil {
			return nil, ErrNoResult
		}
		return result, nil
	}
	o.state = stateRunning
	o.mu.Unlock()

	rec, err := o.run(ctx, params)

	o.mu.Lock()
	o.state = stateDone
	o.result = rec
	o.mu.Unlock()
	return rec, err
}

func (o *Orchestrator) run(ctx context.Context, params EntryParams) (*history.Record, error) {
	// Path 1: read-only replay by id. No network call, no new record.
	if params.HistoryID != "" {
		rec, ok := o.history.GetByID(params.HistoryID)
		if !ok {
			o.logger.Warn("history record not found", "id", params.HistoryID)
			return nil, ErrNoResult
		}
		o.logger.Debug("replaying history record", "id", rec.ID)
		return &rec, nil
	}

	// Path 2: consume a waiting ephemeral result. The read-append-clear
	// order is a hard sequencing contract: clear only runs after the record
	// is durably archived, and nothing else touches the cache in between.
	has, err := o.cache.Has()
	if err != nil {
		return nil, err
	}
	if has {
		outcome, err := o.cache.Read()
		if err != nil {
			return nil, err
		}
		if outcome != nil {
			rec, err := o.archive(outcome, params.Form)
			if err != nil {
				return nil, err
			}
			if err := o.cache.Clear(); err != nil {
				return nil, err
			}
			o.logger.Debug("consumed cached result", "id", rec.ID)
			return rec, nil
		}
	}

	// Path 3: one fresh dispatch.
	return o.dispatch(ctx, params)
}

// Regenerate is the user-initiated re-entry into the dispatch path. It never
// replays the cache or a history id, and it bypasses the one-shot entry
// guard: each call is one deliberate generation.
func (o *Orchestrator) Regenerate(ctx context.Context, params EntryParams) (*history.Record, error) {
	o.mu.Lock()
	o.state = stateRunning
	o.mu.Unlock()

	rec, err := o.dispatch(ctx, params)

	o.mu.Lock()
	o.state = stateDone
	if rec != nil {
		o.result = rec
	}
	o.mu.Unlock()
	return rec, err
}

// Abort marks the orchestrator done, e.g. when the user navigates away. A
// dispatch still in flight has its result dropped instead of archived.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	o.state = stateDone
	o.mu.Unlock()
}

func (o *Orchestrator) dispatch(ctx context.Context, params EntryParams) (*history.Record, error) {
	if params.Form == nil {
		return nil, ErrNoResult
	}

	outcome := o.dispatcher.Generate(ctx, params.Form, params.Options)

	o.mu.Lock()
	aborted := o.state != stateRunning
	o.mu.Unlock()
	if aborted {
		o.logger.Warn("dropping provider result that arrived after shutdown",
			"provider", outcome.Provider)
		return nil, ErrNoResult
	}

	if outcome.Failed() {
		// No history write for failed attempts.
		return nil, fmt.Errorf("generation failed: %s", outcome.Error)
	}

	// Store, archive, clear in one synchronous continuation so no other
	// entry can observe a half-applied state.
	if err := o.cache.Store(outcome); err != nil {
		return nil, err
	}
	rec, err := o.archive(outcome, params.Form)
	if err != nil {
		return nil, err
	}
	if err := o.cache.Clear(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (o *Orchestrator) archive(outcome *generate.Outcome, form *profile.FormData) (*history.Record, error) {
	body := history.FromOutcome(outcome, form)
	if form != nil {
		body.PromptTemplate = form.Generation.PromptTemplate
	}
	id, err := o.history.Append(body)
	if err != nil {
		return nil, err
	}
	rec, ok := o.history.GetByID(id)
	if !ok {
		return nil, fmt.Errorf("archived record %s not found", id)
	}
	return &rec, nil
}
