// Package fetch drives the asynchronous load of the story list and reports
// its lifecycle to the state store as actions.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/stories/internal/model"
	"github.com/idilsaglam/stories/internal/state"
)

var (
	// ErrAlreadyStarted is returned when Start is called a second time.
	ErrAlreadyStarted = errors.New("fetch: already started")

	// ErrNotStarted is returned by Refetch before Start.
	ErrNotStarted = errors.New("fetch: not started")

	// ErrInFlight is returned by Refetch while a fetch is pending.
	ErrInFlight = errors.New("fetch: a fetch is already in flight")

	// ErrStaleResult is returned by Settle for a result that does not belong
	// to the pending attempt.
	ErrStaleResult = errors.New("fetch: result does not belong to the pending fetch")
)

// Source is the external producer of stories.
type Source interface {
	Fetch(ctx context.Context) ([]model.Story, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]model.Story, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]model.Story, error) { return f(ctx) }

// Dispatcher receives the lifecycle actions. *state.Store implements it.
type Dispatcher interface {
	Dispatch(a state.Action) error
}

// Result is what a Load produces.
type Result struct {
	Attempt int
	Stories []model.Story
	Err     error
}

// Load runs the pending fetch. It does not touch the orchestrator and may run
// on any goroutine.
type Load func() Result

// Orchestrator owns the fetch lifecycle: FETCH_STARTED, then exactly one of
// FETCH_SUCCEEDED or FETCH_FAILED per attempt.
type Orchestrator struct {
	store   Dispatcher
	source  Source
	log     zerolog.Logger
	started bool
	pending bool
	attempt int
}

func NewOrchestrator(d Dispatcher, src Source, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{store: d, source: src, log: log}
}

// Start emits FETCH_STARTED and returns the Load to run. It succeeds once per
// orchestrator.
func (o *Orchestrator) Start(ctx context.Context) (Load, error) {
	if o.started {
		return nil, ErrAlreadyStarted
	}
	load, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	o.started = true
	return load, nil
}

// Refetch is the manual refetch trigger. It repeats the Start lifecycle once
// the previous attempt has settled.
func (o *Orchestrator) Refetch(ctx context.Context) (Load, error) {
	if !o.started {
		return nil, ErrNotStarted
	}
	if o.pending {
		return nil, ErrInFlight
	}
	return o.begin(ctx)
}

// Pending reports whether an attempt has started and not yet settled.
func (o *Orchestrator) Pending() bool { return o.pending }

func (o *Orchestrator) begin(ctx context.Context) (Load, error) {
	if err := o.store.Dispatch(state.StartFetch()); err != nil {
		return nil, err
	}
	o.pending = true
	o.attempt++
	attempt := o.attempt
	src := o.source
	o.log.Debug().Int("attempt", attempt).Msg("fetch started")

	return func() (res Result) {
		res.Attempt = attempt
		defer func() {
			if r := recover(); r != nil {
				res.Stories = nil
				res.Err = fmt.Errorf("fetch: source panicked: %v", r)
			}
		}()
		res.Stories, res.Err = src.Fetch(ctx)
		return res
	}, nil
}

// Settle reports the outcome of the pending attempt to the store. A fetch
// failure is logged and absorbed; only dispatch errors are returned.
func (o *Orchestrator) Settle(res Result) error {
	if !o.pending || res.Attempt != o.attempt {
		return ErrStaleResult
	}
	o.pending = false

	if res.Err != nil {
		o.log.Warn().Err(res.Err).Int("attempt", res.Attempt).Msg("fetch failed")
		return o.store.Dispatch(state.FailFetch())
	}
	o.log.Debug().Int("attempt", res.Attempt).Int("stories", len(res.Stories)).Msg("fetch succeeded")
	return o.store.Dispatch(state.SucceedFetch(res.Stories))
}

// Run performs Start, the Load and Settle on the calling goroutine.
func (o *Orchestrator) Run(ctx context.Context) error {
	load, err := o.Start(ctx)
	if err != nil {
		return err
	}
	return o.Settle(load())
}
