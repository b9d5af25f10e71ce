// ABOUTME: Runs one LLM request at a time off the caller's goroutine
// ABOUTME: Delivers exactly one Result per Start and optionally saves the plan
package core

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/harper/microdoser/internal/llm"
)

// ErrBusy is returned by Start while a request is already in flight
var ErrBusy = errors.New("a request is already in progress")

// Planner is the blocking LLM call the runner moves off the caller's goroutine
type Planner interface {
	Plan(ctx context.Context, req llm.Request) (*llm.Response, error)
	Model() string
}

// Result is the single completion delivered for a Start
type Result struct {
	Request  llm.Request
	Response *llm.Response
	Saved    *SavedPlan
	Err      error
}

// Runner allows one in-flight request
type Runner struct {
	planner Planner
	saver   *Saver
	logger  *log.Logger
	busy    atomic.Bool
}

// NewRunner creates a Runner. saver may be nil, in which case nothing is persisted.
func NewRunner(planner Planner, saver *Saver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{planner: planner, saver: saver, logger: logger}
}

// Busy reports whether a request is in flight
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Start launches req in a goroutine. The returned channel yields one Result and is then closed.
// When save is true a successful plan is fanned out to storage; failures are always logged as error runs.
func (r *Runner) Start(ctx context.Context, req llm.Request, save bool) (<-chan Result, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	results := make(chan Result, 1)
	go func() {
		res := r.run(ctx, req, save)
		r.busy.Store(false)
		results <- res
		close(results)
	}()
	return results, nil
}

// Run is Start followed by waiting for the result
func (r *Runner) Run(ctx context.Context, req llm.Request, save bool) Result {
	results, err := r.Start(ctx, req, save)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	return <-results
}

func (r *Runner) run(ctx context.Context, req llm.Request, save bool) Result {
	res := Result{Request: req}
	logger := r.logger.With("request_id", req.ID)

	resp, err := r.planner.Plan(ctx, req)
	if err != nil {
		res.Err = err
		if r.saver != nil {
			// recorded even when ctx was cancelled
			if _, logErr := r.saver.RecordFailure(context.WithoutCancel(ctx), req.ID, req.UserText(), r.planner.Model(), req.Language, err); logErr != nil {
				logger.Error("failed to record failed run", "err", logErr)
			}
		}
		return res
	}
	res.Response = resp

	if save && r.saver != nil {
		saved, err := r.saver.SaveResult(ctx, SaveInput{
			RequestID: req.ID,
			UserText:  req.UserText(),
			Model:     resp.Model,
			Language:  req.Language,
			Plan:      resp.Plan,
			RawJSON:   resp.RawJSON,
		})
		res.Saved = saved
		res.Err = err
	}
	return res
}
