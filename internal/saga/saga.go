// Package saga runs an ordered list of steps, each paired with a
// compensating action. If a step fails, the effects of every step that
// already ran are undone in reverse order. The settlement pipeline uses it
// to keep the multi-entity order write atomic in effect: a failure midway
// never leaves an order without its items, payment, or with inventory
// decremented for a purchase that did not complete.
package saga

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/checkout-core/internal/saga/sagalog"
)

// Step is a single unit of work with a compensating action to undo it.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator executes steps sequentially and journals every transition to
// the saga log.
type Orchestrator struct {
	id    string
	steps []Step
	log   sagalog.Repository // nil-safe: journaling skipped if nil
}

// NewOrchestrator builds an orchestrator for one saga execution. The id is
// the business identifier (the order id here) so log rows can be joined with
// ledger data. repo may be nil.
func NewOrchestrator(id string, steps []Step, repo sagalog.Repository) *Orchestrator {
	return &Orchestrator{id: id, steps: steps, log: repo}
}

// Start runs the steps in order. On failure it compensates all previously
// successful steps (LIFO) and returns the step's error.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, sagalog.StatusStarted, "", nil)

	var done []Step
	for _, step := range o.steps {
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "saga step failed, rolling back",
				"saga_id", o.id, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), errs)
			errs = append(errs, o.rollback(ctx, done)...)
			o.record(ctx, sagalog.StatusFailed, step.Name(), errs)
			return err
		}
		done = append(done, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name(), nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", nil)
	return nil
}

// rollback compensates steps in reverse order. Compensation failures are
// collected rather than aborting: every remaining step still gets its
// chance to undo.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: saga compensation failed",
				"saga_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step string, errs []string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.id, status, step, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to persist saga log entry",
			"saga_id", o.id, "status", status, "error", err)
	}
}
