// Package sagalog is the durable audit trail of saga executions.
//
// Each state transition appends one row keyed by the saga id (the order id),
// carrying the trace/span ids active at the time so a stuck settlement can
// be correlated with its distributed trace.
package sagalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a point-in-time snapshot of a saga execution.
type Entry struct {
	// SagaID is the business identifier, typically the order id.
	SagaID string

	Status Status

	// CurrentStep is the step that was just executed or failed.
	CurrentStep string

	// ErrorMessages is a JSON array of failure details, one per failed
	// step or compensation.
	ErrorMessages string

	// TraceID and SpanID identify the OpenTelemetry span active when the
	// entry was written. Empty when no span is in flight (unit tests).
	TraceID string
	SpanID  string

	UpdatedAt time.Time
}

// Repository persists saga log entries. Append-only: each Save adds a row.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// NewEntry builds an Entry with trace identifiers extracted from ctx.
func NewEntry(ctx context.Context, sagaID string, status Status, currentStep string, errs []string) *Entry {
	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	entry := &Entry{
		SagaID:        sagaID,
		Status:        status,
		CurrentStep:   currentStep,
		ErrorMessages: errJSON,
		UpdatedAt:     time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
