package saga

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/checkout-core/internal/saga/sagalog"
)

type memoryLog struct {
	mu      sync.Mutex
	entries []*sagalog.Entry
}

func (m *memoryLog) Save(_ context.Context, entry *sagalog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryLog) statuses() []sagalog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sagalog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

type fakeStep struct {
	name        string
	execErr     error
	compErr     error
	executed    bool
	compensated bool
	trail       *[]string
	trailOnExec string
	trailOnComp string
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Execute(context.Context) error {
	s.executed = true
	if s.trail != nil && s.trailOnExec != "" {
		*s.trail = append(*s.trail, s.trailOnExec)
	}
	return s.execErr
}

func (s *fakeStep) Compensate(context.Context) error {
	s.compensated = true
	if s.trail != nil && s.trailOnComp != "" {
		*s.trail = append(*s.trail, s.trailOnComp)
	}
	return s.compErr
}

func TestOrchestratorRunsAllSteps(t *testing.T) {
	log := &memoryLog{}
	a := &fakeStep{name: "a"}
	b := &fakeStep{name: "b"}

	err := NewOrchestrator("saga-1", []Step{a, b}, log).Start(context.Background())
	require.NoError(t, err)

	assert.True(t, a.executed)
	assert.True(t, b.executed)
	assert.False(t, a.compensated)
	assert.False(t, b.compensated)

	assert.Equal(t, []sagalog.Status{
		sagalog.StatusStarted,
		sagalog.StatusStepDone,
		sagalog.StatusStepDone,
		sagalog.StatusCompleted,
	}, log.statuses())
}

func TestOrchestratorCompensatesLIFO(t *testing.T) {
	var trail []string
	boom := errors.New("boom")
	a := &fakeStep{name: "a", trail: &trail, trailOnExec: "exec-a", trailOnComp: "comp-a"}
	b := &fakeStep{name: "b", trail: &trail, trailOnExec: "exec-b", trailOnComp: "comp-b"}
	c := &fakeStep{name: "c", execErr: boom, trail: &trail, trailOnExec: "exec-c"}

	log := &memoryLog{}
	err := NewOrchestrator("saga-2", []Step{a, b, c}, log).Start(context.Background())
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"exec-a", "exec-b", "exec-c", "comp-b", "comp-a"}, trail)
	assert.False(t, c.compensated, "failing step must not compensate itself")

	statuses := log.statuses()
	assert.Equal(t, sagalog.StatusCompensating, statuses[len(statuses)-2])
	assert.Equal(t, sagalog.StatusFailed, statuses[len(statuses)-1])
}

func TestOrchestratorCompensationFailureDoesNotStopRollback(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeStep{name: "a"}
	b := &fakeStep{name: "b", compErr: errors.New("undo failed")}
	c := &fakeStep{name: "c", execErr: boom}

	err := NewOrchestrator("saga-3", []Step{a, b, c}, nil).Start(context.Background())
	require.ErrorIs(t, err, boom)

	assert.True(t, b.compensated)
	assert.True(t, a.compensated, "rollback must continue past a failed compensation")
}

func TestOrchestratorNilLog(t *testing.T) {
	a := &fakeStep{name: "a"}
	err := NewOrchestrator("saga-4", []Step{a}, nil).Start(context.Background())
	require.NoError(t, err)
	assert.True(t, a.executed)
}
