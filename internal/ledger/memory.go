package ledger

import (
	"context"
	"sync"

	"github.com/agentstation/utc"

	"github.com/refcanon/refcanon/pkg/errors"
)

// Memory is an in-memory Ledger. Runs do not survive process restart;
// used by tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	runs map[string][]*Run // dataset -> runs, oldest first
	now  func() utc.Time
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		runs: make(map[string][]*Run),
		now:  utc.Now,
	}
}

// ShouldIngest reports whether the dataset needs work for the
// candidate version.
func (m *Memory) ShouldIngest(_ context.Context, dataset, version string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := m.lastSuccessLocked(dataset)
	if last == nil {
		return true, nil
	}
	return last.Version != version, nil
}

// Begin records a RUNNING run for the dataset.
func (m *Memory) Begin(_ context.Context, dataset, source, version string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run := newRun(dataset, source, version, m.now())
	m.runs[dataset] = append(m.runs[dataset], run)
	return run, nil
}

// MarkSuccess finalizes the run as SUCCESS.
func (m *Memory) MarkSuccess(_ context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return finalize(run, StateSuccess, "", m.now())
}

// MarkFailed finalizes the run as FAILED with its cause.
func (m *Memory) MarkFailed(_ context.Context, run *Run, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return finalize(run, StateFailed, msg, m.now())
}

// LastSuccess returns the most recent SUCCESS run for the dataset.
func (m *Memory) LastSuccess(_ context.Context, dataset string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := m.lastSuccessLocked(dataset)
	if last == nil {
		return nil, errors.NewNotFoundError("run", dataset)
	}
	return last, nil
}

// History returns every recorded run for the dataset, most recent
// first.
func (m *Memory) History(_ context.Context, dataset string) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runs := m.runs[dataset]
	out := make([]*Run, len(runs))
	for i, run := range runs {
		out[len(runs)-1-i] = run
	}
	return out, nil
}

func (m *Memory) lastSuccessLocked(dataset string) *Run {
	runs := m.runs[dataset]
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].State == StateSuccess {
			return runs[i]
		}
	}
	return nil
}
