// Package ledger tracks ingestion runs per dataset. Each run is a
// small state machine (NONE, RUNNING, then SUCCESS or FAILED) keyed by
// the source version that was ingested, so unchanged source data is
// skipped entirely on the next invocation.
package ledger

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/refcanon/refcanon/pkg/errors"
)

// State is the lifecycle state of one ingestion run.
type State string

// Run states.
const (
	StateRunning State = "RUNNING" // run started, not yet finalized
	StateSuccess State = "SUCCESS" // run finished and was recorded
	StateFailed  State = "FAILED"  // run finished with an error
)

// String returns the state as a string.
func (s State) String() string {
	return string(s)
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Run is one audit row in the ledger.
type Run struct {
	ID       string    `json:"id"`                 // unique run identifier
	Dataset  string    `json:"dataset"`            // logical dataset gate
	Source   string    `json:"source"`             // source location (file path or URL)
	Version  string    `json:"version"`            // source version or fingerprint
	State    State     `json:"state"`              // current lifecycle state
	Error    string    `json:"error,omitempty"`    // failure cause, set on FAILED
	Started  utc.Time  `json:"started"`            // run start time
	Finished *utc.Time `json:"finished,omitempty"` // finalization time, nil while RUNNING
}

// Ledger is the version-gating and run-status tracker. One gate per
// logical dataset; derived datasets sourced from the same physical
// file gate independently.
type Ledger interface {
	// ShouldIngest reports whether the dataset needs work: true when
	// no SUCCESS run exists for it, or when the candidate version
	// differs from the last successful one.
	ShouldIngest(ctx context.Context, dataset, version string) (bool, error)

	// Begin records a RUNNING audit row and returns the run handle.
	Begin(ctx context.Context, dataset, source, version string) (*Run, error)

	// MarkSuccess finalizes a run as SUCCESS. Calling it again on a
	// run already marked SUCCESS is a no-op.
	MarkSuccess(ctx context.Context, run *Run) error

	// MarkFailed finalizes a run as FAILED with its cause. Calling it
	// again on a run already marked FAILED is a no-op.
	MarkFailed(ctx context.Context, run *Run, cause error) error

	// LastSuccess returns the most recent SUCCESS run for the
	// dataset, or a not-found error when none exists.
	LastSuccess(ctx context.Context, dataset string) (*Run, error)

	// History returns every recorded run for the dataset, most recent
	// first.
	History(ctx context.Context, dataset string) ([]*Run, error)
}

func newRun(dataset, source, version string, now utc.Time) *Run {
	return &Run{
		ID:      uuid.NewString(),
		Dataset: dataset,
		Source:  source,
		Version: version,
		State:   StateRunning,
		Started: now,
	}
}

// finalize applies a terminal transition in place. Repeating the same
// terminal transition is a no-op; crossing transitions (failing a
// SUCCESS run or succeeding a FAILED one) is an error.
func finalize(run *Run, target State, cause string, now utc.Time) error {
	if run.State == target {
		return nil
	}
	if run.State.Terminal() {
		return fmt.Errorf("%w: run %s for %s already %s", errors.ErrRunNotActive, run.ID, run.Dataset, run.State)
	}
	run.State = target
	run.Error = cause
	run.Finished = &now
	return nil
}
