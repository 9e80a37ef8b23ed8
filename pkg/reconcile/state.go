package reconcile

import (
	"fmt"
	"io/fs"
)

// State is the compliance state of one managed file
type State string

const (
	StateUnchecked        State = "unchecked"
	StateCompliant        State = "compliant"
	StateSourceMissing    State = "source-missing"
	StateMissing          State = "missing"
	StateContentMismatch  State = "content-mismatch"
	StateMetadataMismatch State = "metadata-mismatch"
)

// Deployable reports whether a deploy can fix the state
func (s State) Deployable() bool {
	return s == StateMissing || s == StateContentMismatch || s == StateMetadataMismatch
}

// Outcome is the end result for one managed file
type Outcome string

const (
	OutcomeAlreadyCompliant Outcome = "already-compliant"
	OutcomeRepaired         Outcome = "repaired"
	OutcomeNonCompliant     Outcome = "non-compliant"
	OutcomeSourceMissing    Outcome = "source-missing"
)

// Metadata is the observed ownership and mode of a target
type Metadata struct {
	Owner string
	Group string
	Mode  fs.FileMode
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s:%s %04o", m.Owner, m.Group, m.Mode.Perm())
}

// FileCheck is the result of checking one managed file
type FileCheck struct {
	File       ManagedFile
	SourcePath string
	State      State
	// Observed is set for metadata mismatches
	Observed *Metadata
}

// FileResult reports what happened to one managed file
type FileResult struct {
	File     ManagedFile
	Initial  State
	Final    State
	Outcome  Outcome
	Deployed bool
	// DeployErr is set when the deploy step failed
	DeployErr error
}

// Result is the outcome of a reconciliation run
type Result struct {
	Files []FileResult
	// OK is true when every file is compliant after the run
	OK bool
}

// Failed returns the files that are not compliant after the run
func (r Result) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Final != StateCompliant {
			failed = append(failed, f)
		}
	}
	return failed
}
