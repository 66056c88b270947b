// Package poolerrors defines the sentinel errors surfaced across the task
// pool's public surface, following the constant-error pattern used
// throughout this module's teacher lineage.
package poolerrors

// constantError is a string-backed error usable as a package-level constant,
// comparable with errors.Is and safe to wrap.
type constantError string

// Error implements the error interface.
func (e constantError) Error() string {
	return string(e)
}

// Unwrap always returns nil: constantError values are leaves.
func (e constantError) Unwrap() error {
	return nil
}

const (
	// ErrCancelled is surfaced by a Result Handle whose envelope was dropped
	// without executing, either by an explicit Abort or by pool destruction
	// (spec §7, error taxonomy #2: "broken promise").
	ErrCancelled = constantError("taskpool: task cancelled before execution")

	// ErrPoolAborted is returned synchronously from Submit when the pool is
	// in a terminal (aborted, not yet reset) state (spec §7, error taxonomy
	// #4: misuse).
	ErrPoolAborted = constantError("taskpool: submit on an aborted pool")

	// ErrAllocation is returned synchronously from Submit when the backing
	// allocator (an *envelope.Allocator, see SubmitWithAllocator0) cannot
	// supply storage for the envelope or its result sink (spec §7, error
	// taxonomy #3: submission failure).
	ErrAllocation = constantError("taskpool: allocator exhausted")
)
