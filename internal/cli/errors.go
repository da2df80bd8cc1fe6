package cli

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Input errors reported by commands.
const (
	ErrUnsupportedFormat = constError("unsupported output format")
	ErrInvalidFiber      = constError("invalid fiber, expected NAME=PERCENT")
	ErrInvalidProcess    = constError("invalid process option")
	ErrNoGarments        = constError("no garments to optimise")
	ErrNotTerminal       = constError("interactive view needs a terminal")
	ErrDeleteAborted     = constError("delete aborted")
)

// TargetMissedError is returned by collection optimize --fail-on-miss when
// the collection misses its reduction target. main exits with ExitCode.
type TargetMissedError struct {
	ExitCode int
	Target   float64
	Actual   float64
}

func (e *TargetMissedError) Error() string {
	return fmt.Sprintf("collection reduction %.1f%% is below target %.1f%%", e.Actual, e.Target)
}

// targetMissedExitCode separates a missed target from ordinary failures.
const targetMissedExitCode = 2
