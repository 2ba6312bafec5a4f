// Package fault defines the error taxonomy shared by the probe, the command
// runner, the step library and the CLI.
//
// Every error that should change control flow carries a Kind. Callers match
// kinds with errors.Is against the Kind constants:
//
//	if errors.Is(err, fault.CommandFailed) { ... }
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the orchestrator reacts to it.
type Kind string

const (
	// ProbeUnavailable means an environment fact could not be read.
	// It is advisory: execution continues with the fact marked unknown.
	ProbeUnavailable Kind = "probe unavailable"

	// CommandFailed means a command exited non-zero where failure was fatal.
	CommandFailed Kind = "command failed"

	// PreconditionUnmet means a step cannot run on the current host state.
	PreconditionUnmet Kind = "precondition unmet"

	// ImportUnavailable means an expected external SDK is not installed.
	ImportUnavailable Kind = "import unavailable"

	// ElevationUnavailable means a privileged command was requested from a
	// runner that cannot elevate.
	ElevationUnavailable Kind = "elevation unavailable"
)

// Error implements error so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string { return string(k) }

// Error is a classified failure.
type Error struct {
	Kind Kind

	// Op names what was being attempted (a step name or a command).
	Op string

	// ExitCode is the exit status of the failed command, or 0 when not applicable.
	ExitCode int

	// StderrTail holds the last part of the command's stderr, if captured.
	StderrTail string

	// Remedy is the next command the operator should run.
	Remedy string

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Kind == CommandFailed {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates a classified error with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// WithRemedy attaches the operator's next command and returns the error.
func (e *Error) WithRemedy(remedy string) *Error {
	e.Remedy = remedy
	return e
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ExitCode maps an error to a process exit status: the failing command's
// exit code for CommandFailed, 1 for everything else, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if fe, ok := As(err); ok && fe.Kind == CommandFailed && fe.ExitCode > 0 {
		return fe.ExitCode
	}
	return 1
}

// Remedy returns the remediation hint carried by err, if any.
func Remedy(err error) string {
	if fe, ok := As(err); ok {
		return fe.Remedy
	}
	return ""
}
