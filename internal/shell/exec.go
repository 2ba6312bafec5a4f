package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/imamik/furiosa-env/internal/fault"
)

const (
	defaultShell = "bash"

	// StderrTailSize is how much trailing stderr a Result keeps.
	StderrTailSize = 2048

	// interruptGrace is how long a cancelled command gets to exit after SIGINT.
	interruptGrace = 10 * time.Second
)

// Elevation selects how privileged commands are run.
type Elevation string

const (
	// ElevateSudo runs privileged commands through sudo unless already root.
	ElevateSudo Elevation = "sudo"

	// ElevateRoot requires the process to already run as root.
	ElevateRoot Elevation = "root"

	// ElevateNone refuses every privileged command.
	ElevateNone Elevation = "none"
)

// ParseElevation validates an elevation mode name.
func ParseElevation(s string) (Elevation, error) {
	switch e := Elevation(s); e {
	case ElevateSudo, ElevateRoot, ElevateNone:
		return e, nil
	case "":
		return ElevateSudo, nil
	default:
		return "", fmt.Errorf("invalid elevation %q: must be one of sudo, root, none", s)
	}
}

// ExecRunner runs commands on the local host with bash -lc.
type ExecRunner struct {
	elevation Elevation
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer

	// euid is replaceable for tests.
	euid func() int
}

// NewExecRunner creates a local runner. Nil writers default to the process's
// own stdout/stderr.
func NewExecRunner(elevation Elevation, stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{
		elevation: elevation,
		stdin:     os.Stdin,
		stdout:    stdout,
		stderr:    stderr,
		euid:      os.Geteuid,
	}
}

// Run executes spec, streaming its output live.
func (r *ExecRunner) Run(ctx context.Context, spec CommandSpec) (Result, error) {
	argv, err := r.argv(spec)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	// #nosec G204 - argv[0] is bash or sudo; the command travels as one argument
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = interruptGrace
	cmd.Env = append(os.Environ(), spec.EnvPairs()...)
	if spec.Interactive {
		cmd.Stdin = r.stdin
	}

	tail := NewTailBuffer(StderrTailSize)
	cmd.Stdout = r.stdout
	cmd.Stderr = io.MultiWriter(r.stderr, tail)

	return finish(ctx, spec, cmd.Run(), tail)
}

// Output runs an unprivileged command and returns its stdout.
func (r *ExecRunner) Output(ctx context.Context, command string) (string, error) {
	// #nosec G204 - fixed shell, command is one argument
	cmd := exec.CommandContext(ctx, defaultShell, "-lc", command)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w: %s", command, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return string(out), nil
}

// ReadFile reads a file on the local host.
func (r *ExecRunner) ReadFile(_ context.Context, path string) ([]byte, error) {
	// #nosec G304 - paths are fixed system files
	return os.ReadFile(path)
}

// argv builds the process arguments. The command line is always passed as a
// single argument to bash; it is never spliced into another shell string.
func (r *ExecRunner) argv(spec CommandSpec) ([]string, error) {
	base := []string{defaultShell, "-lc", spec.Command}
	useSudo, err := Elevate(r.elevation, r.euid() == 0, spec)
	if err != nil {
		return nil, err
	}
	if !useSudo {
		return base, nil
	}

	argv := []string{"sudo", "--"}
	if pairs := spec.EnvPairs(); len(pairs) > 0 {
		argv = append(argv, "env")
		argv = append(argv, pairs...)
	}
	return append(argv, base...), nil
}

// Elevate decides whether spec must go through sudo. A privileged spec that
// the elevation mode cannot honor fails with fault.ElevationUnavailable; it is
// never downgraded to an unprivileged run.
func Elevate(elevation Elevation, isRoot bool, spec CommandSpec) (useSudo bool, err error) {
	if !spec.Privileged {
		return false, nil
	}
	switch {
	case elevation == ElevateNone:
		return false, fault.Newf(fault.ElevationUnavailable, spec.Command, "runner is configured without elevation")
	case isRoot:
		return false, nil
	case elevation == ElevateRoot:
		return false, fault.Newf(fault.ElevationUnavailable, spec.Command, "elevation %q requires running as root", elevation)
	}
	return true, nil
}

// finish converts a process outcome into a Result.
func finish(ctx context.Context, spec CommandSpec, runErr error, tail *TailBuffer) (Result, error) {
	if runErr == nil {
		return Result{Succeeded: true}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return Result{ExitCode: -1, StderrTail: tail.String()}, fmt.Errorf("failed to run %q: %w", spec.Command, runErr)
	}
	if ctx.Err() != nil {
		return Result{ExitCode: exitErr.ExitCode(), StderrTail: tail.String()}, fmt.Errorf("%q interrupted: %w", spec.Command, ctx.Err())
	}
	return Complete(spec, exitErr.ExitCode(), tail.String())
}

// Complete builds the Result for a command that ran to completion and, when
// spec.FailOnNonZero is set, the CommandFailed error for a non-zero exit.
func Complete(spec CommandSpec, exitCode int, stderrTail string) (Result, error) {
	if exitCode == 0 {
		return Result{Succeeded: true}, nil
	}
	res := Result{ExitCode: exitCode, StderrTail: stderrTail}
	if spec.FailOnNonZero {
		return res, &fault.Error{
			Kind:       fault.CommandFailed,
			Op:         spec.Command,
			ExitCode:   exitCode,
			StderrTail: stderrTail,
		}
	}
	return res, nil
}
