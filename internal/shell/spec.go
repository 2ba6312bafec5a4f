package shell

import (
	"context"
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// CommandSpec describes one command to execute.
type CommandSpec struct {
	// Command is the full command line, interpreted by bash.
	Command string

	// Privileged runs the command through the runner's elevation mechanism.
	Privileged bool

	// FailOnNonZero turns a non-zero exit into a fault.CommandFailed error.
	// When false, the failure is only reported in Result.Succeeded.
	FailOnNonZero bool

	// Env adds environment variables for this command only.
	Env map[string]string

	// Interactive attaches the operator's stdin.
	Interactive bool
}

// Result is the outcome of one command.
type Result struct {
	Succeeded bool

	// ExitCode is the process exit status, or -1 if the process never ran
	// to completion.
	ExitCode int

	// StderrTail holds the last part of the command's stderr.
	StderrTail string
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) (Result, error)
}

// Privileged returns a fatal, elevated command.
func Privileged(command string) CommandSpec {
	return CommandSpec{Command: command, Privileged: true, FailOnNonZero: true}
}

// Unprivileged returns a fatal command run as the invoking user.
func Unprivileged(command string) CommandSpec {
	return CommandSpec{Command: command, FailOnNonZero: true}
}

// Check returns a non-fatal command run as the invoking user, for probes
// where a non-zero exit is an expected outcome.
func Check(command string) CommandSpec {
	return CommandSpec{Command: command}
}

// Tolerant returns a copy of s that reports non-zero exits instead of failing.
func (s CommandSpec) Tolerant() CommandSpec {
	s.FailOnNonZero = false
	return s
}

// WithEnv returns a copy of s with an extra environment variable.
func (s CommandSpec) WithEnv(key, value string) CommandSpec {
	env := make(map[string]string, len(s.Env)+1)
	for k, v := range s.Env {
		env[k] = v
	}
	env[key] = value
	s.Env = env
	return s
}

// EnvPairs returns Env as sorted KEY=VALUE pairs.
func (s CommandSpec) EnvPairs() []string {
	pairs := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// String renders the command for logs. Environment values are never shown.
func (s CommandSpec) String() string {
	var b strings.Builder
	if s.Privileged {
		b.WriteString("[privileged] ")
	}
	b.WriteString(s.Command)
	return b.String()
}

// Quote escapes a single dynamic value for safe inclusion in a command line.
func Quote(value string) string {
	return shellescape.Quote(value)
}

// Join quotes each argument and joins them with spaces.
func Join(args ...string) string {
	return shellescape.QuoteCommand(args)
}
