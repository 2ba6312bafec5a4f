package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/imamik/furiosa-env/internal/shell"
)

// FakeRunner records every command and answers with scripted exit codes.
// Commands without a scripted answer succeed.
type FakeRunner struct {
	// Elevation and IsRoot are applied exactly like the real runners.
	Elevation shell.Elevation
	IsRoot    bool

	// StderrTail is attached to every non-zero result.
	StderrTail string

	mu        sync.Mutex
	responses []response
	specs     []shell.CommandSpec
}

type response struct {
	prefix   string
	exitCode int
}

// NewFakeRunner creates a runner that elevates through sudo.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Elevation: shell.ElevateSudo, StderrTail: "E: simulated failure"}
}

// Respond scripts the exit code for commands starting with prefix. Later
// calls take precedence over earlier ones.
func (r *FakeRunner) Respond(prefix string, exitCode int) *FakeRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append([]response{{prefix: prefix, exitCode: exitCode}}, r.responses...)
	return r
}

// Run implements shell.Runner.
func (r *FakeRunner) Run(ctx context.Context, spec shell.CommandSpec) (shell.Result, error) {
	if _, err := shell.Elevate(r.Elevation, r.IsRoot, spec); err != nil {
		return shell.Result{ExitCode: -1}, err
	}
	if err := ctx.Err(); err != nil {
		return shell.Result{ExitCode: -1}, err
	}

	r.mu.Lock()
	r.specs = append(r.specs, spec)
	code := 0
	for _, resp := range r.responses {
		if strings.HasPrefix(spec.Command, resp.prefix) {
			code = resp.exitCode
			break
		}
	}
	r.mu.Unlock()

	tail := ""
	if code != 0 {
		tail = r.StderrTail
	}
	return shell.Complete(spec, code, tail)
}

// Specs returns every command run so far.
func (r *FakeRunner) Specs() []shell.CommandSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shell.CommandSpec(nil), r.specs...)
}

// Commands returns the command lines run so far.
func (r *FakeRunner) Commands() []string {
	specs := r.Specs()
	cmds := make([]string, len(specs))
	for i, s := range specs {
		cmds[i] = s.Command
	}
	return cmds
}

// Index returns the position of the first command containing substr, or -1.
func (r *FakeRunner) Index(substr string) int {
	for i, cmd := range r.Commands() {
		if strings.Contains(cmd, substr) {
			return i
		}
	}
	return -1
}

// Ran reports whether any command contained substr.
func (r *FakeRunner) Ran(substr string) bool {
	return r.Index(substr) >= 0
}

// Find returns the first spec whose command contains substr.
func (r *FakeRunner) Find(substr string) (shell.CommandSpec, bool) {
	for _, s := range r.Specs() {
		if strings.Contains(s.Command, substr) {
			return s, true
		}
	}
	return shell.CommandSpec{}, false
}

// Reset forgets recorded commands but keeps scripted responses.
func (r *FakeRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = nil
}
