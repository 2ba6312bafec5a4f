package provisioning

import (
	"context"

	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/ui"
)

// Step defines the interface for a provisioning step.
type Step interface {
	// Name returns the identifier of this step, e.g. "repo-register".
	Name() string

	// Provision executes the step. Non-fatal failures are reported through
	// the context and return nil; a returned error aborts the pipeline.
	Provision(ctx *Context) error
}

// Prober reads host facts. Implemented by probe.HostProber.
type Prober interface {
	// Probe reads a fresh snapshot of the host. It never fails; facts it
	// could not read are recorded in Facts.Problems.
	Probe(ctx context.Context) *probe.Facts

	// HasCommand reports whether name resolves on the host's PATH.
	HasCommand(ctx context.Context, name string) bool

	// ModuleVersion reports whether a Python module imports and its
	// __version__, if any.
	ModuleVersion(ctx context.Context, module string) (string, bool)

	// PathExists reports whether a file or directory exists on the host.
	PathExists(ctx context.Context, path string) bool
}

// Reporter shows operator-facing output. Implemented by ui.Panels.
type Reporter interface {
	Notice(msg string)
	Warning(msg string)
	Success(msg string)
	Section(title string)
	Line(format string, args ...interface{})
	Checklist(checks []ui.Check)
}
