package provisioning

import (
	"context"
	"os"

	"github.com/imamik/furiosa-env/internal/config"
	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/shell"
	"github.com/imamik/furiosa-env/internal/ui"
)

// Options are supplied once per invocation and never change during a run.
type Options struct {
	// IncludeLLM appends sdk-install to the full chain.
	IncludeLLM bool

	// IndexURL overrides the Python package index for both installers.
	IndexURL string

	// UpgradeTorch installs the pinned torch release before the SDK.
	UpgradeTorch bool

	// Remote is set when the runner targets another host. Generated files
	// are then written through the runner instead of the local filesystem.
	Remote bool
}

// Context wraps all dependencies needed for a provisioning step.
type Context struct {
	context.Context
	Config   *config.Config
	Runner   shell.Runner
	Prober   Prober
	Observer Observer
	Reporter Reporter
	Prompter ui.Prompter
	Metrics  *Metrics
	Options  Options

	step string
}

// NewContext creates a provisioning context that logs to stderr and reports
// to stdout.
func NewContext(ctx context.Context, cfg *config.Config, runner shell.Runner, prober Prober) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Runner:   runner,
		Prober:   prober,
		Observer: NewConsoleObserver(os.Stderr, 0),
		Reporter: ui.NewPanels(os.Stdout),
		Prompter: ui.FormPrompter{},
		Metrics:  NewMetrics(),
	}
}

// Step returns the name of the step currently running, if any.
func (c *Context) Step() string {
	return c.step
}

// forStep returns a copy of c scoped to one step.
func (c *Context) forStep(name string) *Context {
	scoped := *c
	scoped.step = name
	scoped.Observer = c.Observer.WithFields(map[string]string{"step": name})
	return &scoped
}

// Facts probes the host. Every call reads fresh state.
func (c *Context) Facts() *probe.Facts {
	return c.Prober.Probe(c)
}

// Run executes one command through the runner and records it.
func (c *Context) Run(spec shell.CommandSpec) (shell.Result, error) {
	LogCommand(c.Observer, c.step, spec)
	res, err := c.Runner.Run(c, spec)
	c.Metrics.RecordCommand(spec, res, err)
	if err == nil && !res.Succeeded {
		LogCommandFailed(c.Observer, c.step, spec, res)
	}
	return res, err
}

// RunAll executes commands in order and stops at the first error.
func (c *Context) RunAll(specs ...shell.CommandSpec) error {
	for _, spec := range specs {
		if _, err := c.Run(spec); err != nil {
			return err
		}
	}
	return nil
}
