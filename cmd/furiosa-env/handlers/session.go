// Package handlers contains the business logic for CLI commands.
//
// Every handler loads the configuration, applies the global flag overrides,
// builds a provisioning context for the local or remote host and runs one or
// more steps through the provisioning pipeline.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imamik/furiosa-env/internal/config"
	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/platform/ssh"
	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
	"github.com/imamik/furiosa-env/internal/ui"
	"github.com/imamik/furiosa-env/internal/util/prerequisites"
)

// Globals holds the persistent flags shared by every command. Empty values
// leave the configuration untouched.
type Globals struct {
	ConfigPath  string
	Remote      string
	SSHKey      string
	Elevation   string
	MetricsFile string
	Verbosity   int
}

// HostRunner runs commands on a host and exposes the read-only view the
// probe needs.
type HostRunner interface {
	shell.Runner
	probe.Host
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfig = config.Load

	newLocalRunner = func(elevation shell.Elevation) HostRunner {
		return shell.NewExecRunner(elevation, nil, nil)
	}

	newSSHRunner = func(cfg *ssh.Config) (HostRunner, error) {
		return ssh.NewRunner(cfg, nil, nil)
	}

	newProber = func(host probe.Host, cfg *config.Config) provisioning.Prober {
		return probe.New(host,
			probe.WithPython(cfg.Python),
			probe.WithSourceListPath(cfg.Repository.ListPath),
		)
	}

	newReporter = func() provisioning.Reporter {
		return ui.NewPanels(os.Stdout)
	}

	newPrompter = func() ui.Prompter {
		return ui.FormPrompter{}
	}

	newObserver = func(verbosity int) provisioning.Observer {
		return provisioning.NewConsoleObserver(os.Stderr, verbosity)
	}

	checkLocalPrereqs = prerequisites.CheckLocal

	readFile = os.ReadFile

	currentUser = func() string {
		return os.Getenv("USER")
	}

	isRoot = func() bool {
		return os.Geteuid() == 0
	}
)

// session is one invocation's provisioning context plus what must be
// released afterwards.
type session struct {
	ctx         *provisioning.Context
	runner      HostRunner
	metricsFile string
}

// loadSession loads the configuration with flag overrides and builds the
// provisioning context.
func loadSession(ctx context.Context, g Globals, opts provisioning.Options) (*session, error) {
	cfg, err := loadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := applyGlobals(cfg, g); err != nil {
		return nil, err
	}

	runner, remote, err := buildRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts.Remote = remote

	pctx := &provisioning.Context{
		Context:  ctx,
		Config:   cfg,
		Runner:   runner,
		Prober:   newProber(runner, cfg),
		Observer: newObserver(g.Verbosity),
		Reporter: newReporter(),
		Prompter: newPrompter(),
		Metrics:  provisioning.NewMetrics(),
		Options:  opts,
	}
	return &session{ctx: pctx, runner: runner, metricsFile: cfg.MetricsFile}, nil
}

// applyGlobals overlays the persistent flags on cfg and revalidates it.
func applyGlobals(cfg *config.Config, g Globals) error {
	if g.Remote != "" {
		cfg.Remote.Target = g.Remote
	}
	if g.SSHKey != "" {
		cfg.Remote.KeyPath = g.SSHKey
	}
	if g.Elevation != "" {
		cfg.Elevation = g.Elevation
	}
	if g.MetricsFile != "" {
		cfg.MetricsFile = g.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// buildRunner returns the SSH runner when a remote target is configured and
// the local runner otherwise.
func buildRunner(ctx context.Context, cfg *config.Config) (HostRunner, bool, error) {
	elevation, err := shell.ParseElevation(cfg.Elevation)
	if err != nil {
		return nil, false, err
	}

	if cfg.Remote.Target == "" {
		results := checkLocalPrereqs(ctx, elevation == shell.ElevateSudo && !isRoot())
		if err := results.Error(); err != nil {
			return nil, false, fault.New(fault.PreconditionUnmet, "local runner", err)
		}
		return newLocalRunner(elevation), false, nil
	}

	user, host, port, err := ssh.ParseTarget(cfg.Remote.Target, currentUser())
	if err != nil {
		return nil, true, err
	}
	if cfg.Remote.KeyPath == "" {
		return nil, true, fault.Newf(fault.PreconditionUnmet, "remote runner", "no SSH key configured for %s", host).
			WithRemedy("pass --ssh-key or set remote.key_path")
	}
	key, err := readFile(expandHome(cfg.Remote.KeyPath))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read SSH key: %w", err)
	}

	runner, err := newSSHRunner(&ssh.Config{
		Host:        host,
		Port:        port,
		User:        user,
		PrivateKey:  key,
		DialTimeout: cfg.Remote.DialTimeout,
		MaxRetries:  cfg.Remote.MaxRetries,
		Elevation:   elevation,
	})
	if err != nil {
		return nil, true, fmt.Errorf("failed to create SSH runner: %w", err)
	}
	return runner, true, nil
}

// expandHome resolves a leading "~/" against the home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + "/" + rest
}

// close flushes metrics and releases the runner. A metrics failure is
// logged, never returned, so it cannot mask the step outcome.
func (s *session) close() {
	if s.metricsFile != "" {
		if err := s.ctx.Metrics.WriteTextfile(s.metricsFile); err != nil {
			s.ctx.Observer.Printf("Warning: %v", err)
		}
	}
	if c, ok := s.runner.(io.Closer); ok {
		_ = c.Close()
	}
}

// runSteps runs a single step on its own or several steps as one pipeline.
func runSteps(ctx context.Context, g Globals, opts provisioning.Options, steps ...provisioning.Step) error {
	s, err := loadSession(ctx, g, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if len(steps) == 1 {
		return provisioning.RunStep(s.ctx, steps[0])
	}
	return provisioning.NewPipeline(steps...).Run(s.ctx)
}
