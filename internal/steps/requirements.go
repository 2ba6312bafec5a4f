package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
	"github.com/imamik/furiosa-env/internal/ui"
	"github.com/imamik/furiosa-env/internal/util/prerequisites"
)

// SystemInfoCommand prints the kernel release and distribution.
const SystemInfoCommand = "uname -r && (lsb_release -a || cat /etc/os-release)"

// CheckRequirements reports whether the host meets the minimum requirements.
// It is informational and never fails on an unmet requirement.
type CheckRequirements struct{}

// Name implements the provisioning.Step interface.
func (s *CheckRequirements) Name() string {
	return NameCheckRequirements
}

// Provision implements the provisioning.Step interface.
func (s *CheckRequirements) Provision(ctx *provisioning.Context) error {
	ctx.Reporter.Section("Requirements")
	ctx.Reporter.Line("- Ubuntu 22.04 LTS (or Debian bookworm) or newer")
	ctx.Reporter.Line("- Linux kernel %s or newer", probe.MinKernel)
	ctx.Reporter.Line("- Administrator privileges (sudo)")

	if _, err := ctx.Run(shell.Check(SystemInfoCommand)); err != nil {
		return err
	}

	facts := ctx.Facts()
	ctx.Reporter.Section("Host")
	ctx.Reporter.Checklist(FactChecks(facts))

	ctx.Reporter.Section("Tools")
	results := prerequisites.Check(ctx, ctx.Prober, prerequisites.HostTools())
	ctx.Reporter.Checklist(ToolChecks(results))

	for _, p := range facts.Problems {
		warn(ctx, p.Error())
	}
	return nil
}

// FactChecks turns probed facts into checklist rows.
func FactChecks(f *probe.Facts) []ui.Check {
	checks := []ui.Check{codenameCheck(f), kernelCheck(f)}

	checks = append(checks, ui.Check{
		Name:   "Python 3.9-3.12",
		OK:     probe.PythonCompatible(f.Interpreter),
		Warn:   true,
		Detail: f.Interpreter.String(),
	})

	env := "bare metal"
	if f.Virtualized {
		env = "WSL2, kernel headers are skipped"
	}
	checks = append(checks,
		ui.Check{Name: "Environment", OK: true, Detail: env},
		ui.Check{Name: "Architecture", OK: f.Architecture != "", Warn: true, Detail: f.Architecture},
		ui.Check{Name: "Vendor repository", OK: f.SourceRegistered, Warn: true, Detail: registered(f.SourceRegistered)},
		ui.Check{Name: "Runtime", OK: f.RuntimeVersion != "", Warn: true, Detail: orNone(f.RuntimeVersion)},
		ui.Check{Name: "No pending reboot", OK: !f.RebootRequired, Warn: true},
	)
	return checks
}

func codenameCheck(f *probe.Facts) ui.Check {
	c := ui.Check{Name: "Distribution", Warn: true, Detail: f.Codename}
	if f.OSName != "" {
		c.Detail = fmt.Sprintf("%s (%s)", f.OSName, f.Codename)
	}
	if f.Codename == "" {
		c.Detail = "unknown"
		return c
	}
	c.OK = probe.CodenameSupported(f.Codename)
	return c
}

func kernelCheck(f *probe.Facts) ui.Check {
	c := ui.Check{Name: "Kernel " + probe.MinKernel + "+", Warn: true, Detail: orNone(f.KernelRelease)}
	if f.KernelRelease == "" {
		return c
	}
	ok, err := probe.KernelSupported(f.KernelRelease)
	c.OK = err == nil && ok
	return c
}

// ToolChecks turns tool lookups into checklist rows. Missing optional tools
// are warnings, missing required tools are failures.
func ToolChecks(results *prerequisites.CheckResults) []ui.Check {
	checks := make([]ui.Check, 0, len(results.Results))
	for _, r := range results.Results {
		c := ui.Check{Name: r.Tool.Name, OK: r.Found, Warn: !r.Tool.Required, Detail: r.Tool.Description}
		if !r.Found {
			c.Detail = "missing: " + r.Tool.Remedy
		}
		checks = append(checks, c)
	}
	return checks
}

func registered(ok bool) string {
	if ok {
		return "registered"
	}
	return "not registered"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
