package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// SDKInstall installs the compiler packages and the furiosa-llm SDK, and
// optionally the pinned torch release.
type SDKInstall struct{}

// Name implements the provisioning.Step interface.
func (s *SDKInstall) Name() string {
	return NameSDKInstall
}

// Provision implements the provisioning.Step interface.
func (s *SDKInstall) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)

	facts := ctx.Facts()
	logProblems(ctx, facts.Problems)
	if facts.Codename != "" && !probe.CodenameSupported(facts.Codename) {
		warn(ctx, fmt.Sprintf("Distribution codename is %s; Ubuntu 22.04 (jammy) or Debian bookworm is required.", facts.Codename))
	}
	if !probe.PythonCompatible(facts.Interpreter) {
		warn(ctx, fmt.Sprintf("furiosa-llm requires Python 3.9-3.12; %s is %s.", ctx.Config.Python, facts.Interpreter))
	}

	// 1. Compiler and development tools
	ctx.Observer.Printf("[%s] Installing compiler packages...", s.Name())
	if err := ctx.RunAll(aptUpdate(), aptInstall(CompilerPackages...)); err != nil {
		return fmt.Errorf("failed to install compiler packages: %w", err)
	}
	res, err := ctx.Run(shell.Check("furiosa-compiler --version"))
	if err != nil {
		return err
	}
	if !res.Succeeded {
		warn(ctx, "furiosa-compiler --version failed.")
	}

	// 2. Python packages
	inst := NewInstaller(ctx)
	if err := inst.EnsurePip(ctx); err != nil {
		return err
	}
	if err := inst.Install(ctx, "--upgrade", "pip", "setuptools", "wheel"); err != nil {
		return err
	}
	if ctx.Options.UpgradeTorch {
		ctx.Observer.Printf("[%s] Installing %s...", s.Name(), TorchRequirement)
		if err := inst.Install(ctx, "--upgrade", TorchRequirement); err != nil {
			return err
		}
	}
	if err := inst.Install(ctx, "--upgrade", "furiosa-llm"); err != nil {
		return err
	}

	torch, ok := ctx.Prober.ModuleVersion(ctx, "torch")
	if !ok || torch == "" {
		torch = "not installed"
	}
	ctx.Reporter.Success("furiosa-llm installed")
	ctx.Reporter.Line("Torch: %s", torch)
	return nil
}
