package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// BaseDepsPackages returns the build dependencies for the driver. Kernel
// modules and headers are skipped on virtualized kernels, which ship none.
func BaseDepsPackages(virtualized bool) []string {
	packages := []string{"build-essential"}
	if !virtualized {
		packages = append(packages, "linux-modules-extra-$(uname -r)", "linux-headers-$(uname -r)")
	}
	return packages
}

// BaseDepsCommands plans the base dependency install.
func BaseDepsCommands(virtualized bool) []shell.CommandSpec {
	return []shell.CommandSpec{aptUpdate(), aptInstall(BaseDepsPackages(virtualized)...)}
}

// BaseDeps installs the build toolchain and, on bare metal, the kernel
// modules and headers the driver builds against.
type BaseDeps struct{}

// Name implements the provisioning.Step interface.
func (s *BaseDeps) Name() string {
	return NameBaseDeps
}

// Provision implements the provisioning.Step interface.
func (s *BaseDeps) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)

	facts := ctx.Facts()
	logProblems(ctx, facts.Problems)

	if facts.Virtualized {
		ctx.Reporter.Notice("WSL2 detected: skipping kernel header packages.")
	}
	if facts.KernelRelease != "" && !facts.Virtualized {
		ok, err := probe.KernelSupported(facts.KernelRelease)
		switch {
		case err != nil:
			provisioning.LogStepWarning(ctx.Observer, s.Name(), err.Error())
		case !ok:
			warn(ctx, fmt.Sprintf("Kernel %s is older than %s; the driver may fail to build.",
				facts.KernelRelease, probe.MinKernel))
		}
	}

	if err := ctx.RunAll(BaseDepsCommands(facts.Virtualized)...); err != nil {
		return fmt.Errorf("failed to install base dependencies: %w", err)
	}

	ctx.Reporter.Success("Kernel headers, modules and build tools installed")
	return nil
}
