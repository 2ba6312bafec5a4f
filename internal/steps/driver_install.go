package steps

import (
	"fmt"
	"strings"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
)

// DriverInstall installs the kernel driver, the runtime and furiosa-smi from
// the vendor repository. The repository must be registered first.
type DriverInstall struct{}

// Name implements the provisioning.Step interface.
func (s *DriverInstall) Name() string {
	return NameDriverInstall
}

// Provision implements the provisioning.Step interface.
func (s *DriverInstall) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)

	if facts := ctx.Facts(); !facts.SourceRegistered {
		return fault.Newf(fault.PreconditionUnmet, s.Name(),
			"the vendor package source %s is not registered", ctx.Config.Repository.ListPath).
			WithRemedy("furiosa-env setup-apt")
	}

	if err := ctx.RunAll(aptUpdate(), aptInstall(DriverPackages...)); err != nil {
		return fmt.Errorf("failed to install driver packages: %w", err)
	}

	facts := ctx.Facts()
	msg := strings.Join(DriverPackages, " / ") + " installed"
	if facts.RuntimeVersion != "" {
		msg += " (runtime " + facts.RuntimeVersion + ")"
	}
	ctx.Reporter.Success(msg)
	if facts.RebootRequired {
		ctx.Reporter.Notice("The package manager requested a reboot to load the new driver.")
	}
	return nil
}
