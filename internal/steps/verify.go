package steps

import (
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// Verify prints NPU device information with furiosa-smi. A failure is
// reported, not fatal.
type Verify struct{}

// Name implements the provisioning.Step interface.
func (s *Verify) Name() string {
	return NameVerify
}

// Provision implements the provisioning.Step interface.
func (s *Verify) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)

	if !ctx.Prober.HasCommand(ctx, "furiosa-smi") {
		warn(ctx, "furiosa-smi is not installed. Run furiosa-env install-furiosa first.")
		return nil
	}

	ctx.Reporter.Section("furiosa-smi info")
	res, err := ctx.Run(shell.Privileged("furiosa-smi info").Tolerant())
	if err != nil {
		return err
	}
	if !res.Succeeded {
		warn(ctx, "furiosa-smi info failed. Check the installation, permissions and device state.")
		return nil
	}
	ctx.Reporter.Success("NPU devices respond")
	return nil
}
