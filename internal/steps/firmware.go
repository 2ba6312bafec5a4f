package steps

import (
	"errors"
	"fmt"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/ui"
)

// FirmwareUpgrade installs the firmware tools and images. Installing the
// image package upgrades every device, so the operator confirms first unless
// Confirmed is set.
type FirmwareUpgrade struct {
	Confirmed bool
}

// Name implements the provisioning.Step interface.
func (s *FirmwareUpgrade) Name() string {
	return NameFirmwareUpgrade
}

// Provision implements the provisioning.Step interface.
func (s *FirmwareUpgrade) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)

	if !s.Confirmed {
		ok, err := ctx.Prompter.Confirm(ctx, "Upgrade NPU firmware?",
			"Every device is upgraded. This takes 3-5 minutes per device and may require a reboot.")
		switch {
		case errors.Is(err, ui.ErrNotInteractive):
			return fault.New(fault.PreconditionUnmet, s.Name(), err).
				WithRemedy("furiosa-env upgrade-firmware --yes")
		case err != nil:
			return fmt.Errorf("failed to confirm firmware upgrade: %w", err)
		case !ok:
			warn(ctx, "Firmware upgrade cancelled.")
			return nil
		}
	}

	if err := ctx.RunAll(aptInstall(FirmwarePackages...)); err != nil {
		return fmt.Errorf("failed to install firmware packages: %w", err)
	}

	ctx.Reporter.Success("Firmware images installed. Each device can take 3-5 minutes to upgrade, and a reboot may be required.")
	if ctx.Facts().RebootRequired {
		ctx.Reporter.Notice("The package manager requested a reboot.")
	}
	return nil
}
