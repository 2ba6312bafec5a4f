package steps

import (
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// DeviceScanCommand lists FuriosaAI PCI devices. It exits non-zero when none
// is found.
const DeviceScanCommand = "lspci -nn | grep -i FuriosaAI"

// DeviceScan looks for FuriosaAI PCIe devices, installing lspci first when
// the host lacks it. Finding no device is reported, not fatal.
type DeviceScan struct{}

// Name implements the provisioning.Step interface.
func (s *DeviceScan) Name() string {
	return NameDeviceScan
}

// Provision implements the provisioning.Step interface.
func (s *DeviceScan) Provision(ctx *provisioning.Context) error {
	if !ctx.Prober.HasCommand(ctx, "lspci") {
		privilegeNotice(ctx)
		ctx.Observer.Printf("[%s] lspci not found, installing pciutils...", s.Name())
		if err := s.installPCIUtils(ctx); err != nil {
			return err
		}
	}

	res, err := ctx.Run(shell.Check(DeviceScanCommand))
	if err != nil {
		return err
	}
	if !res.Succeeded {
		warn(ctx, "No FuriosaAI device found. Check that the card is seated and visible to the host.")
		return nil
	}
	ctx.Reporter.Success("FuriosaAI device detected")
	return nil
}

// installPCIUtils installs pciutils and refreshes the PCI ID database. The
// database is only refreshed once the install succeeded.
func (s *DeviceScan) installPCIUtils(ctx *provisioning.Context) error {
	for _, spec := range []shell.CommandSpec{aptUpdate().Tolerant(), aptInstall("pciutils").Tolerant()} {
		res, err := ctx.Run(spec)
		if err != nil {
			return err
		}
		if !res.Succeeded {
			warn(ctx, "Installing pciutils failed; the device scan may not work.")
			return nil
		}
	}

	res, err := ctx.Run(shell.Privileged("update-pciids").Tolerant())
	if err != nil {
		return err
	}
	if !res.Succeeded {
		warn(ctx, "update-pciids failed; devices may show without vendor names.")
	}
	return nil
}
