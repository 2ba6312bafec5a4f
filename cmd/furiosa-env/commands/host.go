package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/furiosa-env/cmd/furiosa-env/handlers"
)

// CheckRequirements returns the command that prints the host requirements
// and what the probe found.
func CheckRequirements() *cobra.Command {
	return &cobra.Command{
		Use:   "check-requirements",
		Short: "Show host requirements and the detected environment",
		Long: `Show the supported distributions, kernel and Python versions and compare
them with what the host reports. Nothing is installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CheckRequirements(cmd.Context(), globals)
		},
	}
}

// CheckDevices returns the command that scans for FuriosaAI devices.
func CheckDevices() *cobra.Command {
	return &cobra.Command{
		Use:   "check-devices",
		Short: "Scan the PCI bus for FuriosaAI devices",
		Long: `Scan the PCI bus for FuriosaAI devices. pciutils is installed first when
lspci is missing. A host without devices is reported, not treated as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CheckDevices(cmd.Context(), globals)
		},
	}
}

// SetupApt returns the command that registers the vendor repository.
func SetupApt() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-apt",
		Short: "Register the FuriosaAI APT repository and signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.SetupApt(cmd.Context(), globals)
		},
	}
}

// InstallPrereqs returns the command that installs build dependencies.
func InstallPrereqs() *cobra.Command {
	return &cobra.Command{
		Use:   "install-prereqs",
		Short: "Install build tools and kernel headers",
		Long: `Install build-essential and, on bare metal, the headers for the running
kernel. Under WSL the kernel headers are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallPrereqs(cmd.Context(), globals)
		},
	}
}

// InstallFuriosa returns the command that installs the driver stack.
func InstallFuriosa() *cobra.Command {
	return &cobra.Command{
		Use:   "install-furiosa",
		Short: "Install the NPU driver, PE runtime and management tools",
		Long: `Install furiosa-driver-rngd, furiosa-pert-rngd and furiosa-smi from the
registered repository. Run setup-apt first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallFuriosa(cmd.Context(), globals)
		},
	}
}

// Verify returns the command that reports the NPU state.
func Verify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Show NPU device information with furiosa-smi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), globals)
		},
	}
}

// UpgradeFirmware returns the command that installs the firmware packages.
//
// Optional flags:
//
//	--yes: Skip the confirmation prompt
func UpgradeFirmware() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "upgrade-firmware",
		Short: "Upgrade the NPU firmware",
		Long: `Install the firmware tools and image. The upgrade takes 3-5 minutes and may
require a reboot. Without --yes the command asks for confirmation and refuses to
run when no terminal is attached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.UpgradeFirmware(cmd.Context(), globals, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Upgrade without asking for confirmation")

	return cmd
}

// All returns the command that runs the full provisioning chain.
//
// Optional flags:
//
//	--include-llm: Append the LLM SDK install (default true)
func All() *cobra.Command {
	var includeLLM bool

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every provisioning step in order",
		Long: `Run device scan, repository registration, base dependencies, driver install
and verification, followed by the LLM SDK install unless --include-llm=false.
The first failing step stops the run. The firmware upgrade is never part of the
chain.

Examples:
  # Provision the local host
  furiosa-env all

  # Driver stack only, on a remote host
  furiosa-env all --include-llm=false --remote ubuntu@10.0.0.5 --ssh-key ~/.ssh/id_ed25519`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.All(cmd.Context(), globals, includeLLM)
		},
	}

	cmd.Flags().BoolVar(&includeLLM, "include-llm", true, "Also install the LLM compiler and SDK")

	return cmd
}
