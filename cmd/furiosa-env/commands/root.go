// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/furiosa-env/cmd/furiosa-env/handlers"
)

// globals is bound to the persistent flags of the root command.
var globals handlers.Globals

// Root returns the root command for the furiosa-env CLI.
//
// Persistent flags apply to every subcommand:
//
//	--config: Path to the configuration file (default: XDG config dir)
//	--remote: Provision user@host[:port] over SSH instead of the local host
//	--ssh-key: Private key for --remote
//	--elevation: How privileged commands run: sudo, root or none
//	--metrics-file: Write step metrics in node-exporter textfile format
//	-v: Log verbosity
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "furiosa-env",
		Short:         "Provision FuriosaAI RNGD hosts: driver, firmware, runtime and LLM SDK",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "Path to configuration file")
	flags.StringVar(&globals.Remote, "remote", "", "Provision a remote host over SSH (user@host[:port])")
	flags.StringVar(&globals.SSHKey, "ssh-key", "", "Private key used with --remote")
	flags.StringVar(&globals.Elevation, "elevation", "", "How privileged commands run: sudo, root or none")
	flags.StringVar(&globals.MetricsFile, "metrics-file", "", "Write step metrics to this file in textfile format")
	flags.CountVarP(&globals.Verbosity, "verbose", "v", "Increase log verbosity")

	// Host setup
	cmd.AddCommand(CheckRequirements())
	cmd.AddCommand(CheckDevices())
	cmd.AddCommand(SetupApt())
	cmd.AddCommand(InstallPrereqs())
	cmd.AddCommand(InstallFuriosa())
	cmd.AddCommand(Verify())
	cmd.AddCommand(UpgradeFirmware())
	cmd.AddCommand(All())

	// LLM workflow
	cmd.AddCommand(InstallLLM())
	cmd.AddCommand(HFLogin())
	cmd.AddCommand(Serve())
	cmd.AddCommand(WriteExamples())
	cmd.AddCommand(DownloadModel())
	cmd.AddCommand(WriteCompileConfig())
	cmd.AddCommand(PrepareCompile())
	cmd.AddCommand(Compile())
	cmd.AddCommand(BackupArtifact())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
