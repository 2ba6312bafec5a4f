package steps

import (
	"strings"

	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// Package sets installed from the vendor repository.
var (
	DriverPackages   = []string{"furiosa-driver-rngd", "furiosa-pert-rngd", "furiosa-smi"}
	FirmwarePackages = []string{"furiosa-firmware-tools-rngd", "furiosa-firmware-image-rngd"}
	CompilerPackages = []string{"furiosa-compiler", "furiosa-compiler-dev"}
)

// aptUpdate refreshes the package index.
func aptUpdate() shell.CommandSpec {
	return shell.Privileged("apt-get update").WithEnv("DEBIAN_FRONTEND", "noninteractive")
}

// aptInstall installs packages. Names are fixed strings owned by this package;
// some of them expand $(uname -r) on the host, so they are not quoted.
func aptInstall(packages ...string) shell.CommandSpec {
	return shell.Privileged("apt-get install -y "+strings.Join(packages, " ")).
		WithEnv("DEBIAN_FRONTEND", "noninteractive")
}

func privilegeNotice(ctx *provisioning.Context) {
	ctx.Reporter.Notice("Some steps need administrator privileges (sudo).")
}

// warn reports a non-fatal problem to the operator and the log.
func warn(ctx *provisioning.Context, msg string) {
	ctx.Reporter.Warning(msg)
	provisioning.LogStepWarning(ctx.Observer, ctx.Step(), msg)
}

// logProblems records facts the probe could not read.
func logProblems(ctx *provisioning.Context, problems []error) {
	for _, p := range problems {
		provisioning.LogStepWarning(ctx.Observer, ctx.Step(), p.Error())
	}
}
