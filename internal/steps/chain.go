package steps

import "github.com/imamik/furiosa-env/internal/provisioning"

// Step names, as shown in logs and metrics.
const (
	NameCheckRequirements  = "check-requirements"
	NameDeviceScan         = "device-scan"
	NameRepoRegister       = "repo-register"
	NameBaseDeps           = "base-deps"
	NameDriverInstall      = "driver-install"
	NameVerify             = "verify"
	NameFirmwareUpgrade    = "firmware-upgrade"
	NameSDKInstall         = "sdk-install"
	NameRegistryLogin      = "registry-login"
	NameServe              = "serve"
	NameWriteExamples      = "write-examples"
	NameDownloadModel      = "download-model"
	NameWriteCompileConfig = "write-compile-config"
	NamePrepareCompile     = "prepare-compile"
	NameCompile            = "compile"
)

// Chain returns the full provisioning sequence: device scan, repository
// registration, base dependencies, driver install and verification, followed
// by the SDK install when opts.IncludeLLM is set.
func Chain(opts provisioning.Options) []provisioning.Step {
	chain := []provisioning.Step{
		&DeviceScan{},
		&RepoRegister{},
		&BaseDeps{},
		&DriverInstall{},
		&Verify{},
	}
	if opts.IncludeLLM {
		chain = append(chain, &SDKInstall{})
	}
	return chain
}
