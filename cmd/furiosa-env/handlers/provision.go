package handlers

import (
	"context"

	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/steps"
)

// CheckRequirements prints the host requirements and the probe summary.
func CheckRequirements(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.CheckRequirements{})
}

// CheckDevices scans the PCI bus for FuriosaAI devices.
func CheckDevices(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.DeviceScan{})
}

// SetupApt registers the vendor package repository and its signing key.
func SetupApt(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.RepoRegister{})
}

// InstallPrereqs installs build tools and, on bare metal, kernel headers.
func InstallPrereqs(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.BaseDeps{})
}

// InstallFuriosa installs the NPU driver, runtime and management tools.
func InstallFuriosa(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.DriverInstall{})
}

// Verify reports the device state through the management tool.
func Verify(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.Verify{})
}

// UpgradeFirmware installs the firmware packages after confirmation. yes
// skips the prompt.
func UpgradeFirmware(ctx context.Context, g Globals, yes bool) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.FirmwareUpgrade{Confirmed: yes})
}

// All runs the full provisioning chain and reminds the operator about the
// firmware upgrade, which the chain never performs.
func All(ctx context.Context, g Globals, includeLLM bool) error {
	opts := provisioning.Options{IncludeLLM: includeLLM}
	s, err := loadSession(ctx, g, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if err := provisioning.NewPipeline(steps.Chain(opts)...).Run(s.ctx); err != nil {
		return err
	}
	s.ctx.Reporter.Success("All steps complete!\nRun furiosa-env upgrade-firmware to bring the NPU firmware up to date if needed.")
	return nil
}

// InstallLLM installs the compiler and the LLM SDK.
func InstallLLM(ctx context.Context, g Globals, upgradeTorch bool, indexURL string) error {
	opts := provisioning.Options{UpgradeTorch: upgradeTorch, IndexURL: indexURL}
	return runSteps(ctx, g, opts, &steps.SDKInstall{})
}

// HFLogin installs the hub client and logs in. An empty token prompts for
// one.
func HFLogin(ctx context.Context, g Globals, token string) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.RegistryLogin{Token: token})
}

// ServeOptions overrides the configured serve defaults. Zero values keep
// the configuration.
type ServeOptions struct {
	Model   string
	Devices string
	Host    string
	Port    int
}

// Serve starts the OpenAI-compatible server in the foreground.
func Serve(ctx context.Context, g Globals, o ServeOptions) error {
	step := &steps.Serve{Model: o.Model, Devices: o.Devices, Host: o.Host, Port: o.Port}
	return runSteps(ctx, g, provisioning.Options{}, step)
}

// WriteExamples writes the two example inference scripts.
func WriteExamples(ctx context.Context, g Globals, directory string) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.WriteExamples{Directory: directory})
}

// DownloadModel fetches the original model weights from the hub.
func DownloadModel(ctx context.Context, g Globals, repo, directory string) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.DownloadModel{Repo: repo, Directory: directory})
}

// WriteCompileConfig writes compile_config.json.
func WriteCompileConfig(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.WriteCompileConfig{})
}

// PrepareCompile checks that the downloaded model loads before compiling.
func PrepareCompile(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.PrepareCompile{})
}

// Compile builds the RNGD artifact from the downloaded weights.
func Compile(ctx context.Context, g Globals) error {
	return runSteps(ctx, g, provisioning.Options{}, &steps.Compile{})
}
