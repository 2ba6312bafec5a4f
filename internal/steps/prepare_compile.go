package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/artifacts"
	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// InspectCommand runs the inspection driver on modelDir with hub access
// disabled.
func InspectCommand(python, modelDir string) shell.CommandSpec {
	return shell.Unprivileged(shell.Join(python, artifacts.InspectorPath(), modelDir)).
		WithEnv("HF_HUB_OFFLINE", "1").
		WithEnv("TRANSFORMERS_OFFLINE", "1")
}

// PrepareCompile checks that the downloaded model loads before a compile:
// tokenizer, model configuration and a test tokenization.
type PrepareCompile struct{}

// Name implements the provisioning.Step interface.
func (s *PrepareCompile) Name() string {
	return NamePrepareCompile
}

// Provision implements the provisioning.Step interface.
func (s *PrepareCompile) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	modelDir := cfg.Model.Directory

	if !ctx.Prober.PathExists(ctx, modelDir) {
		return s.modelMissing(modelDir, nil)
	}
	if _, ok := ctx.Prober.ModuleVersion(ctx, "transformers"); !ok {
		return s.importUnavailable(cfg.Python, nil)
	}

	if _, err := ctx.Run(shell.Unprivileged(artifacts.WriteFileCommand(artifacts.InspectorPath(), artifacts.InspectorScript))); err != nil {
		return fmt.Errorf("failed to stage model inspector: %w", err)
	}

	ctx.Reporter.Section("Model inspection")
	if _, err := ctx.Run(InspectCommand(cfg.Python, modelDir)); err != nil {
		return s.inspectFailed(cfg.Python, modelDir, err)
	}

	ctx.Reporter.Success("Model at " + modelDir + " is ready to compile")
	ctx.Reporter.Line("Output directory: %s", cfg.Compile.OutputDirectory)
	ctx.Reporter.Line("Next: furiosa-env compile")
	return nil
}

func (s *PrepareCompile) modelMissing(modelDir string, err error) error {
	cause := fmt.Errorf("original model not found at %s", modelDir)
	if err != nil {
		cause = fmt.Errorf("%w: %w", cause, err)
	}
	return fault.New(fault.PreconditionUnmet, s.Name(), cause).WithRemedy("furiosa-env download-model")
}

func (s *PrepareCompile) importUnavailable(python string, err error) error {
	if err == nil {
		err = fmt.Errorf("transformers is not importable with %s", python)
	}
	return fault.New(fault.ImportUnavailable, s.Name(), err).WithRemedy("pip install transformers")
}

// inspectFailed classifies a driver failure by its exit code.
func (s *PrepareCompile) inspectFailed(python, modelDir string, err error) error {
	if fe, ok := fault.As(err); ok && fe.Kind == fault.CommandFailed {
		switch fe.ExitCode {
		case artifacts.BuilderExitImportUnavailable:
			return s.importUnavailable(python, err)
		case artifacts.BuilderExitModelMissing:
			return s.modelMissing(modelDir, err)
		}
	}
	return fmt.Errorf("model inspection failed: %w", err)
}
