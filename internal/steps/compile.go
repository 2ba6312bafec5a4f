package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/artifacts"
	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// decodePreview is how many decode buckets are listed before compiling.
const decodePreview = 10

// BuildCommand runs the builder driver on the staged plan with hub access
// disabled.
func BuildCommand(python string) shell.CommandSpec {
	return shell.Unprivileged(shell.Join(python, artifacts.BuilderPath(), artifacts.BuildPlanPath())).
		WithEnv("HF_HUB_OFFLINE", "1").
		WithEnv("TRANSFORMERS_OFFLINE", "1")
}

// Compile builds an RNGD artifact from the downloaded model. The build plan
// and the driver are staged on the host that compiles, then the driver runs
// the SDK's artifact builder.
type Compile struct{}

// Name implements the provisioning.Step interface.
func (s *Compile) Name() string {
	return NameCompile
}

// Provision implements the provisioning.Step interface.
func (s *Compile) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	modelDir := cfg.Model.Directory

	// 1. Preconditions
	if !ctx.Prober.PathExists(ctx, modelDir) {
		if backup := cfg.Model.BackupDirectory(); ctx.Prober.PathExists(ctx, backup) {
			ctx.Reporter.Notice(fmt.Sprintf("A compiled model is backed up at %s; it can be used for inference without recompiling.", backup))
		}
		return fault.Newf(fault.PreconditionUnmet, s.Name(), "original model not found at %s", modelDir).
			WithRemedy("furiosa-env download-model")
	}
	if _, ok := ctx.Prober.ModuleVersion(ctx, "furiosa_llm"); !ok {
		return s.importUnavailable(cfg.Python, nil)
	}

	// 2. Stage the plan and the driver
	plan := artifacts.NewBuildPlan(cfg.Compile, modelDir)
	data, err := plan.Marshal()
	if err != nil {
		return err
	}
	s.report(ctx, plan)

	if err := ctx.RunAll(
		shell.Unprivileged(artifacts.WriteFileCommand(artifacts.BuildPlanPath(), string(data))),
		shell.Unprivileged(artifacts.WriteFileCommand(artifacts.BuilderPath(), artifacts.BuilderScript)),
	); err != nil {
		return fmt.Errorf("failed to stage build files: %w", err)
	}

	// 3. Build
	ctx.Reporter.Notice("Compilation can take hours. Progress is shown below.")
	if _, err := ctx.Run(BuildCommand(cfg.Python)); err != nil {
		return s.buildFailed(cfg.Python, modelDir, err)
	}

	ctx.Reporter.Success("Compiled artifacts saved to " + plan.OutputDirectory)
	ctx.Reporter.Section("Generated files")
	if _, err := ctx.Run(ListFilesCommand(plan.OutputDirectory)); err != nil {
		return err
	}
	ctx.Reporter.Line("The model is ready for inference on RNGD.")
	return nil
}

func (s *Compile) report(ctx *provisioning.Context, plan artifacts.BuildPlan) {
	ctx.Reporter.Section("Compilation")
	ctx.Reporter.Line("Model: %s", plan.ModelPath)
	ctx.Reporter.Line("Tensor parallel size: %d", plan.TensorParallelSize)
	ctx.Reporter.Line("Max sequence length: %d tokens", plan.MaxSeqLenToCapture)
	ctx.Reporter.Line("Prefill chunk size: %d tokens", plan.PrefillChunkSize)
	ctx.Reporter.Line("Output directory: %s", plan.OutputDirectory)

	ctx.Reporter.Line("Prefill buckets (batch, seq_len): %d", len(plan.PrefillBuckets))
	for i, b := range plan.PrefillBuckets {
		ctx.Reporter.Line("  %d. %s", i+1, b)
	}
	ctx.Reporter.Line("Decode buckets (batch, kv_cache_len): %d", len(plan.DecodeBuckets))
	for i, b := range plan.DecodeBuckets {
		if i == decodePreview {
			ctx.Reporter.Line("  ... and %d more", len(plan.DecodeBuckets)-decodePreview)
			break
		}
		ctx.Reporter.Line("  %d. %s", i+1, b)
	}
}

func (s *Compile) importUnavailable(python string, err error) error {
	if err == nil {
		err = fmt.Errorf("furiosa_llm is not importable with %s", python)
	}
	return fault.New(fault.ImportUnavailable, s.Name(), err).WithRemedy("pip install furiosa-llm")
}

// buildFailed classifies a driver failure by its exit code.
func (s *Compile) buildFailed(python, modelDir string, err error) error {
	fe, ok := fault.As(err)
	if !ok || fe.Kind != fault.CommandFailed {
		return fmt.Errorf("artifact build failed: %w", err)
	}
	switch fe.ExitCode {
	case artifacts.BuilderExitImportUnavailable:
		return s.importUnavailable(python, err)
	case artifacts.BuilderExitModelMissing:
		return fault.New(fault.PreconditionUnmet, s.Name(), fmt.Errorf("original model not found at %s: %w", modelDir, err)).
			WithRemedy("furiosa-env download-model")
	}
	return fmt.Errorf("artifact build failed: %w", err)
}
