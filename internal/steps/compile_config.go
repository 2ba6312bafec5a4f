package steps

import (
	"fmt"
	"path"

	"github.com/imamik/furiosa-env/internal/artifacts"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// WriteCompileConfig writes compile_config.json for the downloaded model.
type WriteCompileConfig struct{}

// Name implements the provisioning.Step interface.
func (s *WriteCompileConfig) Name() string {
	return NameWriteCompileConfig
}

// Provision implements the provisioning.Step interface.
func (s *WriteCompileConfig) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Compile
	modelDir := ctx.Config.Model.Directory

	var (
		file string
		cc   artifacts.CompileConfig
	)
	if ctx.Options.Remote {
		// Paths stay relative to the remote working directory.
		cc = artifacts.NewCompileConfig(cfg, modelDir, cfg.ConfigOutput)
		data, err := cc.Marshal()
		if err != nil {
			return err
		}
		file = path.Join(cfg.ConfigOutput, artifacts.CompileConfigFile)
		if _, err := ctx.Run(shell.Unprivileged(artifacts.WriteFileCommand(file, string(data)))); err != nil {
			return fmt.Errorf("failed to write compile config: %w", err)
		}
	} else {
		var err error
		if file, cc, err = artifacts.WriteCompileConfig(cfg, modelDir); err != nil {
			return fmt.Errorf("failed to write compile config: %w", err)
		}
	}

	ctx.Reporter.Success("Configuration saved to " + file)
	ctx.Reporter.Line("model_path: %s", cc.ModelPath)
	ctx.Reporter.Line("output_path: %s", cc.OutputPath)
	ctx.Reporter.Line("compilation: batch_size=%d max_seq_length=%d precision=%s target=%s",
		cc.Compilation.BatchSize, cc.Compilation.MaxSeqLength, cc.Compilation.Precision, cc.Compilation.Target)
	ctx.Reporter.Line("optimization: blockwise_compile=%t kv_cache=%t quantization=%t (%s)",
		cc.Optimization.BlockwiseCompile, cc.Optimization.KVCache,
		cc.Optimization.Quantization.Enabled, cc.Optimization.Quantization.Method)
	return nil
}
