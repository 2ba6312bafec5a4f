package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/imamik/furiosa-env/internal/config"
)

// CompileConfigFile is the file name written into the compile output directory.
const CompileConfigFile = "compile_config.json"

// CompileConfig is the on-disk compilation configuration.
type CompileConfig struct {
	ModelPath    string       `json:"model_path"`
	OutputPath   string       `json:"output_path"`
	Compilation  Compilation  `json:"compilation"`
	Optimization Optimization `json:"optimization"`
}

// Compilation holds the target shape and precision.
type Compilation struct {
	BatchSize    int    `json:"batch_size"`
	MaxSeqLength int    `json:"max_seq_length"`
	Precision    string `json:"precision"`
	Target       string `json:"target"`
}

// Optimization toggles compiler passes.
type Optimization struct {
	BlockwiseCompile bool         `json:"blockwise_compile"`
	KVCache          bool         `json:"kv_cache"`
	Quantization     Quantization `json:"quantization"`
}

// Quantization selects whether and how weights are quantized.
type Quantization struct {
	Enabled bool   `json:"enabled"`
	Method  string `json:"method"`
}

// NewCompileConfig builds the configuration for compiling the model in
// modelPath into outputPath.
func NewCompileConfig(cfg config.CompileConfig, modelPath, outputPath string) CompileConfig {
	return CompileConfig{
		ModelPath:  modelPath,
		OutputPath: outputPath,
		Compilation: Compilation{
			BatchSize:    cfg.BatchSize,
			MaxSeqLength: cfg.MaxSeqLength,
			Precision:    cfg.Precision,
			Target:       cfg.Target,
		},
		Optimization: Optimization{
			BlockwiseCompile: cfg.BlockwiseCompile,
			KVCache:          cfg.KVCache,
			Quantization: Quantization{
				Enabled: cfg.Quantization,
				Method:  cfg.QuantizationMethod,
			},
		},
	}
}

// Marshal renders the configuration as two-space indented JSON.
func (c CompileConfig) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal compile config: %w", err)
	}
	return data, nil
}

// WriteCompileConfig writes compile_config.json into cfg.ConfigOutput. The
// model and output paths are made absolute so the file stays valid when read
// from another directory.
func WriteCompileConfig(cfg config.CompileConfig, modelDir string) (string, CompileConfig, error) {
	modelPath, err := filepath.Abs(modelDir)
	if err != nil {
		return "", CompileConfig{}, fmt.Errorf("failed to resolve model path: %w", err)
	}
	outputPath, err := filepath.Abs(cfg.ConfigOutput)
	if err != nil {
		return "", CompileConfig{}, fmt.Errorf("failed to resolve output path: %w", err)
	}

	cc := NewCompileConfig(cfg, modelPath, outputPath)
	data, err := cc.Marshal()
	if err != nil {
		return "", cc, err
	}

	path := filepath.Join(outputPath, CompileConfigFile)
	if err := WriteFile(path, data); err != nil {
		return "", cc, err
	}
	return path, cc, nil
}
