package config

import (
	"path/filepath"
	"time"
)

// Config is the complete operator configuration.
type Config struct {
	// Elevation is how privileged commands run: sudo, root or none.
	Elevation string `mapstructure:"elevation" yaml:"elevation"`

	// Python is the interpreter used for probing and package installs.
	Python string `mapstructure:"python" yaml:"python"`

	// MetricsFile, when set, receives step metrics in node-exporter
	// textfile format at the end of the run.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Pip        PipConfig        `mapstructure:"pip" yaml:"pip"`
	Serve      ServeConfig      `mapstructure:"serve" yaml:"serve"`
	Examples   ExamplesConfig   `mapstructure:"examples" yaml:"examples"`
	Model      ModelConfig      `mapstructure:"model" yaml:"model"`
	Compile    CompileConfig    `mapstructure:"compile" yaml:"compile"`
	Backup     BackupConfig     `mapstructure:"backup" yaml:"backup"`
	Remote     RemoteConfig     `mapstructure:"remote" yaml:"remote"`
}

// RepositoryConfig locates the vendor package repository.
type RepositoryConfig struct {
	URL       string `mapstructure:"url" yaml:"url"`
	Component string `mapstructure:"component" yaml:"component"`
	KeyURL    string `mapstructure:"key_url" yaml:"key_url"`
	Keyring   string `mapstructure:"keyring" yaml:"keyring"`
	ListPath  string `mapstructure:"list_path" yaml:"list_path"`

	// Codename overrides the distribution codename when the probe cannot
	// read it.
	Codename string `mapstructure:"codename" yaml:"codename"`
}

// PipConfig holds Python package installer settings.
type PipConfig struct {
	// IndexURL replaces the default package index for both installers.
	IndexURL string `mapstructure:"index_url" yaml:"index_url"`
}

// ServeConfig holds the defaults for the serve command.
type ServeConfig struct {
	Model   string `mapstructure:"model" yaml:"model"`
	Devices string `mapstructure:"devices" yaml:"devices"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

// ExamplesConfig holds the defaults for write-examples.
type ExamplesConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// ModelConfig locates the source model on the hub and on disk.
type ModelConfig struct {
	// Repo is the hub repository of the original weights.
	Repo string `mapstructure:"repo" yaml:"repo"`

	// Directory receives the downloaded weights and is the compile input.
	Directory string `mapstructure:"directory" yaml:"directory"`

	// LegacyDirectory is where an earlier layout kept a compiled artifact.
	// If it holds one, download-model moves it aside before downloading.
	LegacyDirectory string `mapstructure:"legacy_directory" yaml:"legacy_directory"`
}

// BackupDirectory is where a compiled artifact found in LegacyDirectory is
// moved.
func (m ModelConfig) BackupDirectory() string {
	return filepath.Clean(m.LegacyDirectory) + "-compiled-backup"
}

// CompileConfig drives write-compile-config and compile.
type CompileConfig struct {
	// ConfigOutput is the directory compile_config.json is written to.
	ConfigOutput string `mapstructure:"config_output" yaml:"config_output"`

	BatchSize          int    `mapstructure:"batch_size" yaml:"batch_size"`
	MaxSeqLength       int    `mapstructure:"max_seq_length" yaml:"max_seq_length"`
	Precision          string `mapstructure:"precision" yaml:"precision"`
	Target             string `mapstructure:"target" yaml:"target"`
	BlockwiseCompile   bool   `mapstructure:"blockwise_compile" yaml:"blockwise_compile"`
	KVCache            bool   `mapstructure:"kv_cache" yaml:"kv_cache"`
	Quantization       bool   `mapstructure:"quantization" yaml:"quantization"`
	QuantizationMethod string `mapstructure:"quantization_method" yaml:"quantization_method"`

	// Artifact builder parameters.
	OutputDirectory    string `mapstructure:"output_directory" yaml:"output_directory"`
	ArtifactName       string `mapstructure:"artifact_name" yaml:"artifact_name"`
	TensorParallelSize int    `mapstructure:"tensor_parallel_size" yaml:"tensor_parallel_size"`
	MaxSeqLenToCapture int    `mapstructure:"max_seq_len_to_capture" yaml:"max_seq_len_to_capture"`
	PrefillChunkSize   int    `mapstructure:"prefill_chunk_size" yaml:"prefill_chunk_size"`
	PipelineWorkers    int    `mapstructure:"pipeline_workers" yaml:"pipeline_workers"`
}

// BackupConfig is the object storage target for backup-artifact.
type BackupConfig struct {
	Bucket   string `mapstructure:"bucket" yaml:"bucket"`
	Region   string `mapstructure:"region" yaml:"region"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// RemoteConfig selects a remote host to provision over SSH.
type RemoteConfig struct {
	// Target is user@host[:port]. Empty provisions the local host.
	Target      string        `mapstructure:"target" yaml:"target"`
	KeyPath     string        `mapstructure:"key_path" yaml:"key_path"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
}
