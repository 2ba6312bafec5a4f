package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/imamik/furiosa-env/internal/shell"
)

// ValidPrecisions lists the compilation precisions the vendor compiler accepts.
var ValidPrecisions = map[string]bool{
	"fp16": true,
	"bf16": true,
	"int8": true,
}

// ValidQuantizationMethods lists the accepted quantization methods.
var ValidQuantizationMethods = map[string]bool{
	"static":  true,
	"dynamic": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if _, err := shell.ParseElevation(c.Elevation); err != nil {
		return err
	}
	if strings.TrimSpace(c.Python) == "" {
		return fmt.Errorf("python is required")
	}

	if err := c.validateRepository(); err != nil {
		return fmt.Errorf("repository validation failed: %w", err)
	}

	if c.Pip.IndexURL != "" {
		if err := validateURL(c.Pip.IndexURL); err != nil {
			return fmt.Errorf("pip.index_url: %w", err)
		}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d is out of range 1-65535", c.Serve.Port)
	}

	if err := c.validateCompile(); err != nil {
		return fmt.Errorf("compile validation failed: %w", err)
	}

	if c.Backup.Endpoint != "" {
		if err := validateURL(c.Backup.Endpoint); err != nil {
			return fmt.Errorf("backup.endpoint: %w", err)
		}
	}

	if c.Remote.MaxRetries < 1 {
		return fmt.Errorf("remote.max_retries must be at least 1")
	}

	return nil
}

func (c *Config) validateRepository() error {
	if err := validateURL(c.Repository.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if err := validateURL(c.Repository.KeyURL); err != nil {
		return fmt.Errorf("key_url: %w", err)
	}
	if strings.ContainsAny(c.Repository.Component, " \t\n") {
		return fmt.Errorf("component %q must be a single word", c.Repository.Component)
	}
	if strings.ContainsAny(c.Repository.Codename, " \t\n") {
		return fmt.Errorf("codename %q must be a single word", c.Repository.Codename)
	}
	return nil
}

func (c *Config) validateCompile() error {
	cc := c.Compile
	if !ValidPrecisions[cc.Precision] {
		return fmt.Errorf("invalid precision %q", cc.Precision)
	}
	if !ValidQuantizationMethods[cc.QuantizationMethod] {
		return fmt.Errorf("invalid quantization method %q", cc.QuantizationMethod)
	}
	positive := map[string]int{
		"batch_size":             cc.BatchSize,
		"max_seq_length":         cc.MaxSeqLength,
		"tensor_parallel_size":   cc.TensorParallelSize,
		"max_seq_len_to_capture": cc.MaxSeqLenToCapture,
		"prefill_chunk_size":     cc.PrefillChunkSize,
		"pipeline_workers":       cc.PipelineWorkers,
	}
	for name, v := range positive {
		if v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
