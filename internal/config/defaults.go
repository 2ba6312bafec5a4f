package config

import "time"

const (
	DefaultRepositoryURL = "http://asia-northeast3-apt.pkg.dev/projects/furiosa-ai"
	DefaultComponent     = "main"
	DefaultKeyURL        = "https://packages.cloud.google.com/apt/doc/apt-key.gpg"
	DefaultKeyring       = "/etc/apt/trusted.gpg.d/cloud.google.gpg"
	DefaultListPath      = "/etc/apt/sources.list.d/furiosa.list"

	DefaultServeModel   = "furiosa-ai/Llama-3.1-8B-Instruct-FP8"
	DefaultServeDevices = "npu:0"
	DefaultServeHost    = "0.0.0.0"
	DefaultServePort    = 8000

	DefaultModelRepo = "meta-llama/Llama-3.1-8B-Instruct"
)

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Compile.BlockwiseCompile = true
	cfg.Compile.KVCache = true
	return cfg
}

// applyDefaults fills every zero field. Booleans that default to true are
// handled by the loader, where an explicit false can be told apart.
func (c *Config) applyDefaults() {
	setString(&c.Elevation, "sudo")
	setString(&c.Python, "python3")

	setString(&c.Repository.URL, DefaultRepositoryURL)
	setString(&c.Repository.Component, DefaultComponent)
	setString(&c.Repository.KeyURL, DefaultKeyURL)
	setString(&c.Repository.Keyring, DefaultKeyring)
	setString(&c.Repository.ListPath, DefaultListPath)

	setString(&c.Serve.Model, DefaultServeModel)
	setString(&c.Serve.Devices, DefaultServeDevices)
	setString(&c.Serve.Host, DefaultServeHost)
	setInt(&c.Serve.Port, DefaultServePort)

	setString(&c.Examples.Directory, "examples")

	setString(&c.Model.Repo, DefaultModelRepo)
	setString(&c.Model.Directory, "./models/Llama-3.1-8B-Instruct-original")
	setString(&c.Model.LegacyDirectory, "./models/Llama-3.1-8B-Instruct")

	setString(&c.Compile.ConfigOutput, "./compiled_models/llama-3.1-8b-furiosa")
	setInt(&c.Compile.BatchSize, 1)
	setInt(&c.Compile.MaxSeqLength, 2048)
	setString(&c.Compile.Precision, "fp16")
	setString(&c.Compile.Target, "warboy")
	setString(&c.Compile.QuantizationMethod, "dynamic")
	setString(&c.Compile.OutputDirectory, "./Output-Llama-3.1-8B-Instruct")
	setString(&c.Compile.ArtifactName, "Llama-3.1-8B-Instruct-FuriosaAI")
	setInt(&c.Compile.TensorParallelSize, 8)
	setInt(&c.Compile.MaxSeqLenToCapture, 32*1024)
	setInt(&c.Compile.PrefillChunkSize, 8*1024)
	setInt(&c.Compile.PipelineWorkers, 8)

	if c.Remote.DialTimeout == 0 {
		c.Remote.DialTimeout = 10 * time.Second
	}
	setInt(&c.Remote.MaxRetries, 30)
}

func setString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}
