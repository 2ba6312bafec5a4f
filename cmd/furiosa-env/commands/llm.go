package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/furiosa-env/cmd/furiosa-env/handlers"
)

// InstallLLM returns the command that installs the compiler and LLM SDK.
//
// Optional flags:
//
//	--upgrade-torch: Install the pinned torch release first
//	--pip-index-url: Package index for both Python installers
func InstallLLM() *cobra.Command {
	var upgradeTorch bool
	var indexURL string

	cmd := &cobra.Command{
		Use:   "install-llm",
		Short: "Install furiosa-compiler and furiosa-llm",
		Long: `Install the compiler from the APT repository, then furiosa-llm into the
configured Python interpreter. pip is tried first and uv is the fallback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallLLM(cmd.Context(), globals, upgradeTorch, indexURL)
		},
	}

	cmd.Flags().BoolVar(&upgradeTorch, "upgrade-torch", false, "Install torch 2.5.1 before furiosa-llm")
	cmd.Flags().StringVar(&indexURL, "pip-index-url", "", "Python package index URL")

	return cmd
}

// HFLogin returns the command that logs in to the Hugging Face hub.
//
// Optional flags:
//
//	--token: Access token; prompted for when omitted
func HFLogin() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "hf-login",
		Short: "Install the Hugging Face CLI and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.HFLogin(cmd.Context(), globals, token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Hugging Face access token")

	return cmd
}

// Serve returns the command that launches the OpenAI-compatible server.
//
// Optional flags:
//
//	--devices: NPU devices to serve on (e.g. npu:0)
//	--host: Listen address
//	--port: Listen port
func Serve() *cobra.Command {
	var opts handlers.ServeOptions

	cmd := &cobra.Command{
		Use:   "serve [model]",
		Short: "Serve a compiled model with furiosa-llm",
		Long: `Run furiosa-llm serve in the foreground until it exits. The model and every
flag default to the serve section of the configuration.

Examples:
  furiosa-env serve furiosa-ai/Llama-3.1-8B-Instruct-FP8 --devices npu:0 --port 8000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Model = args[0]
			}
			return handlers.Serve(cmd.Context(), globals, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Devices, "devices", "", "NPU devices, e.g. npu:0")
	cmd.Flags().StringVar(&opts.Host, "host", "", "Listen address")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Listen port")

	return cmd
}

// WriteExamples returns the command that writes the example scripts.
//
// Optional flags:
//
//	--directory: Output directory
func WriteExamples() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "write-examples",
		Short: "Write offline batch and streaming inference examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.WriteExamples(cmd.Context(), globals, directory)
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory to write the examples to")

	return cmd
}

// DownloadModel returns the command that downloads the original weights.
//
// Optional flags:
//
//	--repo: Hub repository
//	--directory: Local directory for the weights
func DownloadModel() *cobra.Command {
	var repo, directory string

	cmd := &cobra.Command{
		Use:   "download-model",
		Short: "Download the original model weights from the Hugging Face hub",
		Long: `Download the original (uncompiled) weights for compilation. A compiled
artifact left in the legacy model directory is moved to <dir>-compiled-backup
first. Interrupted downloads resume.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DownloadModel(cmd.Context(), globals, repo, directory)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "Hub repository to download")
	cmd.Flags().StringVar(&directory, "directory", "", "Directory to download into")

	return cmd
}

// WriteCompileConfig returns the command that writes compile_config.json.
func WriteCompileConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "write-compile-config",
		Short: "Write compile_config.json from the compile settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.WriteCompileConfig(cmd.Context(), globals)
		},
	}
}

// PrepareCompile returns the command that inspects the downloaded model.
func PrepareCompile() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare-compile",
		Short: "Check that the downloaded model loads before compiling",
		Long: `Load the tokenizer and model configuration offline, print the architecture,
hidden size, layer and head counts, vocabulary size and maximum positions, and
run a test tokenization. Requires transformers in the configured interpreter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PrepareCompile(cmd.Context(), globals)
		},
	}
}

// Compile returns the command that builds the RNGD artifact.
func Compile() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the downloaded model into an RNGD artifact",
		Long: `Build an artifact with the furiosa-llm artifact builder, using the fixed
prefill and decode bucket table. The build runs offline against the weights
fetched by download-model and can take a long time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Compile(cmd.Context(), globals)
		},
	}
}

// BackupArtifact returns the command that uploads the compiled artifact.
func BackupArtifact() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-artifact",
		Short: "Upload the compiled artifact to S3-compatible storage",
		Long: `Upload every file of the compiled artifact directory to the configured
bucket under the configured prefix. Credentials come from AWS_ACCESS_KEY_ID and
AWS_SECRET_ACCESS_KEY or the shared AWS config. Local hosts only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BackupArtifact(cmd.Context(), globals)
		},
	}
}
