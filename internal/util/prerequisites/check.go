// Package prerequisites checks that the tools provisioning relies on are on
// PATH, either on the machine running furiosa-env or on the provisioned host.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a command-line tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// Remedy is the command or URL that installs the tool.
	Remedy string
}

// Finder resolves commands on some host.
type Finder interface {
	HasCommand(ctx context.Context, name string) bool
}

// LocalFinder looks commands up on the machine running furiosa-env.
type LocalFinder struct{}

// HasCommand implements Finder with exec.LookPath.
func (LocalFinder) HasCommand(_ context.Context, name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// LocalTools returns the tools the local command runner needs. sudo is only
// required when privileged commands go through it.
func LocalTools(needsSudo bool) []Tool {
	return []Tool{
		{
			Name:        "bash",
			Required:    true,
			Description: "Runs every provisioning command",
			Remedy:      "apt-get install -y bash",
		},
		{
			Name:        "sudo",
			Required:    needsSudo,
			Description: "Elevates privileged commands",
			Remedy:      "run as root or pass --elevation root",
		},
	}
}

// HostTools returns the tools inspected on the provisioned host.
func HostTools() []Tool {
	return []Tool{
		{
			Name:        "apt-get",
			Required:    true,
			Description: "Installs driver, runtime and compiler packages",
			Remedy:      "use Ubuntu 22.04 or Debian bookworm",
		},
		{
			Name:        "dpkg",
			Required:    true,
			Description: "Reports the package architecture",
			Remedy:      "use Ubuntu 22.04 or Debian bookworm",
		},
		{
			Name:        "python3",
			Required:    false,
			Description: "Runs the LLM SDK installers",
			Remedy:      "apt-get install -y python3",
		},
		{
			Name:        "lspci",
			Required:    false,
			Description: "Scans for FuriosaAI devices",
			Remedy:      "furiosa-env check-devices",
		},
		{
			Name:        "curl",
			Required:    false,
			Description: "Fetches the repository signing key",
			Remedy:      "furiosa-env setup-apt",
		},
		{
			Name:        "uv",
			Required:    false,
			Description: "Fallback Python package installer",
			Remedy:      "https://docs.astral.sh/uv/getting-started/installation/",
		},
		{
			Name:        "furiosa-smi",
			Required:    false,
			Description: "Reports NPU device state",
			Remedy:      "furiosa-env install-furiosa",
		},
		{
			Name:        "furiosa-compiler",
			Required:    false,
			Description: "Compiles models for RNGD",
			Remedy:      "furiosa-env install-llm",
		},
		{
			Name:        "furiosa-llm",
			Required:    false,
			Description: "Serves models over an OpenAI-compatible API",
			Remedy:      "furiosa-env install-llm",
		},
		{
			Name:        "huggingface-cli",
			Required:    false,
			Description: "Logs in to and downloads from the Hugging Face hub",
			Remedy:      "furiosa-env hf-login",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Remedy))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available through finder.
func Check(ctx context.Context, finder Finder, tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool, Found: finder.HasCommand(ctx, tool.Name)}
		if !result.Found {
			results.Missing = append(results.Missing, tool)
		}
		results.Results = append(results.Results, result)
	}

	return results
}

// CheckLocal checks the tools the local runner needs.
func CheckLocal(ctx context.Context, needsSudo bool) *CheckResults {
	return Check(ctx, LocalFinder{}, LocalTools(needsSudo))
}
