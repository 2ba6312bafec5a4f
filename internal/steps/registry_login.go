package steps

import (
	"errors"
	"fmt"

	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
	"github.com/imamik/furiosa-env/internal/ui"
)

// HubClientRequirement is the Hugging Face hub client with its CLI.
const HubClientRequirement = "huggingface_hub[cli]"

// tokenLoginCommand reads the token from the environment so it never appears
// in a command line or a log.
const tokenLoginCommand = `huggingface-cli login --token "$HF_TOKEN"`

// LoginCommand plans the hub login. Without a token the CLI prompts on the
// operator's terminal. A rejected login is reported, not fatal.
func LoginCommand(token string) shell.CommandSpec {
	if token != "" {
		return shell.Unprivileged(tokenLoginCommand).WithEnv("HF_TOKEN", token).Tolerant()
	}
	spec := shell.Unprivileged("huggingface-cli login").Tolerant()
	spec.Interactive = true
	return spec
}

// RegistryLogin installs the Hugging Face hub client and logs in.
type RegistryLogin struct {
	Token string
}

// Name implements the provisioning.Step interface.
func (s *RegistryLogin) Name() string {
	return NameRegistryLogin
}

// Provision implements the provisioning.Step interface.
func (s *RegistryLogin) Provision(ctx *provisioning.Context) error {
	if err := NewInstaller(ctx).Install(ctx, "--upgrade", HubClientRequirement); err != nil {
		return fmt.Errorf("failed to install the hub client: %w", err)
	}

	token := s.Token
	if token == "" {
		v, err := ctx.Prompter.Secret(ctx, "Hugging Face token",
			"Create a token at huggingface.co/settings/tokens. Leave empty to log in with the hub CLI.")
		switch {
		case err == nil:
			token = v
		case !errors.Is(err, ui.ErrNotInteractive):
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		ctx.Reporter.Notice("No token given: huggingface-cli will prompt. Create a token in the browser and paste it.")
	}

	res, err := ctx.Run(LoginCommand(token))
	if err != nil {
		return fmt.Errorf("hub login failed: %w", err)
	}
	if !res.Succeeded {
		warn(ctx, fmt.Sprintf("Hugging Face login failed (exit code %d). Check the token and retry with: furiosa-env hf-login --token <token>", res.ExitCode))
		return nil
	}
	ctx.Reporter.Success("Logged in to the Hugging Face hub")
	return nil
}
