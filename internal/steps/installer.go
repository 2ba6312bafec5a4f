package steps

import (
	"fmt"
	"strings"

	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// TorchRequirement is the torch release the SDK is built against.
const TorchRequirement = "torch==2.5.1"

// Installer installs Python packages with pip and falls back to uv.
type Installer struct {
	// Python is the interpreter whose pip module is tried first.
	Python string

	// IndexURL replaces the default package index for both installers.
	IndexURL string
}

// NewInstaller creates an installer for the context's interpreter. The run's
// index URL takes precedence over the configured one.
func NewInstaller(ctx *provisioning.Context) Installer {
	index := ctx.Options.IndexURL
	if index == "" {
		index = ctx.Config.Pip.IndexURL
	}
	return Installer{Python: ctx.Config.Python, IndexURL: index}
}

func (i Installer) args(args []string) []string {
	out := append([]string(nil), args...)
	if i.IndexURL != "" {
		out = append(out, "--index-url", i.IndexURL)
	}
	return out
}

// PipCommand plans the primary install. Its failure is tolerated so the
// fallback can run.
func (i Installer) PipCommand(args ...string) shell.CommandSpec {
	argv := append([]string{i.Python, "-m", "pip", "install"}, i.args(args)...)
	return shell.Unprivileged(shell.Join(argv...)).Tolerant()
}

// UVCommand plans the fallback install with the same arguments.
func (i Installer) UVCommand(args ...string) shell.CommandSpec {
	argv := append([]string{"uv", "pip", "install"}, i.args(args)...)
	return shell.Unprivileged(shell.Join(argv...))
}

// Install runs pip and, only if pip exits non-zero, uv with identical
// arguments. It fails only when both installers fail.
func (i Installer) Install(ctx *provisioning.Context, args ...string) error {
	res, err := ctx.Run(i.PipCommand(args...))
	if err != nil {
		return err
	}
	if res.Succeeded {
		return nil
	}

	ctx.Observer.Printf("[%s] pip exited with code %d, retrying with uv", ctx.Step(), res.ExitCode)
	if _, err := ctx.Run(i.UVCommand(args...)); err != nil {
		return fmt.Errorf("both installers failed for %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// EnsurePip makes the interpreter's pip module available: ensurepip first,
// then the distribution package. If both fail only uv is left, which Install
// still falls back to.
func (i Installer) EnsurePip(ctx *provisioning.Context) error {
	if _, ok := ctx.Prober.ModuleVersion(ctx, "pip"); ok {
		return nil
	}

	if _, err := ctx.Run(shell.Check(shell.Join(i.Python, "-m", "ensurepip", "--upgrade"))); err != nil {
		return err
	}
	if _, ok := ctx.Prober.ModuleVersion(ctx, "pip"); ok {
		return nil
	}

	warn(ctx, fmt.Sprintf("pip is not available for %s; installing python3-pip.", i.Python))
	for _, spec := range []shell.CommandSpec{aptUpdate().Tolerant(), aptInstall("python3-pip").Tolerant()} {
		res, err := ctx.Run(spec)
		if err != nil {
			return err
		}
		if !res.Succeeded {
			break
		}
	}
	if _, ok := ctx.Prober.ModuleVersion(ctx, "pip"); !ok {
		warn(ctx, "pip is still unavailable; packages will be installed with uv.")
	}
	return nil
}
