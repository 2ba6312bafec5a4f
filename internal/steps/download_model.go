package steps

import (
	"fmt"
	"path"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// compiledMarker marks a directory holding a compiled artifact.
const compiledMarker = "artifact.json"

// BackupCommand moves a compiled model directory aside, replacing any
// earlier backup.
func BackupCommand(dir, backup string) shell.CommandSpec {
	return shell.Unprivileged(fmt.Sprintf("rm -rf %s && mv %s %s",
		shell.Quote(backup), shell.Quote(dir), shell.Quote(backup)))
}

// DownloadCommand fetches a hub snapshot into dir. The hub client resumes
// partial downloads.
func DownloadCommand(repo, dir string) shell.CommandSpec {
	return shell.Unprivileged(shell.Join("huggingface-cli", "download", repo, "--local-dir", dir))
}

// ListFilesCommand prints every file below dir with its size.
func ListFilesCommand(dir string) shell.CommandSpec {
	return shell.Check(fmt.Sprintf("find %s -type f -printf '  - %%P: %%s bytes\\n' | sort", shell.Quote(dir)))
}

// DownloadModel downloads the original model weights for compilation. A
// compiled artifact left in the legacy model directory is moved to the
// backup directory first.
type DownloadModel struct {
	Repo      string
	Directory string
}

// Name implements the provisioning.Step interface.
func (s *DownloadModel) Name() string {
	return NameDownloadModel
}

// Provision implements the provisioning.Step interface.
func (s *DownloadModel) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Model
	repo, dir := s.Repo, s.Directory
	if repo == "" {
		repo = cfg.Repo
	}
	if dir == "" {
		dir = cfg.Directory
	}

	if !ctx.Prober.HasCommand(ctx, "huggingface-cli") {
		return fault.Newf(fault.PreconditionUnmet, s.Name(), "huggingface-cli is not installed").
			WithRemedy("furiosa-env hf-login")
	}

	if ctx.Prober.PathExists(ctx, path.Join(cfg.LegacyDirectory, compiledMarker)) {
		backup := cfg.BackupDirectory()
		ctx.Reporter.Notice(fmt.Sprintf("Backing up compiled model to %s", backup))
		if _, err := ctx.Run(BackupCommand(cfg.LegacyDirectory, backup)); err != nil {
			return fmt.Errorf("failed to back up compiled model: %w", err)
		}
	}

	ctx.Reporter.Notice(fmt.Sprintf("Downloading %s into %s. This is the original model, not a compiled artifact; compile it before inference.", repo, dir))
	if err := ctx.RunAll(
		shell.Unprivileged("mkdir -p "+shell.Quote(dir)),
		DownloadCommand(repo, dir),
	); err != nil {
		return fmt.Errorf("failed to download %s: %w", repo, err)
	}

	ctx.Reporter.Success("Model downloaded to " + dir)
	ctx.Reporter.Section("Downloaded files")
	_, err := ctx.Run(ListFilesCommand(dir))
	return err
}
