package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/artifacts"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// WriteExamples writes the batch and streaming example scripts.
type WriteExamples struct {
	Directory string
}

// Name implements the provisioning.Step interface.
func (s *WriteExamples) Name() string {
	return NameWriteExamples
}

// Provision implements the provisioning.Step interface.
func (s *WriteExamples) Provision(ctx *provisioning.Context) error {
	dir := s.Directory
	if dir == "" {
		dir = ctx.Config.Examples.Directory
	}

	var paths []string
	if ctx.Options.Remote {
		for _, f := range artifacts.Examples(dir) {
			if _, err := ctx.Run(shell.Unprivileged(artifacts.WriteFileCommand(f.Path, string(f.Content)))); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.Path, err)
			}
			paths = append(paths, f.Path)
		}
	} else {
		var err error
		if paths, err = artifacts.WriteExamples(dir); err != nil {
			return fmt.Errorf("failed to write examples: %w", err)
		}
	}

	ctx.Reporter.Success("Examples written")
	for _, p := range paths {
		ctx.Reporter.Line("- %s", p)
	}
	ctx.Reporter.Line("Run: uv run python %s", paths[0])
	return nil
}
