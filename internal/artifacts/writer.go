package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/furiosa-env/internal/shell"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrEmptyPath is returned when a write is requested without a destination.
var ErrEmptyPath = errors.New("output path is empty")

// WriteFile writes content to path, creating parent directories as needed.
// An existing file is overwritten.
func WriteFile(path string, content []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	path = filepath.Clean(path)

	dir := filepath.Dir(path)
	// #nosec G301 - generated scripts are meant to be readable by other users
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	// #nosec G306 - generated scripts are meant to be readable by other users
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// WriteFileCommand returns a shell command that writes content to path on
// whichever host runs it, creating the parent directory first.
func WriteFileCommand(path, content string) string {
	path = filepath.Clean(path)
	return fmt.Sprintf("mkdir -p %s && printf '%%s' %s > %s",
		shell.Quote(filepath.Dir(path)), shell.Quote(content), shell.Quote(path))
}
