package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/furiosa-env/internal/artifacts"
)

func TestWriteExamples_Local(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	dir := filepath.Join(t.TempDir(), "examples")

	require.NoError(t, (&WriteExamples{Directory: dir}).Provision(h.ctx))
	first, err := os.ReadFile(filepath.Join(dir, artifacts.OfflineBatchFile))
	require.NoError(t, err)

	require.NoError(t, (&WriteExamples{Directory: dir}).Provision(h.ctx))
	second, err := os.ReadFile(filepath.Join(dir, artifacts.OfflineBatchFile))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, h.runner.Commands())
	assert.Contains(t, h.reporter.Lines, "Run: uv run python "+filepath.Join(dir, artifacts.OfflineBatchFile))
}

func TestWriteExamples_Remote(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.ctx.Options.Remote = true

	require.NoError(t, (&WriteExamples{}).Provision(h.ctx))

	cmds := h.runner.Commands()
	require.Len(t, cmds, 2)
	assert.Contains(t, cmds[0], "> examples/offline_batch.py")
	assert.Contains(t, cmds[1], "> examples/streaming_infer.py")
	for _, spec := range h.runner.Specs() {
		assert.False(t, spec.Privileged)
	}
}

func TestWriteExamples_Unwritable(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := (&WriteExamples{Directory: filepath.Join(blocker, "examples")}).Provision(h.ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write examples")
}
