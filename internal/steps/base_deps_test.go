package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/furiosa-env/internal/probe"
	testutil "github.com/imamik/furiosa-env/internal/testing"
)

func TestBaseDepsPackages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		virtualized bool
		expected    []string
	}{
		{
			name:     "bare metal",
			expected: []string{"build-essential", "linux-modules-extra-$(uname -r)", "linux-headers-$(uname -r)"},
		},
		{
			name:        "virtualized",
			virtualized: true,
			expected:    []string{"build-essential"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, BaseDepsPackages(tt.virtualized))
		})
	}
}

func TestBaseDeps_BareMetal(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()

	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))

	assert.Equal(t, []string{
		"apt-get update",
		"apt-get install -y build-essential linux-modules-extra-$(uname -r) linux-headers-$(uname -r)",
	}, h.runner.Commands())
	assert.Empty(t, h.reporter.Notices[1:], "no WSL notice on bare metal")
}

func TestBaseDeps_WSL(t *testing.T) {
	t.Parallel()
	h := newHarness(testutil.WSLFacts())

	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))

	assert.Equal(t, []string{"apt-get update", "apt-get install -y build-essential"}, h.runner.Commands())
	assert.False(t, h.runner.Ran("linux-headers"))
	assert.Contains(t, h.reporter.Output(), "WSL2 detected")
	assert.Empty(t, h.reporter.Warnings, "the WSL kernel is not checked against the driver minimum")
}

func TestBaseDeps_Idempotent(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()

	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))
	first := h.runner.Commands()
	h.runner.Reset()
	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))

	assert.Equal(t, first, h.runner.Commands())
}

func TestBaseDeps_OldKernelWarns(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.prober.Update(func(f *probe.Facts) { f.KernelRelease = "5.15.0-105-generic" })

	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))

	assert.True(t, h.reporter.WarningContaining("older than 6.3"))
	assert.True(t, h.runner.Ran("linux-headers"))
}

func TestBaseDeps_NonInteractiveApt(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()

	require.NoError(t, (&BaseDeps{}).Provision(h.ctx))

	for _, spec := range h.runner.Specs() {
		assert.True(t, spec.Privileged)
		assert.Equal(t, "noninteractive", spec.Env["DEBIAN_FRONTEND"])
	}
}

func TestBaseDeps_InstallFailureIsFatal(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.runner.Respond("apt-get install", 100)

	err := (&BaseDeps{}).Provision(h.ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install base dependencies")
}
