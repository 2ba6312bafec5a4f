package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceScan_LspciPresent(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()

	require.NoError(t, (&DeviceScan{}).Provision(h.ctx))

	assert.Equal(t, []string{DeviceScanCommand}, h.runner.Commands())
	assert.Equal(t, []string{"FuriosaAI device detected"}, h.reporter.Successes)
}

func TestDeviceScan_InstallsLspci(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.prober.SetCommand("lspci", false)

	require.NoError(t, (&DeviceScan{}).Provision(h.ctx))

	assert.Equal(t, []string{
		"apt-get update",
		"apt-get install -y pciutils",
		"update-pciids",
		DeviceScanCommand,
	}, h.runner.Commands())
}

func TestDeviceScan_FailedInstallSkipsPCIIDs(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.prober.SetCommand("lspci", false)
	h.runner.Respond("apt-get install -y pciutils", 100)

	require.NoError(t, (&DeviceScan{}).Provision(h.ctx))

	assert.False(t, h.runner.Ran("update-pciids"))
	assert.True(t, h.reporter.WarningContaining("pciutils"))
	assert.True(t, h.runner.Ran(DeviceScanCommand))
}

func TestDeviceScan_NoDeviceIsNotFatal(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.runner.Respond("lspci -nn", 1)

	require.NoError(t, (&DeviceScan{}).Provision(h.ctx))

	assert.True(t, h.reporter.WarningContaining("No FuriosaAI device found"))
	assert.Empty(t, h.reporter.Successes)
}
