package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("FURIOSA_ENV_ELEVATION", "none")
	t.Setenv("FURIOSA_ENV_CODENAME", "bookworm")
	t.Setenv("FURIOSA_ENV_SERVE_PORT", "8080")
	t.Setenv("FURIOSA_ENV_SSH_DIAL_TIMEOUT", "1m")
	t.Setenv("FURIOSA_ENV_BACKUP_BUCKET", "artifacts")

	cfg, err := LoadFile(writeConfig(t, "elevation: root\nserve:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Elevation, "env wins over file")
	assert.Equal(t, "bookworm", cfg.Repository.Codename)
	assert.Equal(t, 8080, cfg.Serve.Port)
	assert.Equal(t, time.Minute, cfg.Remote.DialTimeout)
	assert.Equal(t, "artifacts", cfg.Backup.Bucket)
}

func TestApplyEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("FURIOSA_ENV_SERVE_PORT", "eighty")
	t.Setenv("FURIOSA_ENV_SSH_DIAL_TIMEOUT", "soon")

	cfg, err := LoadFile(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, DefaultServePort, cfg.Serve.Port)
	assert.Equal(t, 10*time.Second, cfg.Remote.DialTimeout)
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("FURIOSA_ENV_TEST_INT", "42")
	t.Setenv("FURIOSA_ENV_TEST_DURATION", "5m")
	t.Setenv("FURIOSA_ENV_TEST_STRING", "value")

	assert.Equal(t, 42, parseInt("FURIOSA_ENV_TEST_INT", 1))
	assert.Equal(t, 1, parseInt("FURIOSA_ENV_TEST_UNSET", 1))
	assert.Equal(t, 5*time.Minute, parseDuration("FURIOSA_ENV_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, parseDuration("FURIOSA_ENV_TEST_UNSET", time.Second))
	assert.Equal(t, "value", parseString("FURIOSA_ENV_TEST_STRING", "current"))
	assert.Equal(t, "current", parseString("FURIOSA_ENV_TEST_UNSET", "current"))
}
