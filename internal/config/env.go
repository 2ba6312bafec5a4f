package config

import (
	"os"
	"strconv"
	"time"
)

// applyEnv overrides cfg from environment variables. Unset or unparseable
// variables leave the field unchanged.
//
// Environment Variables:
//   - FURIOSA_ENV_ELEVATION
//   - FURIOSA_ENV_PYTHON
//   - FURIOSA_ENV_METRICS_FILE
//   - FURIOSA_ENV_CODENAME
//   - FURIOSA_ENV_PIP_INDEX_URL
//   - FURIOSA_ENV_SERVE_MODEL
//   - FURIOSA_ENV_SERVE_PORT
//   - FURIOSA_ENV_MODEL_DIR
//   - FURIOSA_ENV_BACKUP_BUCKET
//   - FURIOSA_ENV_BACKUP_REGION
//   - FURIOSA_ENV_BACKUP_ENDPOINT
//   - FURIOSA_ENV_REMOTE
//   - FURIOSA_ENV_SSH_KEY
//   - FURIOSA_ENV_SSH_DIAL_TIMEOUT (e.g. 30s)
//   - FURIOSA_ENV_SSH_MAX_RETRIES
func applyEnv(cfg *Config) {
	cfg.Elevation = parseString("FURIOSA_ENV_ELEVATION", cfg.Elevation)
	cfg.Python = parseString("FURIOSA_ENV_PYTHON", cfg.Python)
	cfg.MetricsFile = parseString("FURIOSA_ENV_METRICS_FILE", cfg.MetricsFile)
	cfg.Repository.Codename = parseString("FURIOSA_ENV_CODENAME", cfg.Repository.Codename)
	cfg.Pip.IndexURL = parseString("FURIOSA_ENV_PIP_INDEX_URL", cfg.Pip.IndexURL)
	cfg.Serve.Model = parseString("FURIOSA_ENV_SERVE_MODEL", cfg.Serve.Model)
	cfg.Serve.Port = parseInt("FURIOSA_ENV_SERVE_PORT", cfg.Serve.Port)
	cfg.Model.Directory = parseString("FURIOSA_ENV_MODEL_DIR", cfg.Model.Directory)
	cfg.Backup.Bucket = parseString("FURIOSA_ENV_BACKUP_BUCKET", cfg.Backup.Bucket)
	cfg.Backup.Region = parseString("FURIOSA_ENV_BACKUP_REGION", cfg.Backup.Region)
	cfg.Backup.Endpoint = parseString("FURIOSA_ENV_BACKUP_ENDPOINT", cfg.Backup.Endpoint)
	cfg.Remote.Target = parseString("FURIOSA_ENV_REMOTE", cfg.Remote.Target)
	cfg.Remote.KeyPath = parseString("FURIOSA_ENV_SSH_KEY", cfg.Remote.KeyPath)
	cfg.Remote.DialTimeout = parseDuration("FURIOSA_ENV_SSH_DIAL_TIMEOUT", cfg.Remote.DialTimeout)
	cfg.Remote.MaxRetries = parseInt("FURIOSA_ENV_SSH_MAX_RETRIES", cfg.Remote.MaxRetries)
}

func parseString(envVar, current string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return current
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, current is returned.
func parseDuration(envVar string, current time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return current
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return current
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, current is returned.
func parseInt(envVar string, current int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return current
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return current
	}

	return i
}
