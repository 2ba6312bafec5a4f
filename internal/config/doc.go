// Package config defines the operator configuration for furiosa-env.
//
// A [Config] is assembled in layers: built-in defaults, an optional YAML
// file (the --config flag, or furiosa-env/config.yaml under the XDG config
// directories), then FURIOSA_ENV_* environment variables. The result is
// validated once and is immutable for the rest of the run.
package config
