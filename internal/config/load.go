package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path searched for under the XDG config
// directories when --config is not given.
const DefaultConfigFile = "furiosa-env/config.yaml"

// Load builds the configuration. An explicit path must exist; without one the
// XDG config directories are searched and a missing file is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if found, err := xdg.SearchConfigFile(DefaultConfigFile); err == nil {
		return LoadFile(found)
	}
	return fromRaw(map[string]interface{}{})
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]interface{}{}
	}

	return fromRaw(rawConfig)
}

func fromRaw(rawConfig map[string]interface{}) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnv(&cfg)
	cfg.applyDefaults()

	if !isExplicitlySet(rawConfig, "compile", "blockwise_compile") {
		cfg.Compile.BlockwiseCompile = true
	}
	if !isExplicitlySet(rawConfig, "compile", "kv_cache") {
		cfg.Compile.KVCache = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// isExplicitlySet reports whether section.key appears in the raw YAML, so a
// literal false can be told apart from an omitted field.
func isExplicitlySet(rawConfig map[string]interface{}, section, key string) bool {
	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		return false
	}
	_, set := sectionMap[key]
	return set
}

// ErrNoConfigFile is returned by Path when no config file exists.
var ErrNoConfigFile = errors.New("no config file found")

// Path returns the config file Load would read for an empty --config.
func Path() (string, error) {
	found, err := xdg.SearchConfigFile(DefaultConfigFile)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoConfigFile, err)
	}
	return found, nil
}
