package rconfig

import (
	"os"

	"github.com/opmodel/resengine/internal/output"
)

// Source indicates where a resolved configuration value came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// ConfigPathResult is the resolved config file path and where it came from.
type ConfigPathResult struct {
	ConfigPath string
	Source     Source
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) RESENGINE_CONFIG env, (3) ~/.resengine/config.yaml.
func ResolveConfigPath(flagValue string) (ConfigPathResult, error) {
	if flagValue != "" {
		return ConfigPathResult{ConfigPath: flagValue, Source: SourceFlag}, nil
	}

	if env := os.Getenv("RESENGINE_CONFIG"); env != "" {
		return ConfigPathResult{ConfigPath: env, Source: SourceEnv}, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return ConfigPathResult{}, err
	}
	return ConfigPathResult{ConfigPath: paths.ConfigFile, Source: SourceDefault}, nil
}

// ResolvedValue tracks a configuration value alongside its resolution
// source, for logging with --verbose.
type ResolvedValue struct {
	Key    string
	Value  any
	Source Source
}

// LogResolvedValues logs each value's resolution at debug level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved", "key", v.Key, "value", v.Value, "source", v.Source)
	}
}
