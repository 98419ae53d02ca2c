package rconfig

import (
	"os"

	"github.com/spf13/viper"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/output"
)

// LoaderOptions carries the CLI flag values that take precedence over the
// config file and environment.
type LoaderOptions struct {
	ConfigFlag            string
	QualifiersPathFlag    string
	ResourceTypesPathFlag string
	BundlePathFlag        string
	HashNormaliserFlag    string
	VerboseFlag           bool
}

// Load resolves the engine's configuration using viper, with precedence
// flag > env (RESENGINE_*) > config file > built-in default.
func Load(opts LoaderOptions) (*Config, error) {
	pathResult, err := ResolveConfigPath(opts.ConfigFlag)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("RESENGINE")
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("qualifiersPath", def.QualifiersPath)
	v.SetDefault("resourceTypesPath", def.ResourceTypesPath)
	v.SetDefault("bundlePath", def.BundlePath)
	v.SetDefault("hashNormaliser", string(def.HashNormaliser))
	v.SetDefault("verbose", false)

	if _, err := os.Stat(pathResult.ConfigPath); err == nil {
		v.SetConfigFile(pathResult.ConfigPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidConfig", pathResult.ConfigPath, err.Error())
		}
		output.Debug("loaded config file", "path", pathResult.ConfigPath, "source", pathResult.Source)
	} else {
		output.Debug("no config file found, using defaults and environment", "path", pathResult.ConfigPath)
	}

	if opts.QualifiersPathFlag != "" {
		v.Set("qualifiersPath", opts.QualifiersPathFlag)
	}
	if opts.ResourceTypesPathFlag != "" {
		v.Set("resourceTypesPath", opts.ResourceTypesPathFlag)
	}
	if opts.BundlePathFlag != "" {
		v.Set("bundlePath", opts.BundlePathFlag)
	}
	if opts.HashNormaliserFlag != "" {
		v.Set("hashNormaliser", opts.HashNormaliserFlag)
	}
	if opts.VerboseFlag {
		v.Set("verbose", true)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidConfig", "config", err.Error())
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
