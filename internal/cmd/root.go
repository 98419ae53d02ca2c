// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/resengine/internal/cmdtypes"
	"github.com/opmodel/resengine/internal/output"
	"github.com/opmodel/resengine/internal/rconfig"
)

var (
	// Global flags.
	configFlag            string
	verboseFlag           bool
	qualifiersPathFlag    string
	resourceTypesPathFlag string
	bundlePathFlag        string
	hashNormaliserFlag    string

	// globalConfig is populated once in PersistentPreRunE and handed to
	// every subcommand constructor.
	globalConfig *cmdtypes.GlobalConfig
)

// NewRootCmd creates the root command for the resengine CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "resengine",
		Short:         "Context-aware resource resolution engine",
		Long:          `resengine builds, resolves, and verifies bundles of context-qualified resources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: RESENGINE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&qualifiersPathFlag, "qualifiers", "", "Path to the qualifier declarations file")
	rootCmd.PersistentFlags().StringVar(&resourceTypesPathFlag, "resourcetypes", "", "Path to the resource type declarations file")
	rootCmd.PersistentFlags().StringVar(&bundlePathFlag, "bundle", "", "Path to the bundle file")
	rootCmd.PersistentFlags().StringVar(&hashNormaliserFlag, "hash", "", `Bundle checksum normaliser ("crc32" or "md5")`)

	rootCmd.AddCommand(NewBuildCmd(getGlobalConfig))
	rootCmd.AddCommand(NewResolveCmd(getGlobalConfig))
	rootCmd.AddCommand(NewVetCmd(getGlobalConfig))
	rootCmd.AddCommand(NewVersionCmd(nil))

	return rootCmd
}

func initializeGlobals() error {
	cfg, err := rconfig.Load(rconfig.LoaderOptions{
		ConfigFlag:            configFlag,
		QualifiersPathFlag:    qualifiersPathFlag,
		ResourceTypesPathFlag: resourceTypesPathFlag,
		BundlePathFlag:        bundlePathFlag,
		HashNormaliserFlag:    hashNormaliserFlag,
		VerboseFlag:           verboseFlag,
	})
	if err != nil {
		return err
	}

	globalConfig = &cmdtypes.GlobalConfig{Config: cfg, Verbose: cfg.Verbose}

	output.SetupLogging(output.LogConfig{Verbose: globalConfig.Verbose})

	if globalConfig.Verbose {
		output.Debug("initializing CLI",
			"qualifiers", cfg.QualifiersPath,
			"resourcetypes", cfg.ResourceTypesPath,
			"bundle", cfg.BundlePath,
		)
	}

	return nil
}

// getGlobalConfig returns the configuration resolved in PersistentPreRunE.
// Subcommand constructors take this as a func rather than the value
// itself so a command can be built before PersistentPreRunE has run (e.g.
// in tests that call RunE directly).
func getGlobalConfig() *cmdtypes.GlobalConfig {
	return globalConfig
}
