// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/resengine/internal/cmdtypes"
	"github.com/opmodel/resengine/internal/output"
	"github.com/opmodel/resengine/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show resengine version information.

Displays the engine version, commit, and build date, the embedded CUE SDK
version, and whether a "cue" binary on PATH is compatible with it.`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()

	output.Println(fmt.Sprintf("resengine version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:    %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:     %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:        %s", info.GoVersion))
	output.Println(fmt.Sprintf("  CUE SDK:   %s", info.CUESDKVersion))

	cueInfo := version.DetectCUEBinary()
	if cueInfo.Found {
		output.Println(fmt.Sprintf("  cue binary: %s (%s)", cueInfo.Version, cueInfo.Message))
	} else {
		output.Println(fmt.Sprintf("  cue binary: %s", cueInfo.Message))
	}

	return nil
}
