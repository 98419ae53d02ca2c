package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/resengine/internal/bundle"
	"github.com/opmodel/resengine/internal/cmdtypes"
	"github.com/opmodel/resengine/internal/output"
)

// NewVetCmd creates the vet command, which verifies a bundle's checksum
// and optionally diffs it against a previously built bundle.
func NewVetCmd(getCfg func() *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		diffAgainst string
		formatFlag  string
	)

	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Verify a bundle's integrity",
		Long: `Vet recomputes the configured bundle's checksum and fails if it does not
match the recorded one. With --diff, it also renders a dyff comparison
against another bundle's compiled collection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			format, ok := output.ParseFormat(formatFlag)
			if !ok {
				return fmt.Errorf("unrecognised vet format %q", formatFlag)
			}

			return runVet(cfg, diffAgainst, format)
		},
	}

	cmd.Flags().StringVar(&diffAgainst, "diff", "", "Path to a previously built bundle to diff against")
	cmd.Flags().StringVar(&formatFlag, "format", string(output.FormatTable), "Output format (table, json, yaml)")

	return cmd
}

func runVet(cfg *cmdtypes.GlobalConfig, diffAgainst string, format output.Format) error {
	b, err := readBundle(cfg.Config.BundlePath)
	if err != nil {
		return err
	}

	if err := bundle.Verify(b); err != nil {
		return err
	}
	output.Println(output.FormatCheckmark(fmt.Sprintf("bundle checksum verified (%s)", b.Metadata.Checksum)))

	if diffAgainst == "" {
		return nil
	}

	previous, err := readBundle(diffAgainst)
	if err != nil {
		return err
	}

	report, err := diffCompiledCollections(previous, b)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		output.Println(string(encoded))
	case output.FormatYAML:
		encoded, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		output.Println(string(encoded))
	default:
		output.Println(report)
	}

	return nil
}

// diffCompiledCollections renders a human-readable dyff report between two
// bundles' compiled collections, reusing the same YAML-document comparison
// dyff and ytbx perform on Kubernetes manifests: marshal each side to YAML,
// load it as a document set, and let dyff find the structural differences.
func diffCompiledCollections(previous, current *bundle.Bundle) (string, error) {
	previousYAML, err := yaml.Marshal(previous.CompiledCollection)
	if err != nil {
		return "", err
	}
	currentYAML, err := yaml.Marshal(current.CompiledCollection)
	if err != nil {
		return "", err
	}

	prevDocs, err := ytbx.LoadYAMLDocuments(previousYAML)
	if err != nil {
		return "", fmt.Errorf("parsing previous bundle: %w", err)
	}
	curDocs, err := ytbx.LoadYAMLDocuments(currentYAML)
	if err != nil {
		return "", fmt.Errorf("parsing current bundle: %w", err)
	}

	report, err := dyff.CompareInputFiles(
		ytbx.InputFile{Location: "previous", Documents: prevDocs},
		ytbx.InputFile{Location: "current", Documents: curDocs},
	)
	if err != nil {
		return "", fmt.Errorf("comparing bundles: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "no differences", nil
	}

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      true,
		OmitHeader:        true,
	}

	var buf bytes.Buffer
	if err := reportWriter.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return buf.String(), nil
}
