package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/resengine/internal/bundle"
	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/cmdtypes"
	"github.com/opmodel/resengine/internal/declconfig"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/importer"
	"github.com/opmodel/resengine/internal/output"
	"github.com/opmodel/resengine/internal/rconfig"
	"github.com/opmodel/resengine/internal/restree"
)

// NewBuildCmd creates the build command, which imports a source directory
// into a resource tree, compiles it, and writes the result as a bundle.
func NewBuildCmd(getCfg func() *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sourceDir   string
		outPath     string
		formatFlag  string
		version     string
		description string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Build a bundle from a source directory",
		Long: `Build imports every file under the source directory (default ".") using
the path-encoded condition grammar, compiles the resulting resources, and
writes a self-describing bundle.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				sourceDir = args[0]
			}
			if sourceDir == "" {
				sourceDir = "."
			}

			cfg := getCfg()
			out := outPath
			if out == "" {
				out = cfg.Config.BundlePath
			}

			format, ok := output.ParseFormat(formatFlag)
			if !ok {
				return rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", formatFlag, "unrecognised build format")
			}

			runOnce := func() error {
				return runBuild(cfg, sourceDir, out, format, version, description)
			}

			if !watch {
				return output.RunWithSpinner(cmd.Context(), runOnce, output.WithTitle("building bundle"))
			}

			if err := runOnce(); err != nil {
				output.Error(err.Error())
			}
			return watchAndRebuild(cmd.Context(), sourceDir, runOnce)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Path to write the bundle (default: the configured bundle path)")
	cmd.Flags().StringVar(&formatFlag, "format", string(output.FormatJSON), "Bundle encoding (json, yaml, dir)")
	cmd.Flags().StringVar(&version, "bundle-version", "", "Version string recorded in the bundle's metadata")
	cmd.Flags().StringVar(&description, "description", "", "Description recorded in the bundle's metadata")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild whenever a file under source changes")

	return cmd
}

func runBuild(cfg *cmdtypes.GlobalConfig, sourceDir, outPath string, format output.Format, version, description string) error {
	qualifierTypes, qualifiers, err := declconfig.LoadQualifiers(cfg.Config.QualifiersPath)
	if err != nil {
		return err
	}
	resourceTypes, err := declconfig.LoadResourceTypes(cfg.Config.ResourceTypesPath)
	if err != nil {
		return err
	}

	imp := importer.New(os.DirFS(sourceDir), qualifiers)
	items, err := imp.Import()
	if err != nil {
		return err
	}

	decls, err := importer.ToResourceDecls(items)
	if err != nil {
		return err
	}

	b := builder.New(qualifierTypes, qualifiers, resourceTypes)
	for _, decl := range decls {
		if err := b.AddResource(decl); err != nil {
			return err
		}
	}

	mgr, err := b.Compile()
	if err != nil {
		return err
	}

	normaliser := normaliserFor(cfg.Config.HashNormaliser)
	bdl, err := bundle.Build(mgr, normaliser, version, description)
	if err != nil {
		return err
	}

	if err := writeBundle(bdl, outPath, format); err != nil {
		return err
	}

	output.Println(output.RenderResourceTable(resourceSummaries(mgr)))
	output.Info("build complete", "resources", b.NumResources(), "candidates", b.NumCandidates(), "checksum", bdl.Metadata.Checksum)
	return nil
}

func normaliserFor(name rconfig.HashNormaliser) bundle.HashNormaliser {
	if name == rconfig.HashMD5 {
		return bundle.MD5Normaliser{}
	}
	return bundle.CRC32Normaliser{}
}

func writeBundle(bdl *bundle.Bundle, outPath string, format output.Format) error {
	if format == output.FormatDir {
		return writeBundleDir(bdl, outPath)
	}

	var encoded []byte
	var err error
	switch format {
	case output.FormatYAML:
		encoded, err = yaml.Marshal(bdl)
	default:
		encoded, err = json.MarshalIndent(bdl, "", "  ")
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return rerrors.NewAt(rerrors.ErrNotFound, "NotFound", dir, err.Error())
		}
	}

	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return rerrors.NewAt(rerrors.ErrNotFound, "NotFound", outPath, err.Error())
	}
	return nil
}

// writeBundleDir splits a bundle into one file per resource under outPath,
// for callers who want to inspect or diff individual resources without
// parsing the whole bundle, plus a _metadata.json carrying the checksum and
// config every resource file was compiled against.
func writeBundleDir(bdl *bundle.Bundle, outPath string) error {
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return rerrors.NewAt(rerrors.ErrNotFound, "NotFound", outPath, err.Error())
	}

	meta := struct {
		Metadata bundle.Metadata `json:"metadata"`
		Config   bundle.Config   `json:"config"`
	}{bdl.Metadata, bdl.Config}
	encodedMeta, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outPath, "_metadata.json"), encodedMeta, 0o644); err != nil {
		return rerrors.NewAt(rerrors.ErrNotFound, "NotFound", outPath, err.Error())
	}

	for _, res := range bdl.CompiledCollection.Resources {
		encoded, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(res.ID, ".", "_") + ".json"
		if err := os.WriteFile(filepath.Join(outPath, name), encoded, 0o644); err != nil {
			return rerrors.NewAt(rerrors.ErrNotFound, "NotFound", outPath, err.Error())
		}
	}
	return nil
}

func resourceSummaries(mgr *builder.ResourceManager) []output.ResourceSummary {
	var summaries []output.ResourceSummary
	mgr.Tree.Walk(func(id string, res *restree.Resource) {
		name := "unknown"
		if rt, ok := mgr.ResourceTypes.ByHandle(res.ResourceType); ok {
			name = rt.Name()
		}
		summaries = append(summaries, output.ResourceSummary{
			ID:           id,
			ResourceType: name,
			Candidates:   len(res.Candidates),
			Status:       output.StatusCreated,
		})
	})
	return summaries
}

func watchAndRebuild(ctx context.Context, sourceDir string, rebuild func() error) error {
	watcher, err := newDirWatcher(sourceDir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	output.Info("watching for changes", "source", sourceDir)
	return watcher.Run(ctx, func() {
		if err := rebuild(); err != nil {
			output.Error(err.Error())
		}
	})
}
