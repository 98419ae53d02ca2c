package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/bundle"
	"github.com/opmodel/resengine/internal/cmdtypes"
	"github.com/opmodel/resengine/internal/declconfig"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/output"
	"github.com/opmodel/resengine/internal/resolver"
)

// NewResolveCmd creates the resolve command, which resolves a single
// resource id against a context read from --context flags.
func NewResolveCmd(getCfg func() *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		contextFlags []string
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <resource-id>",
		Short: "Resolve a resource id against a context",
		Long: `Resolve loads the configured bundle, scores its candidates for the given
resource id against a context built from repeated --context key=value flags,
and prints the winning value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			ctx, err := parseContextFlags(contextFlags)
			if err != nil {
				return err
			}

			return runResolve(cfg, args[0], ctx, metricsAddr)
		},
	}

	cmd.Flags().StringArrayVar(&contextFlags, "context", nil, "Context qualifier in key=value form; repeatable")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics for this resolve on this address (e.g. :9090)")
	return cmd
}

func runResolve(cfg *cmdtypes.GlobalConfig, id string, ctx map[string]any, metricsAddr string) error {
	mgr, err := loadBundleManager(cfg, bundle.LoadOptions{})
	if err != nil {
		return err
	}

	res := resolver.New(mgr)
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		res = res.WithMetrics(resolver.NewMetrics(reg))
		serveMetrics(metricsAddr, reg)
	}

	result, err := res.Resolve(id, ctx)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		return output.WriteVerboseResolve(toVerboseResult(id, ctx, result), output.VerboseOptions{
			JSON:   false,
			Writer: os.Stdout,
		})
	}

	encoded, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		return err
	}
	output.Println(string(encoded))
	return nil
}

// serveMetrics starts a background HTTP server exposing reg on /metrics.
// A single resolve call only runs long enough to scrape once under a
// load test driving many resolves against the same process, so the
// server is never shut down; it dies with the command.
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			output.Warn("metrics server stopped", "error", err.Error())
		}
	}()
	output.Info("serving metrics", "addr", addr)
}

func toVerboseResult(id string, ctx map[string]any, result *resolver.Result) *output.VerboseResolveResult {
	flat := make(map[string]string, len(ctx))
	for k, v := range ctx {
		switch val := v.(type) {
		case string:
			flat[k] = val
		case []string:
			flat[k] = strings.Join(val, ",")
		}
	}

	contributions := make([]output.VerboseContribution, 0, len(result.Contributions))
	for _, c := range result.Contributions {
		contributions = append(contributions, output.VerboseContribution{
			ConditionSet: fmt.Sprintf("#%d", c.ConditionSet),
			Score:        c.Score,
			IsPartial:    c.IsPartial,
		})
	}

	return &output.VerboseResolveResult{
		ResourceID:    id,
		Context:       flat,
		Score:         result.Score,
		Contributions: contributions,
		Value:         result.Value,
	}
}

func parseContextFlags(flags []string) (map[string]any, error) {
	ctx := make(map[string]any, len(flags))
	for _, flag := range flags {
		eq := strings.IndexByte(flag, '=')
		if eq < 0 {
			return nil, rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", flag,
				"expected key=value")
		}
		key, value := flag[:eq], flag[eq+1:]
		if existing, ok := ctx[key]; ok {
			switch v := existing.(type) {
			case string:
				ctx[key] = []string{v, value}
			case []string:
				ctx[key] = append(v, value)
			}
			continue
		}
		ctx[key] = value
	}
	return ctx, nil
}

func loadBundleManager(cfg *cmdtypes.GlobalConfig, opts bundle.LoadOptions) (*builder.ResourceManager, error) {
	qualifierTypes, _, err := declconfig.LoadQualifiers(cfg.Config.QualifiersPath)
	if err != nil {
		return nil, err
	}
	resourceTypes, err := declconfig.LoadResourceTypes(cfg.Config.ResourceTypesPath)
	if err != nil {
		return nil, err
	}

	b, err := readBundle(cfg.Config.BundlePath)
	if err != nil {
		return nil, err
	}

	return bundle.Load(b, qualifierTypes, resourceTypes, opts)
}
