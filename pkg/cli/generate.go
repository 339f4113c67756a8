package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/internal/capture"
	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/docblock"
	"github.com/johnnynv/RouteScribe/internal/generator"
	"github.com/johnnynv/RouteScribe/internal/postman"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/routes"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

// ManifestRouter is the --router value that reads routes from --manifest
const ManifestRouter = "manifest"

// GenerateOptions holds the flags of the generate command
type GenerateOptions struct {
	Output          string
	RoutePrefix     string
	Routes          []string
	Middleware      string
	NoResponseCalls bool
	NoPostman       bool
	UseMiddlewares  bool
	Router          string
	Force           bool
	Bindings        string
	Headers         []string
	SourceDir       string
	Manifest        string
	BaseURL         string
}

// Criteria returns the route selectors of the options
func (o GenerateOptions) Criteria() generator.Criteria {
	return generator.Criteria{
		Names:      o.Routes,
		Prefix:     o.RoutePrefix,
		Middleware: o.Middleware,
	}
}

var generateOpts GenerateOptions

// newLookup builds the doc comment lookup for a source root
var newLookup = func(dir string) (docblock.Lookup, error) {
	return docblock.NewIndex(dir)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate API documentation for the selected routes",
	Long: `Generate documentation for the routes selected by --routes, --route-prefix
or --middleware. Each selected route is stored in the api_docs table keyed by
its identifier and, unless --no-postman-collection is set, written to a
Postman collection in --output.`,
	Example: `  routescribe generate --route-prefix 'api/*'
  routescribe generate --routes users.index --routes users.show --force
  routescribe generate --middleware auth --bindings 'id,5|slug,hello' --header 'Authorization:Bearer x'
  routescribe generate --router manifest --manifest routes.yaml --base-url http://localhost:8000 --route-prefix '*'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := generateOpts

		// Selector check comes before anything touches config or storage
		if err := opts.Criteria().Validate(); err != nil {
			return err
		}

		configManager, err := loadConfig(configPath())
		if err != nil {
			return err
		}
		opts = applyGenerateDefaults(cmd, opts, configManager.Get())

		logs, err := newLoggerManager(configManager)
		if err != nil {
			return err
		}
		defer logs.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runGenerate(ctx, opts, configManager, logs, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVar(&generateOpts.Output, "output", "public/docs", "output directory for the Postman collection")
	f.StringVar(&generateOpts.RoutePrefix, "route-prefix", "", "URI pattern of the routes to document, '*' matches anything")
	f.StringArrayVar(&generateOpts.Routes, "routes", nil, "name of a route to document (repeatable)")
	f.StringVar(&generateOpts.Middleware, "middleware", "", "document the routes running this middleware")
	f.BoolVar(&generateOpts.NoResponseCalls, "no-response-calls", false, "do not call GET routes for a sample response")
	f.BoolVar(&generateOpts.NoPostman, "no-postman-collection", false, "do not write the Postman collection")
	f.BoolVar(&generateOpts.UseMiddlewares, "use-middlewares", false, "capture responses through the full router, middleware included")
	f.StringVar(&generateOpts.Router, "router", "mux", "route source: a registered router name or 'manifest'")
	f.BoolVar(&generateOpts.Force, "force", false, "overwrite stored responses of existing records")
	f.StringVar(&generateOpts.Bindings, "bindings", "", "route parameter values as 'name,value|name2,value2'")
	f.StringArrayVar(&generateOpts.Headers, "header", nil, "'Name:Value' header for response calls and the collection (repeatable)")
	f.StringVar(&generateOpts.SourceDir, "source-dir", ".", "root of the Go sources holding the handler doc comments")
	f.StringVar(&generateOpts.Manifest, "manifest", "", "route manifest file for --router manifest")
	f.StringVar(&generateOpts.BaseURL, "base-url", "", "base URL of the collection and of remote response calls (default app.base_url)")
}

// applyGenerateDefaults fills the options the user did not set on the
// command line from the generate section of the configuration
func applyGenerateDefaults(cmd *cobra.Command, opts GenerateOptions, cfg *types.Config) GenerateOptions {
	if cfg == nil {
		return opts
	}
	changed := func(name string) bool {
		return cmd != nil && cmd.Flags().Changed(name)
	}

	gen := cfg.Generate
	if !changed("output") && gen.Output != "" {
		opts.Output = gen.Output
	}
	if !changed("router") && gen.Router != "" {
		opts.Router = gen.Router
	}
	if !changed("source-dir") && gen.SourceDir != "" {
		opts.SourceDir = gen.SourceDir
	}
	if !changed("manifest") && gen.Manifest != "" {
		opts.Manifest = gen.Manifest
	}
	if !changed("use-middlewares") {
		opts.UseMiddlewares = opts.UseMiddlewares || gen.UseMiddlewares
	}
	if !changed("no-response-calls") && !gen.ResponseCallsEnabled() {
		opts.NoResponseCalls = true
	}
	if !changed("no-postman-collection") && !gen.PostmanEnabled() {
		opts.NoPostman = true
	}
	if opts.BaseURL == "" {
		opts.BaseURL = cfg.App.BaseURL
	}
	return opts
}

// runGenerate wires a generator from the options and runs it, printing the
// per-route lines and the summary to out
func runGenerate(ctx context.Context, opts GenerateOptions, configManager *config.Manager, logs *logger.Manager, out io.Writer) error {
	criteria := opts.Criteria()
	if err := criteria.Validate(); err != nil {
		return err
	}

	cfg := configManager.Get()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	headers, err := mergeHeaders(cfg.Capture.Headers, opts.Headers)
	if err != nil {
		return err
	}

	source, err := resolveSource(opts.Router, opts.Manifest)
	if err != nil {
		return err
	}

	lookup, err := newLookup(opts.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to index sources in %s: %w", opts.SourceDir, err)
	}

	store, err := storage.NewFactory().Create(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	console := generator.NewConsole(out)
	genCfg := generator.Config{
		Source:   source,
		Lookup:   lookup,
		Store:    store,
		Reporter: console,
		Logs:     logs,
		Bindings: capture.ParseBindings(opts.Bindings),
		Headers:  headers,
		Force:    opts.Force,
	}
	if !opts.NoResponseCalls {
		genCfg.Capturer = newCapturer(source, opts, cfg.Capture)
	}
	if !opts.NoPostman {
		genCfg.Exporter = postman.NewWriter(opts.Output, cfg.App.Name, opts.BaseURL, headers)
	}

	summary, err := generator.New(genCfg).Run(ctx, criteria, opts.Router)
	if summary != nil {
		console.Summary(summary)
	}
	return err
}

// resolveSource returns the registered source for router, or a manifest
// source when router is "manifest"
func resolveSource(router, manifest string) (routes.Source, error) {
	if router == ManifestRouter {
		if manifest == "" {
			return nil, fmt.Errorf("--manifest is required with --router %s", ManifestRouter)
		}
		return routes.NewManifestSource(manifest), nil
	}
	src, err := routes.Lookup(router)
	if err != nil {
		return nil, fmt.Errorf("%w; use --router %s --manifest <file> to read routes from a manifest", err, ManifestRouter)
	}
	return src, nil
}

// newCapturer captures in-process when the source can serve requests and
// over HTTP against the base URL otherwise
func newCapturer(source routes.Source, opts GenerateOptions, cfg types.CaptureConfig) capture.Capturer {
	if hs, ok := source.(routes.HandlerSource); ok {
		if opts.UseMiddlewares {
			return capture.NewInProcess(hs.Handler(), cfg.Timeout)
		}
		return capture.NewInProcess(nil, cfg.Timeout)
	}

	return capture.NewRemote(opts.BaseURL, cfg.Timeout,
		capture.WithRateLimiter(capture.NewTokenBucketLimiter(cfg.RequestsPerSecond, cfg.Burst)))
}

// mergeHeaders layers the --header values over the configured headers
func mergeHeaders(configured map[string]string, flags []string) (map[string]string, error) {
	parsed, err := capture.ParseHeaders(flags)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(configured)+len(parsed))
	for k, v := range configured {
		headers[k] = v
	}
	for k, v := range parsed {
		headers[k] = v
	}
	return headers, nil
}
