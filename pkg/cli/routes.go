package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/internal/generator"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// RoutesOptions holds the flags of the routes command
type RoutesOptions struct {
	Router      string
	Manifest    string
	SourceDir   string
	RoutePrefix string
	Routes      []string
	Middleware  string
	Format      string
}

var routesOpts RoutesOptions

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List routes and whether they would be documented",
	Long: `List every route of the source with its handler and the decision a generate
run would make for it. Without selectors every route counts as selected.
Nothing is called or stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := routesOpts

		configManager, err := loadConfig(configPath())
		if err != nil {
			return err
		}
		if cfg := configManager.Get(); cfg != nil {
			if !cmd.Flags().Changed("router") && cfg.Generate.Router != "" {
				opts.Router = cfg.Generate.Router
			}
			if !cmd.Flags().Changed("manifest") && cfg.Generate.Manifest != "" {
				opts.Manifest = cfg.Generate.Manifest
			}
			if !cmd.Flags().Changed("source-dir") && cfg.Generate.SourceDir != "" {
				opts.SourceDir = cfg.Generate.SourceDir
			}
		}

		logs, err := newLoggerManager(configManager)
		if err != nil {
			return err
		}
		defer logs.Close()

		return runRoutes(cmd.Context(), opts, logs, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)

	f := routesCmd.Flags()
	f.StringVar(&routesOpts.Router, "router", "mux", "route source: a registered router name or 'manifest'")
	f.StringVar(&routesOpts.Manifest, "manifest", "", "route manifest file for --router manifest")
	f.StringVar(&routesOpts.SourceDir, "source-dir", ".", "root of the Go sources holding the handler doc comments")
	f.StringVar(&routesOpts.RoutePrefix, "route-prefix", "", "URI pattern of the routes to select")
	f.StringArrayVar(&routesOpts.Routes, "routes", nil, "name of a route to select (repeatable)")
	f.StringVar(&routesOpts.Middleware, "middleware", "", "select the routes running this middleware")
	f.StringVarP(&routesOpts.Format, "output", "o", "text", "output format (text, json)")
}

// routeRow is one line of the routes listing
type routeRow struct {
	Name       string   `json:"name,omitempty"`
	Methods    []string `json:"methods"`
	URI        string   `json:"uri"`
	Handler    string   `json:"handler,omitempty"`
	Middleware []string `json:"middleware,omitempty"`
	Status     string   `json:"status"`
	Detail     string   `json:"detail,omitempty"`
}

func runRoutes(ctx context.Context, opts RoutesOptions, logs *logger.Manager, out io.Writer) error {
	source, err := resolveSource(opts.Router, opts.Manifest)
	if err != nil {
		return err
	}
	lookup, err := newLookup(opts.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to index sources in %s: %w", opts.SourceDir, err)
	}

	gen := generator.New(generator.Config{Source: source, Lookup: lookup, Logs: logs})
	plan, err := gen.Plan(ctx, generator.Criteria{
		Names:      opts.Routes,
		Prefix:     opts.RoutePrefix,
		Middleware: opts.Middleware,
	})
	if err != nil {
		return err
	}

	rows := make([]routeRow, 0, len(plan))
	for _, e := range plan {
		rows = append(rows, planRow(e))
	}

	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "text", "":
		return writeRouteTable(out, rows)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

func planRow(e generator.Eligibility) routeRow {
	row := routeRow{
		Name:       e.Route.Name,
		Methods:    e.Route.Methods,
		URI:        e.Route.URI,
		Handler:    e.Route.Handler.String(),
		Middleware: e.Route.Middleware,
	}
	switch {
	case !e.Selected:
		row.Status = "not selected"
	case e.Error != "":
		row.Status = "failed"
		row.Detail = e.Error
	case e.Reason != "":
		row.Status = "skipped"
		row.Detail = e.Reason
	default:
		row.Status = "documented"
	}
	return row
}

func writeRouteTable(out io.Writer, rows []routeRow) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHODS\tURI\tNAME\tHANDLER\tSTATUS")
	for _, r := range rows {
		status := r.Status
		if r.Detail != "" {
			status += " (" + r.Detail + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			strings.Join(r.Methods, ","), r.URI, dash(r.Name), dash(r.Handler), status)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
