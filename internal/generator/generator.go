// Package generator selects, documents and stores the routes of a router.
//
// A run filters the routes of a routes.Source by Criteria, drops routes whose
// handler cannot be resolved or opts out with @hideFromAPIDocumentation,
// builds an Item per remaining route, upserts the items by identifier and
// hands them to an Exporter.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/johnnynv/RouteScribe/internal/capture"
	"github.com/johnnynv/RouteScribe/internal/docblock"
	"github.com/johnnynv/RouteScribe/internal/metrics"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// Exporter writes the items of a run somewhere, returning the location
type Exporter interface {
	Export(ctx context.Context, items []*Item) (string, error)
}

// Config wires the collaborators of a Generator. Capturer, Exporter and
// Reporter are optional.
type Config struct {
	Source   routes.Source
	Lookup   docblock.Lookup
	Store    storage.Storage
	Capturer capture.Capturer
	Exporter Exporter
	Reporter Reporter
	Logs     *logger.Manager

	Bindings capture.Bindings
	Headers  map[string]string
	Force    bool
}

// FailedRoute is a route that was selected but could not be documented
type FailedRoute struct {
	Methods []string `json:"methods"`
	URI     string   `json:"uri"`
	Error   string   `json:"error"`
}

// Summary reports the outcome of a run
type Summary struct {
	Router         string        `json:"router"`
	Processed      int           `json:"processed"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	Inserted       int           `json:"inserted"`
	Updated        int           `json:"updated"`
	FailedRoutes   []FailedRoute `json:"failed_routes,omitempty"`
	Items          []*Item       `json:"-"`
	CollectionPath string        `json:"collection_path,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Generator runs documentation generation
type Generator struct {
	source     routes.Source
	visibility *Visibility
	processor  *Processor
	saver      *Saver
	exporter   Exporter
	reporter   Reporter
	logs       *logger.Manager
	business   logger.BusinessLogger
}

// New creates a Generator
func New(cfg Config) *Generator {
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &Generator{
		source:     cfg.Source,
		visibility: NewVisibility(cfg.Lookup),
		processor:  NewProcessor(cfg.Capturer, cfg.Bindings, cfg.Headers, cfg.Logs.ForModule("generator", "processor")),
		saver:      NewSaver(cfg.Store, cfg.Force),
		exporter:   cfg.Exporter,
		reporter:   reporter,
		logs:       cfg.Logs,
		business:   logger.NewBusinessLogger(cfg.Logs),
	}
}

// Run documents the routes selected by criteria. Routes that fail to
// process are reported and counted; storage and export errors end the run
// and are returned with the partial summary.
func (g *Generator) Run(ctx context.Context, criteria Criteria, router string) (*Summary, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	op := g.logs.StartOperation(ctx, "generator", "run", "generate").WithRouter(router)
	ctx = op.GetContext()
	start := time.Now()
	summary := &Summary{Router: router}

	g.business.LogGenerationStart(ctx, router, criteria.Fields())

	all, err := g.source.Routes(ctx)
	if err != nil {
		op.Fail("Failed to read routes", err)
		return nil, fmt.Errorf("failed to read %s routes: %w", router, err)
	}

	for _, r := range criteria.Filter(all) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		g.document(ctx, r, summary)
	}

	for _, item := range summary.Items {
		doc, inserted, err := g.saver.Save(ctx, item)
		if err != nil {
			op.Fail("Failed to store documentation", err)
			return summary, err
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
		metrics.RecordSave(inserted)
		g.business.LogDocSaved(ctx, doc.Identifier, doc.ID, inserted)
	}

	if g.exporter != nil {
		path, err := g.exporter.Export(ctx, summary.Items)
		if err != nil {
			op.Fail("Failed to export documentation", err)
			return summary, fmt.Errorf("failed to export documentation: %w", err)
		}
		summary.CollectionPath = path
		g.business.LogCollectionWritten(ctx, path, len(summary.Items))
	}

	summary.Duration = time.Since(start)
	metrics.RecordGeneration(summary.Duration)
	g.business.LogGenerationComplete(ctx, router, summary.Processed, summary.Skipped, summary.Failed, summary.Duration)
	op.Success("Documentation generated", logger.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})

	return summary, nil
}

func (g *Generator) document(ctx context.Context, r routes.Route, summary *Summary) {
	doc, reason, err := g.visibility.Check(r)
	if err == nil && reason != "" {
		summary.Skipped++
		metrics.RecordRoute(metrics.ResultSkipped)
		g.reporter.Skipped(r.Methods, r.URI)
		g.business.LogRouteSkipped(ctx, r.Methods, r.URI, reason)
		return
	}

	var item *Item
	if err == nil {
		item, err = g.processor.Process(ctx, r, doc)
	}
	if err != nil {
		summary.Failed++
		summary.FailedRoutes = append(summary.FailedRoutes, FailedRoute{Methods: r.Methods, URI: r.URI, Error: err.Error()})
		metrics.RecordRoute(metrics.ResultFailed)
		g.reporter.Failed(r.Methods, r.URI, err)
		g.business.LogRouteFailed(ctx, r.Methods, r.URI, err)
		return
	}

	for _, w := range item.Warnings {
		g.logs.WithGoContext(ctx).WithRoute(r.Methods, r.URI).WithField("warning", w).Warn("Ignored doc comment annotation")
	}

	summary.Processed++
	summary.Items = append(summary.Items, item)
	metrics.RecordRoute(metrics.ResultProcessed)
	g.reporter.Processed(item.Methods, item.URI)
	g.business.LogRouteProcessed(ctx, item.Methods, item.URI, item.ID)
}

// Eligibility describes how a run would treat a route
type Eligibility struct {
	Route    routes.Route `json:"-"`
	Selected bool         `json:"selected"`
	Reason   string       `json:"reason,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Documented reports whether the route would be processed
func (e Eligibility) Documented() bool {
	return e.Selected && e.Reason == "" && e.Error == ""
}

// Plan evaluates filter and visibility for every route without processing
// or storing anything
func (g *Generator) Plan(ctx context.Context, criteria Criteria) ([]Eligibility, error) {
	all, err := g.source.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}

	selectAll := criteria.Validate() != nil
	out := make([]Eligibility, 0, len(all))
	for _, r := range all {
		e := Eligibility{Route: r, Selected: selectAll || criteria.Match(r)}
		if e.Selected {
			_, reason, err := g.visibility.Check(r)
			e.Reason = reason
			if err != nil {
				e.Error = err.Error()
			}
		}
		out = append(out, e)
	}
	return out, nil
}

type nopReporter struct{}

func (nopReporter) Processed([]string, string)     {}
func (nopReporter) Skipped([]string, string)       {}
func (nopReporter) Failed([]string, string, error) {}
