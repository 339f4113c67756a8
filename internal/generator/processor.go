package generator

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/johnnynv/RouteScribe/internal/capture"
	"github.com/johnnynv/RouteScribe/internal/docblock"
	"github.com/johnnynv/RouteScribe/internal/metrics"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/logger"
	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// DefaultResource groups routes without a @Tags annotation
const DefaultResource = "general"

// Item is the documentation of one route produced by a run
type Item struct {
	ID          string             `json:"id"`
	Resource    string             `json:"resource"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Methods     []string           `json:"methods"`
	URI         string             `json:"uri"`
	Parameters  storage.Parameters `json:"parameters"`
	Response    storage.RawJSON    `json:"response,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// Method returns the first method, the one stored with the record
func (i *Item) Method() string {
	if len(i.Methods) == 0 {
		return http.MethodGet
	}
	return i.Methods[0]
}

// Identifier derives the stable record identifier of a route from its URI
// and methods
func Identifier(uri string, methods []string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(uri+":"+strings.Join(methods, ""))).String()
}

// Processor turns a visible route and its parsed comment into an Item
type Processor struct {
	capturer capture.Capturer
	bindings capture.Bindings
	headers  map[string]string
	log      *logger.Entry
}

// NewProcessor creates a processor. A nil capturer disables response calls.
func NewProcessor(capturer capture.Capturer, bindings capture.Bindings, headers map[string]string, log *logger.Entry) *Processor {
	if bindings == nil {
		bindings = capture.Bindings{}
	}
	return &Processor{
		capturer: capturer,
		bindings: bindings,
		headers:  headers,
		log:      log,
	}
}

// Process builds the Item of a route
func (p *Processor) Process(ctx context.Context, r routes.Route, doc docblock.Doc) (*Item, error) {
	if r.URI == "" {
		return nil, fmt.Errorf("route %q has no uri", r.Name)
	}

	methods := r.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	item := &Item{
		ID:          Identifier(r.URI, methods),
		Resource:    doc.Resource,
		Title:       doc.Title,
		Description: doc.Description,
		Methods:     methods,
		URI:         r.URI,
		Parameters:  p.parameters(r.URI, doc.Params),
		Warnings:    doc.Warnings,
	}
	if item.Resource == "" {
		item.Resource = DefaultResource
	}

	if p.capturer != nil && methods[0] == http.MethodGet {
		item.Response = p.capture(ctx, r)
	}

	return item, nil
}

// parameters returns the documented parameters followed by undocumented path
// variables. Bound values become example values.
func (p *Processor) parameters(uri string, documented storage.Parameters) storage.Parameters {
	params := make(storage.Parameters, 0, len(documented))
	params = append(params, documented...)

	for _, name := range routes.PathParams(uri) {
		if !params.Has(name) {
			params = append(params, storage.Parameter{
				Name:     name,
				Type:     "string",
				Required: true,
			})
		}
	}

	for i := range params {
		if v, ok := p.bindings.Lookup(params[i].Name); ok {
			params[i].Value = v
		}
	}
	return params
}

func (p *Processor) capture(ctx context.Context, r routes.Route) storage.RawJSON {
	resp, err := p.capturer.Capture(ctx, capture.Request{
		Route:    r,
		Bindings: p.bindings,
		Headers:  p.headers,
	})
	metrics.RecordCapture(err)
	if err != nil {
		p.log.WithRoute(r.Methods, r.URI).WithError(err).Debug("Response capture failed")
		return nil
	}

	body, err := resp.JSON()
	if err != nil {
		p.log.WithRoute(r.Methods, r.URI).WithError(err).Debug("Captured response is not storable")
		return nil
	}
	return body
}
