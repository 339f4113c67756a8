package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// ChiSource reads routes from a chi router
type ChiSource struct {
	router chi.Router
	opts   options
}

// FromChi creates a Source for a chi router
func FromChi(router chi.Router, opts ...Option) *ChiSource {
	return &ChiSource{router: router, opts: newOptions(opts)}
}

// Handler returns the full router
func (s *ChiSource) Handler() http.Handler {
	return s.router
}

// Routes walks the router. chi reports one entry per method; entries sharing
// a pattern and a handler are merged into one Route.
func (s *ChiSource) Routes(ctx context.Context) ([]Route, error) {
	type entry struct {
		route   Route
		methods []string
		handler http.Handler
	}
	var order []string
	entries := map[string]*entry{}

	err := chi.Walk(s.router, func(method, pattern string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		ref, refErr := RefOf(handler)
		key := pattern + " " + ref.String()
		if refErr != nil {
			key = pattern + " " + method
		}

		e, ok := entries[key]
		if !ok {
			e = &entry{
				route:   Route{URI: pattern, Handler: ref},
				handler: handler,
			}
			for _, mw := range middlewares {
				if name := FuncName(mw); name != "" {
					e.route.Middleware = append(e.route.Middleware, name)
				}
			}
			entries[key] = e
			order = append(order, key)
		}
		e.methods = append(e.methods, method)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk chi router")
	}

	out := make([]Route, 0, len(order))
	for _, key := range order {
		e := entries[key]
		r := e.route
		r.Methods = NormalizeMethods(e.methods)
		r.Invoke = chiInvoker(r.URI, e.handler)
		out = append(out, s.opts.apply(r))
	}
	sortRoutes(out)

	return out, nil
}

// chiInvoker mounts the bare endpoint on its own router so that chi fills the
// URL parameters of the pattern
func chiInvoker(pattern string, handler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Handle(pattern, handler)
	return r
}
