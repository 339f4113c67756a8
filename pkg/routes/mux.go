package routes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// MuxSource reads routes from a gorilla/mux router
type MuxSource struct {
	router *mux.Router
	opts   options
}

// FromMux creates a Source for a gorilla/mux router. Router-level middleware
// added with Use is not visible through the mux API; report it WithMiddleware.
func FromMux(router *mux.Router, opts ...Option) *MuxSource {
	return &MuxSource{router: router, opts: newOptions(opts)}
}

// Handler returns the full router
func (s *MuxSource) Handler() http.Handler {
	return s.router
}

// Routes walks the router. Subrouter parents and host-only routes carry no
// handler or path template and are left out.
func (s *MuxSource) Routes(ctx context.Context) ([]Route, error) {
	var out []Route

	err := s.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		handler := route.GetHandler()
		if handler == nil {
			return nil
		}
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		// GetMethods fails when the route has no method matcher
		methods, _ := route.GetMethods()

		r := Route{
			Name:    route.GetName(),
			Methods: NormalizeMethods(methods),
			URI:     tpl,
			Invoke:  muxInvoker(route, handler),
		}
		if ref, err := RefOf(handler); err == nil {
			r.Handler = ref
		}

		out = append(out, s.opts.apply(r))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk mux router")
	}

	return out, nil
}

// muxInvoker matches the request against the route to fill mux.Vars before
// calling the endpoint
func muxInvoker(route *mux.Route, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var match mux.RouteMatch
		if route.Match(req, &match) {
			req = mux.SetURLVars(req, match.Vars)
		}
		handler.ServeHTTP(w, req)
	})
}
