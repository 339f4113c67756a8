package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinSource reads routes from a gin engine
type GinSource struct {
	engine *gin.Engine
	opts   options
}

// FromGin creates a Source for a gin engine. Global middleware (engine.Use)
// is reported for every route; group middleware is not visible through gin.
func FromGin(engine *gin.Engine, opts ...Option) *GinSource {
	return &GinSource{engine: engine, opts: newOptions(opts)}
}

// Handler returns the full engine
func (s *GinSource) Handler() http.Handler {
	return s.engine
}

// Routes lists engine.Routes(), merging methods registered for the same path
// and handler
func (s *GinSource) Routes(ctx context.Context) ([]Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var global []string
	for _, h := range s.engine.Handlers {
		if name := FuncName(h); name != "" {
			global = append(global, name)
		}
	}

	type entry struct {
		route    Route
		methods  []string
		handlers []gin.HandlerFunc
	}
	var order []string
	entries := map[string]*entry{}

	for _, info := range s.engine.Routes() {
		ref, err := ParseHandlerName(info.Handler)
		key := info.Path + " " + info.Handler
		if err != nil {
			ref = HandlerRef{}
			key = info.Path + " " + info.Method
		}

		e, ok := entries[key]
		if !ok {
			e = &entry{route: Route{
				URI:        info.Path,
				Handler:    ref,
				Middleware: append([]string(nil), global...),
			}}
			entries[key] = e
			order = append(order, key)
		}
		e.methods = append(e.methods, info.Method)
		e.handlers = append(e.handlers, info.HandlerFunc)
	}

	out := make([]Route, 0, len(order))
	for _, key := range order {
		e := entries[key]
		r := e.route
		r.Methods = NormalizeMethods(e.methods)
		r.Invoke = ginInvoker(e.methods, r.URI, e.handlers)
		out = append(out, s.opts.apply(r))
	}
	sortRoutes(out)

	return out, nil
}

// ginInvoker registers the bare endpoint on a fresh engine so gin fills the
// path parameters
func ginInvoker(methods []string, path string, handlers []gin.HandlerFunc) http.Handler {
	engine := gin.New()
	for i, method := range methods {
		engine.Handle(method, path, handlers[i])
	}
	return engine
}
