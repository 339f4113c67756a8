// Package routes turns a Go application's router into a flat list of
// documented-route candidates. Sources exist for gorilla/mux, chi, gin and a
// YAML manifest; host applications register theirs with Register.
package routes

import (
	"context"
	"net/http"
	"sort"
	"strings"
)

// Route is one entry of the router's route table
type Route struct {
	Name       string
	Methods    []string
	URI        string
	Middleware []string
	Handler    HandlerRef

	// Invoke runs the bare endpoint with path variables applied. Nil when the
	// source cannot run handlers in-process.
	Invoke http.Handler
}

// Source enumerates the routes of a router
type Source interface {
	Routes(ctx context.Context) ([]Route, error)
}

// HandlerSource is a Source that can also serve requests through the full
// router, middleware included
type HandlerSource interface {
	Source
	Handler() http.Handler
}

// HasMiddleware reports whether the route runs the named middleware. The name
// may be the full function name, the package-qualified short name or the bare
// identifier, compared case-insensitively.
func (r Route) HasMiddleware(name string) bool {
	if name == "" {
		return false
	}
	for _, m := range r.Middleware {
		short := m[strings.LastIndex(m, "/")+1:]
		ident := short[strings.LastIndex(short, ".")+1:]
		if strings.EqualFold(m, name) || strings.EqualFold(short, name) || strings.EqualFold(ident, name) {
			return true
		}
	}
	return false
}

// FirstMethod returns the first documented method
func (r Route) FirstMethod() string {
	if len(r.Methods) == 0 {
		return http.MethodGet
	}
	return r.Methods[0]
}

var methodRank = map[string]int{
	http.MethodGet:     0,
	http.MethodHead:    1,
	http.MethodPost:    2,
	http.MethodPut:     3,
	http.MethodPatch:   4,
	http.MethodDelete:  5,
	http.MethodOptions: 6,
	http.MethodConnect: 7,
	http.MethodTrace:   8,
}

// NormalizeMethods upper-cases, de-duplicates and orders methods. HEAD is
// dropped unless it is the only method; an empty list documents as GET.
func NormalizeMethods(methods []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}

	if len(out) == 0 {
		return []string{http.MethodGet}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := methodRank[out[i]]
		rj, jok := methodRank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})

	if len(out) > 1 {
		filtered := out[:0]
		for _, m := range out {
			if m != http.MethodHead {
				filtered = append(filtered, m)
			}
		}
		out = filtered
	}

	return out
}

type options struct {
	names      func(Route) string
	middleware func(Route) []string
}

// Option customises a router Source
type Option func(*options)

// WithNames assigns route names for routers that have none (chi, gin) or
// overrides them. An empty result keeps the router's own name.
func WithNames(fn func(Route) string) Option {
	return func(o *options) {
		o.names = fn
	}
}

// WithMiddleware adds middleware names the router cannot report itself, for
// example gorilla/mux router-level middleware.
func WithMiddleware(fn func(Route) []string) Option {
	return func(o *options) {
		o.middleware = fn
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) apply(r Route) Route {
	if o.names != nil {
		if name := o.names(r); name != "" {
			r.Name = name
		}
	}
	if o.middleware != nil {
		r.Middleware = append(r.Middleware, o.middleware(r)...)
	}
	return r
}

func sortRoutes(rs []Route) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].URI != rs[j].URI {
			return rs[i].URI < rs[j].URI
		}
		return strings.Join(rs[i].Methods, ",") < strings.Join(rs[j].Methods, ",")
	})
}
