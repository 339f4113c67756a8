// Package capture performs the sample requests whose responses are stored
// with the generated documentation.
package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// DefaultBinding is used for path variables without a binding
const DefaultBinding = "1"

// ErrNoHandler is returned when a route cannot be invoked in-process
var ErrNoHandler = errors.New("route has no invocable handler")

// Capturer performs a sample request for a route
type Capturer interface {
	Capture(ctx context.Context, req Request) (*Response, error)
}

// Request describes one capture call
type Request struct {
	Route    routes.Route
	Bindings Bindings
	Headers  map[string]string
}

// Method returns the method of the call, the route's first method
func (r Request) Method() string {
	return r.Route.FirstMethod()
}

// Path returns the route URI with every variable bound
func (r Request) Path() string {
	return r.Bindings.Expand(r.Route.URI)
}

func (r Request) apply(req *http.Request) {
	for name, value := range r.Headers {
		req.Header.Set(name, value)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// Response is a captured response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON returns the body in the form stored with a record: valid JSON as is,
// anything else as a JSON string
func (r *Response) JSON() (storage.RawJSON, error) {
	if r == nil {
		return nil, nil
	}
	return storage.NewRawJSON(r.Body)
}

// Bindings maps route variable names to the values used in capture calls
type Bindings map[string]string

// ParseBindings reads "name,value|name2,value2". Entries without a comma are
// ignored.
func ParseBindings(s string) Bindings {
	b := Bindings{}
	for _, pair := range strings.Split(s, "|") {
		name, value, ok := strings.Cut(pair, ",")
		if !ok {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			b[name] = strings.TrimSpace(value)
		}
	}
	return b
}

// Lookup returns the binding for name
func (b Bindings) Lookup(name string) (string, bool) {
	v, ok := b[name]
	return v, ok
}

// Expand substitutes the variables of a route template. Unbound variables
// become DefaultBinding.
func (b Bindings) Expand(uri string) string {
	return routes.FillPath(uri, func(name string) string {
		if v, ok := b[name]; ok {
			return v
		}
		return DefaultBinding
	})
}

// ParseHeaders reads "Name:Value" pairs as given to --header
func ParseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, h := range values {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, &HeaderFormatError{Value: h}
		}
		headers[http.CanonicalHeaderKey(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// HeaderFormatError reports a header that is not "Name:Value"
type HeaderFormatError struct {
	Value string
}

func (e *HeaderFormatError) Error() string {
	return fmt.Sprintf("invalid header %q, expected Name:Value", e.Value)
}
