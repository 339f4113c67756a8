package routes

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest describes routes of an application that cannot link RouteScribe
// directly. Handlers are given as runtime function names.
//
//	routes:
//	  - name: users.index
//	    methods: [GET, HEAD]
//	    uri: /users
//	    middleware: [auth]
//	    handler: example.com/shop/handlers.(*Users).Index
type Manifest struct {
	Routes []ManifestRoute `yaml:"routes"`
}

// ManifestRoute is one route of a Manifest
type ManifestRoute struct {
	Name       string   `yaml:"name"`
	Methods    []string `yaml:"methods"`
	URI        string   `yaml:"uri"`
	Middleware []string `yaml:"middleware"`
	Handler    string   `yaml:"handler"`
}

// ManifestSource reads routes from a manifest file on every call
type ManifestSource struct {
	path string
}

// NewManifestSource creates a Source backed by the YAML file at path
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Routes reads and parses the manifest
func (s *ManifestSource) Routes(ctx context.Context) ([]Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "read route manifest")
	}

	routes, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse route manifest %s", s.path)
	}
	return routes, nil
}

// ParseManifest decodes manifest YAML. A handler that does not parse leaves
// the route with an empty HandlerRef.
func ParseManifest(data []byte) ([]Route, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	out := make([]Route, 0, len(manifest.Routes))
	for i, mr := range manifest.Routes {
		if mr.URI == "" {
			return nil, errors.Errorf("routes[%d]: uri is required", i)
		}

		r := Route{
			Name:       mr.Name,
			Methods:    NormalizeMethods(mr.Methods),
			URI:        mr.URI,
			Middleware: mr.Middleware,
		}
		if ref, err := ParseHandlerName(mr.Handler); err == nil {
			r.Handler = ref
		}
		out = append(out, r)
	}

	return out, nil
}
