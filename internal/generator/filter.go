package generator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// NoSelectorMessage is printed to the operator for ErrNoSelector
const NoSelectorMessage = "You must provide either a route prefix or a route or a middleware to generate the documentation."

// ErrNoSelector is returned when a run names no routes, prefix or middleware
var ErrNoSelector = errors.New("no route, route prefix or middleware selected")

// Criteria selects the routes of a run. A route is selected when any of the
// selectors matches it.
type Criteria struct {
	Names      []string `json:"names,omitempty"`
	Prefix     string   `json:"prefix,omitempty"`
	Middleware string   `json:"middleware,omitempty"`
}

// Validate fails with ErrNoSelector when every selector is empty
func (c Criteria) Validate() error {
	for _, name := range c.Names {
		if name != "" {
			return nil
		}
	}
	if c.Prefix == "" && c.Middleware == "" {
		return ErrNoSelector
	}
	return nil
}

// Match reports whether the route is selected
func (c Criteria) Match(r routes.Route) bool {
	if r.Name != "" {
		for _, name := range c.Names {
			if name == r.Name {
				return true
			}
		}
	}

	if c.Prefix != "" {
		if StrIs(c.Prefix, r.URI) || StrIs(c.Prefix, strings.TrimPrefix(r.URI, "/")) {
			return true
		}
	}

	return c.Middleware != "" && r.HasMiddleware(c.Middleware)
}

// Filter returns the selected routes in their original order
func (c Criteria) Filter(rs []routes.Route) []routes.Route {
	var out []routes.Route
	for _, r := range rs {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Fields returns the criteria as log fields
func (c Criteria) Fields() map[string]interface{} {
	return map[string]interface{}{
		"routes":     c.Names,
		"prefix":     c.Prefix,
		"middleware": c.Middleware,
	}
}

// StrIs matches value against a pattern in which "*" stands for any run of
// characters, "/" included. The match is anchored at both ends.
func StrIs(pattern, value string) bool {
	if pattern == value {
		return true
	}
	expr := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`)
	matched, err := regexp.MatchString(`^(?s)`+expr+`\z`, value)
	return err == nil && matched
}
