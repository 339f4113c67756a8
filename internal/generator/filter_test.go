package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnnynv/RouteScribe/pkg/routes"
)

func TestStrIs(t *testing.T) {
	tests := []struct {
		pattern, value string
		want           bool
	}{
		{"api/*", "api/users", true},
		{"api/*", "api/users/{id}/posts", true},
		{"api/*", "/api/users", false},
		{"/api/*", "/api/users", true},
		{"api", "api", true},
		{"api", "api/users", false},
		{"*/users", "v1/users", true},
		{"*", "", true},
		{"api.v1/*", "apixv1/users", false},
		{"api/(users)", "api/(users)", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StrIs(tt.pattern, tt.value), "%q ~ %q", tt.pattern, tt.value)
	}
}

func TestCriteria_Validate(t *testing.T) {
	assert.ErrorIs(t, Criteria{}.Validate(), ErrNoSelector)
	assert.ErrorIs(t, Criteria{Names: []string{""}}.Validate(), ErrNoSelector)

	assert.NoError(t, Criteria{Names: []string{"users.index"}}.Validate())
	assert.NoError(t, Criteria{Prefix: "api/*"}.Validate())
	assert.NoError(t, Criteria{Middleware: "auth"}.Validate())

	assert.Equal(t,
		"You must provide either a route prefix or a route or a middleware to generate the documentation.",
		NoSelectorMessage)
	assert.Equal(t, "no route, route prefix or middleware selected", ErrNoSelector.Error())
}

func TestCriteria_Match(t *testing.T) {
	users := routes.Route{Name: "users.index", URI: "/api/users", Middleware: []string{"example.com/app/middleware.Auth"}}
	health := routes.Route{URI: "/health"}

	tests := []struct {
		name     string
		criteria Criteria
		route    routes.Route
		want     bool
	}{
		{"by name", Criteria{Names: []string{"users.index"}}, users, true},
		{"other name", Criteria{Names: []string{"users.show"}}, users, false},
		{"empty name never matches", Criteria{Names: []string{""}}, health, false},
		{"prefix without leading slash", Criteria{Prefix: "api/*"}, users, true},
		{"prefix with leading slash", Criteria{Prefix: "/api/*"}, users, true},
		{"prefix mismatch", Criteria{Prefix: "admin/*"}, users, false},
		{"empty prefix matches nothing", Criteria{Prefix: ""}, routes.Route{URI: ""}, false},
		{"middleware by identifier", Criteria{Middleware: "auth"}, users, true},
		{"middleware by short name", Criteria{Middleware: "middleware.Auth"}, users, true},
		{"middleware mismatch", Criteria{Middleware: "throttle"}, users, false},
		{"any selector is enough", Criteria{Names: []string{"nope"}, Prefix: "nope", Middleware: "auth"}, users, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Match(tt.route))
		})
	}
}

func TestCriteria_FilterKeepsOrder(t *testing.T) {
	rs := []routes.Route{
		{URI: "/api/b"},
		{URI: "/web/a"},
		{URI: "/api/a"},
	}

	got := Criteria{Prefix: "api/*"}.Filter(rs)

	assert.Equal(t, []routes.Route{{URI: "/api/b"}, {URI: "/api/a"}}, got)
}
