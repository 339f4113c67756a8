package routes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParams(t *testing.T) {
	tests := []struct {
		uri  string
		want []string
	}{
		{"/users", nil},
		{"/users/{id}", []string{"id"}},
		{"/users/{id:[0-9]+}/posts/{post}", []string{"id", "post"}},
		{"/codes/{code:[a-z]{3}}", []string{"code"}},
		{"/users/:id/files/*path", []string{"id", "path"}},
		{"/static/*", nil},
		{"/files/{name}.{ext}", []string{"name", "ext"}},
		{"/a/{id}/b/{id}", []string{"id"}},
		{"/time/10:30", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PathParams(tt.uri), tt.uri)
	}
}

func TestFillPath(t *testing.T) {
	upper := func(name string) string {
		if name == "" {
			return "rest"
		}
		return strings.ToUpper(name)
	}

	tests := []struct {
		uri  string
		want string
	}{
		{"/users", "/users"},
		{"/users/{id}", "/users/ID"},
		{"/users/{id:[0-9]+}/posts/{post}", "/users/ID/posts/POST"},
		{"/codes/{code:[a-z]{3}}/x", "/codes/CODE/x"},
		{"/users/:id/files/*path", "/users/ID/files/PATH"},
		{"/static/*", "/static/rest"},
		{"/files/{name}.{ext}", "/files/NAME.EXT"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FillPath(tt.uri, upper), tt.uri)
	}
}

func TestFillPath_UnclosedBrace(t *testing.T) {
	assert.Equal(t, "/users/{id", FillPath("/users/{id", func(string) string { return "1" }))
}
