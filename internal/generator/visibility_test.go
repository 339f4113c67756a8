package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/RouteScribe/internal/docblock"
	"github.com/johnnynv/RouteScribe/pkg/routes"
)

var (
	listRef   = routes.HandlerRef{Package: "example.com/shop/handlers", Receiver: "Users", Func: "List"}
	secretRef = routes.HandlerRef{Package: "example.com/shop/handlers", Func: "Secret"}
	bareRef   = routes.HandlerRef{Package: "example.com/shop/handlers", Func: "Bare"}
)

type failingLookup struct{}

func (failingLookup) Lookup(routes.HandlerRef) (string, bool, error) {
	return "", false, errors.New("index unavailable")
}

type foundNothingLookup struct{}

func (foundNothingLookup) Lookup(routes.HandlerRef) (string, bool, error) {
	return "", false, nil
}

func testComments() docblock.Comments {
	return docblock.Comments{
		listRef.String():   "List returns all users\n@Tags users\n",
		secretRef.String(): "Secret is internal\n@hideFromAPIDocumentation\n",
		bareRef.String():   "",
	}
}

func TestVisibility_Check(t *testing.T) {
	v := NewVisibility(testComments())

	tests := []struct {
		name   string
		ref    routes.HandlerRef
		reason string
		title  string
	}{
		{"documented", listRef, "", "List returns all users"},
		{"no comment stays visible", bareRef, "", ""},
		{"opt-out tag", secretRef, ReasonHidden, "Secret is internal"},
		{"anonymous handler", routes.HandlerRef{}, ReasonNoHandler, ""},
		{"unknown declaration", routes.HandlerRef{Package: "example.com/shop", Func: "Gone"}, ReasonNoDecl, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, reason, err := v.Check(routes.Route{URI: "/x", Handler: tt.ref})
			require.NoError(t, err)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.title, doc.Title)
		})
	}
}

func TestVisibility_LookupErrors(t *testing.T) {
	_, reason, err := NewVisibility(failingLookup{}).Check(routes.Route{Handler: listRef})
	assert.Empty(t, reason)
	assert.ErrorContains(t, err, "index unavailable")

	_, reason, err = NewVisibility(foundNothingLookup{}).Check(routes.Route{Handler: listRef})
	assert.NoError(t, err)
	assert.Equal(t, ReasonNoDecl, reason)
}
