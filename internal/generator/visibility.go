package generator

import (
	"errors"
	"fmt"

	"github.com/johnnynv/RouteScribe/internal/docblock"
	"github.com/johnnynv/RouteScribe/pkg/routes"
)

// Reasons a selected route is left out of the documentation
const (
	ReasonNoHandler = "handler cannot be resolved"
	ReasonNoDecl    = "handler declaration not found"
	ReasonHidden    = "hidden from documentation"
)

// Visibility decides whether a selected route is documented
type Visibility struct {
	lookup docblock.Lookup
}

// NewVisibility creates a check reading comments through lookup
func NewVisibility(lookup docblock.Lookup) *Visibility {
	return &Visibility{lookup: lookup}
}

// Check returns the parsed comment of a visible route. A non-empty reason
// means the route is skipped; err is set only when the lookup itself failed.
func (v *Visibility) Check(r routes.Route) (doc docblock.Doc, reason string, err error) {
	if !r.Handler.Valid() {
		return docblock.Doc{}, ReasonNoHandler, nil
	}

	comment, found, err := v.lookup.Lookup(r.Handler)
	if errors.Is(err, docblock.ErrDeclNotFound) || (err == nil && !found) {
		return docblock.Doc{}, ReasonNoDecl, nil
	}
	if err != nil {
		return docblock.Doc{}, "", fmt.Errorf("failed to look up %s: %w", r.Handler, err)
	}

	doc = docblock.Parse(comment)
	if doc.Hidden() {
		return doc, ReasonHidden, nil
	}
	return doc, "", nil
}
