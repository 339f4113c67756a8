// Package transform shapes stored documentation records for the read API.
package transform

import (
	"time"

	"github.com/johnnynv/RouteScribe/internal/storage"
)

// Doc is the API representation of a record
type Doc struct {
	ID          int64   `json:"id"`
	Method      string  `json:"method"`
	URI         string  `json:"uri"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Params      []Param `json:"params,omitempty"`
}

// Param is the API representation of a stored parameter. Title is the
// parameter name.
type Param struct {
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	ExampleValue string      `json:"example_value"`
	DefaultValue interface{} `json:"default_value"`
	Required     bool        `json:"required"`
	Description  string      `json:"description"`
}

// Docs transforms records, keeping their order. The result is never nil.
func Docs(docs []*storage.ApiDoc) []Doc {
	out := make([]Doc, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocOf(d))
	}
	return out
}

// DocOf transforms one record. Params is left out when nothing is stored.
func DocOf(d *storage.ApiDoc) Doc {
	return Doc{
		ID:          d.ID,
		Method:      d.Method,
		URI:         d.URI,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   timestamp(d.CreatedAt),
		UpdatedAt:   timestamp(d.UpdatedAt),
		Params:      Params(d.Parameters),
	}
}

// Params transforms stored parameters in stored key order
func Params(params storage.Parameters) []Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]Param, 0, len(params))
	for _, p := range params {
		out = append(out, Param{
			Title:        p.Name,
			Type:         p.Type,
			ExampleValue: p.Value,
			DefaultValue: p.Default,
			Required:     p.Required,
			Description:  p.Description,
		})
	}
	return out
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
