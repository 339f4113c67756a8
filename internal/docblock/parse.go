package docblock

import (
	"fmt"
	"strings"

	"github.com/swaggo/swag"

	"github.com/johnnynv/RouteScribe/internal/storage"
)

// HideTag excludes a route from the generated documentation
const HideTag = "@hideFromAPIDocumentation"

// Tags is the set of annotation names found in a comment, lower-cased and
// without the leading "@"
type Tags map[string]struct{}

// Has reports whether the tag is present. The "@" prefix and case are ignored.
func (t Tags) Has(name string) bool {
	_, ok := t[tagName(name)]
	return ok
}

// Doc is a parsed handler comment
type Doc struct {
	Tags        Tags
	Title       string
	Description string
	Resource    string
	Params      storage.Parameters
	Warnings    []string
}

// Hidden reports whether the comment opts out of documentation
func (d Doc) Hidden() bool {
	return d.Tags.Has(HideTag)
}

// annotations handed to swag; the others only populate Tags
var swagAttrs = map[string]bool{
	"summary":     true,
	"description": true,
	"tags":        true,
	"param":       true,
	"id":          true,
}

// Parse splits a doc comment into free text and swag annotations.
//
// Title is @Summary or the first line of free text; Description is
// @Description or the rest of the free text. Resource is the first @Tags
// value. @Param lines become parameters in declaration order; a repeated name
// keeps its first position and takes the last declaration.
func Parse(comment string) Doc {
	doc := Doc{Tags: Tags{}}
	op := swag.NewOperation(nil)

	var text []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			text = append(text, line)
			continue
		}

		fields := strings.Fields(line)
		name := tagName(fields[0])
		if name == "" {
			continue
		}
		doc.Tags[name] = struct{}{}

		if !swagAttrs[name] {
			continue
		}
		if err := parseAnnotation(op, line); err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("%s: %v", line, err))
		}
	}

	title, description := splitText(text)
	doc.Title = firstNonEmpty(op.Summary, title)
	doc.Description = firstNonEmpty(strings.TrimSpace(op.Description), description)

	for _, tag := range op.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			doc.Resource = tag
			break
		}
	}

	for _, p := range op.Parameters {
		param := storage.Parameter{
			Name:        p.Name,
			Type:        p.Type,
			Required:    p.Required,
			Description: p.Description,
			Default:     p.Default,
		}
		if param.Type == "" && p.Schema != nil && len(p.Schema.Type) > 0 {
			param.Type = p.Schema.Type[0]
		}
		if param.Type == "" {
			param.Type = "string"
		}
		if p.Example != nil {
			param.Value = fmt.Sprint(p.Example)
		}
		if doc.Params.Set(param) {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("@Param %s: declared more than once, last declaration kept", param.Name))
		}
	}

	return doc
}

// parseAnnotation runs one line through swag. Model references in @Param need
// a parsed package and make swag panic without one; they surface as warnings.
func parseAnnotation(op *swag.Operation, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unsupported annotation: %v", r)
		}
	}()
	return op.ParseComment(line, nil)
}

func splitText(lines []string) (string, string) {
	// trim leading and trailing blank lines
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

func tagName(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
