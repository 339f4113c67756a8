// Package postman writes generated documentation as a Postman collection
// (schema v2.0.0).
package postman

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/johnnynv/RouteScribe/internal/generator"
)

// SchemaURL identifies the collection format
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.0.0/collection.json"

// FileName is the name of the collection file in the output directory
const FileName = "collection.json"

// Collection is a Postman v2.0.0 collection
type Collection struct {
	Variables []interface{} `json:"variables"`
	Info      Info          `json:"info"`
	Item      []Folder      `json:"item"`
}

// Info describes the collection
type Info struct {
	Name        string `json:"name"`
	PostmanID   string `json:"_postman_id"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

// Folder groups the requests of one resource
type Folder struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Item        []Entry `json:"item"`
}

// Entry is one request of the collection
type Entry struct {
	Name    string  `json:"name"`
	Request Request `json:"request"`
}

// Request is the request of an Entry
type Request struct {
	URL         string        `json:"url"`
	Method      string        `json:"method"`
	Header      []Header      `json:"header"`
	Body        Body          `json:"body"`
	Description string        `json:"description"`
	Response    []interface{} `json:"response"`
}

// Header is a request header
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Body is a form-data request body
type Body struct {
	Mode     string      `json:"mode"`
	FormData []FormParam `json:"formdata"`
}

// FormParam is one form-data field
type FormParam struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// Build creates a collection with one folder per resource, folders sorted by
// name and requests in item order
func Build(appName, baseURL string, headers map[string]string, items []*generator.Item) *Collection {
	baseURL = strings.TrimRight(baseURL, "/")

	header := make([]Header, 0, len(headers))
	for k, v := range headers {
		header = append(header, Header{Key: k, Value: v})
	}
	sort.Slice(header, func(i, j int) bool { return header[i].Key < header[j].Key })

	folders := map[string]*Folder{}
	var names []string
	for _, item := range items {
		f, ok := folders[item.Resource]
		if !ok {
			f = &Folder{Name: item.Resource, Item: []Entry{}}
			folders[item.Resource] = f
			names = append(names, item.Resource)
		}
		f.Item = append(f.Item, entry(baseURL, header, item))
	}
	sort.Strings(names)

	c := &Collection{
		Variables: []interface{}{},
		Info: Info{
			Name:      appName + " API",
			PostmanID: uuid.NewString(),
			Schema:    SchemaURL,
		},
		Item: make([]Folder, 0, len(names)),
	}
	for _, name := range names {
		c.Item = append(c.Item, *folders[name])
	}
	return c
}

func entry(baseURL string, header []Header, item *generator.Item) Entry {
	url := baseURL + "/" + strings.TrimLeft(item.URI, "/")

	form := make([]FormParam, 0, len(item.Parameters))
	for _, p := range item.Parameters {
		form = append(form, FormParam{Key: p.Name, Value: p.Value, Type: "text", Enabled: true})
	}

	name := item.Title
	if name == "" {
		name = url
	}

	return Entry{
		Name: name,
		Request: Request{
			URL:         url,
			Method:      item.Method(),
			Header:      header,
			Body:        Body{Mode: "formdata", FormData: form},
			Description: item.Description,
			Response:    []interface{}{},
		},
	}
}

// Writer is a generator.Exporter writing <dir>/collection.json
type Writer struct {
	dir     string
	appName string
	baseURL string
	headers map[string]string
}

// NewWriter creates a collection writer
func NewWriter(dir, appName, baseURL string, headers map[string]string) *Writer {
	return &Writer{dir: dir, appName: appName, baseURL: baseURL, headers: headers}
}

// Export implements generator.Exporter
func (w *Writer) Export(ctx context.Context, items []*generator.Item) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(Build(w.appName, w.baseURL, w.headers, items), "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write collection: %w", err)
	}
	return path, nil
}
