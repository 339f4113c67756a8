package storage

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ApiDoc is one row of the api_docs table
type ApiDoc struct {
	ID          int64      `db:"id" json:"id"`
	Identifier  string     `db:"identifier" json:"identifier"`
	Title       string     `db:"title" json:"title"`
	Method      string     `db:"method" json:"method"`
	URI         string     `db:"uri" json:"uri"`
	Description string     `db:"description" json:"description"`
	Parameters  Parameters `db:"parameters" json:"parameters,omitempty"`
	Response    RawJSON    `db:"response" json:"response,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Parameter describes one documented request parameter. Name is the key of
// the stored JSON object and is not part of the value.
type Parameter struct {
	Name        string      `json:"-"`
	Type        string      `json:"type"`
	Value       string      `json:"value"`
	Default     interface{} `json:"default"`
	Required    bool        `json:"required"`
	Description string      `json:"description"`
}

// Parameters is stored as a JSON object keyed by parameter name. Key order is
// the declaration order and survives a round trip through the database.
type Parameters []Parameter

// Has reports whether a parameter with the given name is present
func (p Parameters) Has(name string) bool {
	for _, param := range p {
		if param.Name == name {
			return true
		}
	}
	return false
}

// Set adds the parameter, or replaces the one with the same name in place.
// It reports whether a parameter was replaced.
func (p *Parameters) Set(param Parameter) bool {
	for i := range *p {
		if (*p)[i].Name == param.Name {
			(*p)[i] = param
			return true
		}
	}
	*p = append(*p, param)
	return false
}

// MarshalJSON writes the parameters as an ordered object
func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameter %s: %w", param.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by parameter name, keeping key order.
// A non-object entry is taken as the parameter's example value.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid parameters JSON")
	}

	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		*p = nil
		return nil
	}
	if !result.IsObject() {
		return fmt.Errorf("parameters must be a JSON object")
	}

	params := Parameters{}
	result.ForEach(func(key, value gjson.Result) bool {
		param := Parameter{Name: key.String()}
		if value.IsObject() {
			param.Type = value.Get("type").String()
			param.Value = value.Get("value").String()
			param.Default = value.Get("default").Value()
			param.Required = value.Get("required").Bool()
			param.Description = value.Get("description").String()
		} else {
			param.Value = value.String()
		}
		params = append(params, param)
		return true
	})

	*p = params
	return nil
}

// Value implements driver.Valuer. Empty parameters are stored as NULL.
func (p Parameters) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *Parameters) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		*p = nil
		return nil
	}
	return p.UnmarshalJSON(data)
}

// RawJSON holds a captured response body as JSON
type RawJSON []byte

// NewRawJSON stores a valid JSON body unchanged and wraps anything else in a
// JSON string. An empty body yields nil.
func NewRawJSON(body []byte) (RawJSON, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if json.Valid(trimmed) {
		return RawJSON(append([]byte(nil), trimmed...)), nil
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil, err
	}
	return RawJSON(quoted), nil
}

// MarshalJSON implements json.Marshaler
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *RawJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	*r = append((*r)[0:0], data...)
	return nil
}

// Value implements driver.Valuer
func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return string(r), nil
}

// Scan implements sql.Scanner
func (r *RawJSON) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*r = nil
		return nil
	}
	*r = RawJSON(data)
	return nil
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return append([]byte(nil), v...), nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot scan %T into JSON column", value)
	}
}

// StorageStats represents storage statistics
type StorageStats struct {
	Driver           string    `json:"driver"`
	TotalDocs        int64     `json:"total_docs"`
	DocsWithResponse int64     `json:"docs_with_response"`
	LastUpdated      time.Time `json:"last_updated,omitempty"`
}
