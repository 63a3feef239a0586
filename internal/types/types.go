package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EndpointRecord represents one normalized API operation from the catalog
type EndpointRecord struct {
	Path        string           `json:"path"`
	Method      string           `json:"method"`
	Description string           `json:"description,omitempty"`
	Parameters  []ParameterSpec  `json:"parameters,omitempty"`
	RequestBody *RequestBodySpec `json:"request_body,omitempty"`
	Responses   ResponseSet      `json:"responses"`
	Source      SourceInfo       `json:"source"`
}

// ParameterSpec represents a single operation parameter. Location follows the
// catalog convention: "path", "query" or "header".
type ParameterSpec struct {
	Name     string      `json:"name"`
	Location string      `json:"type"`
	Required bool        `json:"required,omitempty"`
	Schema   *SchemaNode `json:"schema,omitempty"`
}

// RequestBodySpec represents the request body of an operation
type RequestBodySpec struct {
	ContentType string      `json:"content_type,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Schema      *SchemaNode `json:"schema,omitempty"`
}

// ResponseSpec represents one declared response of an operation
type ResponseSpec struct {
	StatusCode  int         `json:"status_code"`
	Description string      `json:"description,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Schema      *SchemaNode `json:"schema,omitempty"`
}

// SourceInfo records which source document an operation came from
type SourceInfo struct {
	Title string `json:"title,omitempty"`
}

// ResponseEntry pairs a response code string with its spec
type ResponseEntry struct {
	Code     string
	Response ResponseSpec
}

// ResponseSet is the ordered collection of declared responses. Declaration
// order is preserved across load and store: success selection picks the first
// entry whose code starts with "2".
type ResponseSet []ResponseEntry

// Get returns the response declared under the given code string
func (rs ResponseSet) Get(code string) (ResponseSpec, bool) {
	for _, e := range rs {
		if e.Code == code {
			return e.Response, true
		}
	}
	return ResponseSpec{}, false
}

// Success returns the first declared 2xx response, if any
func (rs ResponseSet) Success() (ResponseSpec, bool) {
	for _, e := range rs {
		if strings.HasPrefix(e.Code, "2") {
			return e.Response, true
		}
	}
	return ResponseSpec{}, false
}

// UnmarshalJSON decodes the responses object preserving declaration order
func (rs *ResponseSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*rs = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("responses: expected object, got %v", tok)
	}
	out := ResponseSet{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		code, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("responses: invalid key %v", keyTok)
		}
		var spec ResponseSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("responses[%s]: %v", code, err)
		}
		out = append(out, ResponseEntry{Code: code, Response: spec})
	}
	*rs = out
	return nil
}

// MarshalJSON writes the responses object in declaration order
func (rs ResponseSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Code)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Response)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SchemaProperty pairs a property name with its schema, keeping the position
// it was declared at
type SchemaProperty struct {
	Name   string
	Schema *SchemaNode
}

// SchemaNode is a JSON-schema fragment. Properties keep declaration order
// because tie-breaks in identifier inference and generated model layout both
// depend on it.
type SchemaNode struct {
	Type       string
	Format     string
	Enum       []interface{}
	Example    interface{}
	Items      *SchemaNode
	Properties []SchemaProperty
	Required   []string
	Nullable   *bool
}

// Property returns the schema declared under the given property name
func (s *SchemaNode) Property(name string) (*SchemaNode, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// IsRequired reports whether a property must be present: it is listed in the
// required set, or its own schema pins nullable to false
func (s *SchemaNode) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	if prop, ok := s.Property(name); ok && prop != nil && prop.Nullable != nil && !*prop.Nullable {
		return true
	}
	return false
}

// IsObject reports whether the schema describes an object shape
func (s *SchemaNode) IsObject() bool {
	return s.Type == "object" || len(s.Properties) > 0
}

// UnmarshalJSON decodes a schema fragment preserving property order
func (s *SchemaNode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schema: invalid key %v", keyTok)
		}
		switch key {
		case "type":
			if err := dec.Decode(&s.Type); err != nil {
				return fmt.Errorf("schema type: %v", err)
			}
		case "format":
			if err := dec.Decode(&s.Format); err != nil {
				return fmt.Errorf("schema format: %v", err)
			}
		case "enum":
			if err := dec.Decode(&s.Enum); err != nil {
				return fmt.Errorf("schema enum: %v", err)
			}
		case "example":
			if err := dec.Decode(&s.Example); err != nil {
				return fmt.Errorf("schema example: %v", err)
			}
		case "items":
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("schema items: %v", err)
			}
			s.Items = &SchemaNode{}
			if err := json.Unmarshal(raw, s.Items); err != nil {
				return fmt.Errorf("schema items: %v", err)
			}
		case "properties":
			if err := s.decodeProperties(dec); err != nil {
				return err
			}
		case "required":
			if err := dec.Decode(&s.Required); err != nil {
				return fmt.Errorf("schema required: %v", err)
			}
		case "nullable":
			if err := dec.Decode(&s.Nullable); err != nil {
				return fmt.Errorf("schema nullable: %v", err)
			}
		default:
			// Descriptions and vendor extensions are not part of the model
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("schema %s: %v", key, err)
			}
		}
	}
	return nil
}

func (s *SchemaNode) decodeProperties(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema properties: expected object, got %v", tok)
	}
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := nameTok.(string)
		if !ok {
			return fmt.Errorf("schema properties: invalid key %v", nameTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("schema property %s: %v", name, err)
		}
		child := &SchemaNode{}
		if err := json.Unmarshal(raw, child); err != nil {
			return fmt.Errorf("schema property %s: %v", name, err)
		}
		s.Properties = append(s.Properties, SchemaProperty{Name: name, Schema: child})
	}
	// Closing brace of the properties object
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the schema fragment keeping property order
func (s *SchemaNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeField := func(name string, value interface{}) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%q:", name)
		buf.Write(data)
		return nil
	}
	if s.Type != "" {
		if err := writeField("type", s.Type); err != nil {
			return nil, err
		}
	}
	if s.Format != "" {
		if err := writeField("format", s.Format); err != nil {
			return nil, err
		}
	}
	if len(s.Enum) > 0 {
		if err := writeField("enum", s.Enum); err != nil {
			return nil, err
		}
	}
	if s.Example != nil {
		if err := writeField("example", s.Example); err != nil {
			return nil, err
		}
	}
	if s.Items != nil {
		if err := writeField("items", s.Items); err != nil {
			return nil, err
		}
	}
	if len(s.Properties) > 0 {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"properties":{`)
		for i, p := range s.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := json.Marshal(p.Schema)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%q:", p.Name)
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	if len(s.Required) > 0 {
		if err := writeField("required", s.Required); err != nil {
			return nil, err
		}
	}
	if s.Nullable != nil {
		if err := writeField("nullable", *s.Nullable); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
