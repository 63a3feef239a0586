// Package parser normalizes a Swagger/OpenAPI document into the endpoint
// catalog the generators consume.
package parser

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"api-scaffolder/internal/catalog"
	"api-scaffolder/internal/types"
)

// methodOrder fixes the catalog order of operations within one path
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Parser normalizes OpenAPI documents into catalogs
type Parser struct {
	client *http.Client
	doc    *openapi3.T
}

// NewParser creates a parser
func NewParser() *Parser {
	return &Parser{client: &http.Client{}}
}

// ParseFile loads an OpenAPI document from disk and normalizes it
func (p *Parser) ParseFile(path string) (*catalog.Catalog, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI doc from %s: %v", path, err)
	}
	p.doc = doc
	return p.normalize(), nil
}

// ParseURL fetches an OpenAPI document from a base URL, probing the common
// documentation endpoints, and normalizes it
func (p *Parser) ParseURL(baseURL string) (*catalog.Catalog, error) {
	urls := []string{
		fmt.Sprintf("%s/swagger/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/swagger.json", baseURL),
		fmt.Sprintf("%s/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/api/swagger.json", baseURL),
		fmt.Sprintf("%s/api/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/openapi.json", baseURL),
		fmt.Sprintf("%s/swagger", baseURL),
	}

	var lastErr error
	for _, url := range urls {
		doc, err := p.fetchDoc(url)
		if err == nil {
			p.doc = doc
			return p.normalize(), nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to fetch OpenAPI documentation from any known URL. Last error: %v", lastErr)
}

func (p *Parser) fetchDoc(url string) (*openapi3.T, error) {
	resp, err := p.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %v", err)
	}
	return doc, nil
}

// normalize flattens the document into the ordered catalog. Paths are
// ordered lexically, operations by a fixed method order, so repeated runs
// over the same document produce the same catalog.
func (p *Parser) normalize() *catalog.Catalog {
	title := "common"
	if p.doc.Info != nil && p.doc.Info.Title != "" {
		title = p.doc.Info.Title
	}

	paths := p.doc.Paths.Map()
	pathKeys := make([]string, 0, len(paths))
	for path := range paths {
		pathKeys = append(pathKeys, path)
	}
	sort.Strings(pathKeys)

	cat := &catalog.Catalog{}
	for _, path := range pathKeys {
		operations := paths[path].Operations()
		for _, method := range methodOrder {
			op, ok := operations[method]
			if !ok {
				continue
			}
			record := p.normalizeOperation(path, method, op, title)
			cat.Entries = append(cat.Entries, catalog.Entry{
				Key:    fmt.Sprintf("%s %s", method, path),
				Record: record,
			})
		}
	}
	return cat
}

func (p *Parser) normalizeOperation(path, method string, op *openapi3.Operation, title string) types.EndpointRecord {
	record := types.EndpointRecord{
		Path:        path,
		Method:      method,
		Description: strings.TrimSpace(op.Summary + " " + op.Description),
		Source:      types.SourceInfo{Title: title},
	}

	for _, paramRef := range op.Parameters {
		if paramRef.Value == nil {
			continue
		}
		param := paramRef.Value
		var schema *types.SchemaNode
		if param.Schema != nil {
			schema = convertSchema(param.Schema.Value)
		}
		record.Parameters = append(record.Parameters, types.ParameterSpec{
			Name:     param.Name,
			Location: param.In,
			Required: param.Required,
			Schema:   schema,
		})
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		contentType, media := pickContent(op.RequestBody.Value.Content)
		if media != nil && media.Schema != nil {
			record.RequestBody = &types.RequestBodySpec{
				ContentType: contentType,
				Required:    op.RequestBody.Value.Required,
				Schema:      convertSchema(media.Schema.Value),
			}
		}
	}

	record.Responses = normalizeResponses(op.Responses)
	return record
}

func normalizeResponses(responses *openapi3.Responses) types.ResponseSet {
	if responses == nil {
		return nil
	}
	respMap := responses.Map()
	codes := make([]string, 0, len(respMap))
	for code := range respMap {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var set types.ResponseSet
	for _, code := range codes {
		statusCode, err := strconv.Atoi(code)
		if err != nil {
			continue
		}
		ref := respMap[code]
		if ref.Value == nil {
			continue
		}

		spec := types.ResponseSpec{StatusCode: statusCode}
		if ref.Value.Description != nil {
			spec.Description = *ref.Value.Description
		}
		contentType, media := pickContent(ref.Value.Content)
		if media != nil && media.Schema != nil {
			spec.ContentType = contentType
			spec.Schema = convertSchema(media.Schema.Value)
		}
		set = append(set, types.ResponseEntry{Code: code, Response: spec})
	}
	return set
}

// pickContent selects the media type to normalize: application/json when
// present, otherwise the lexically first entry
func pickContent(content openapi3.Content) (string, *openapi3.MediaType) {
	if media, ok := content["application/json"]; ok {
		return "application/json", media
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		return k, content[k]
	}
	return "", nil
}

// convertSchema maps a resolved openapi3 schema onto the catalog schema
// shape. Property names are ordered lexically: kin-openapi holds them in a
// map, so document order is already lost by this point.
func convertSchema(s *openapi3.Schema) *types.SchemaNode {
	if s == nil {
		return nil
	}
	node := &types.SchemaNode{
		Format:   s.Format,
		Enum:     s.Enum,
		Example:  s.Example,
		Required: s.Required,
	}
	if s.Type != nil && len(*s.Type) > 0 {
		node.Type = (*s.Type)[0]
	}
	if s.Nullable {
		nullable := true
		node.Nullable = &nullable
	}
	if s.Items != nil {
		node.Items = convertSchema(s.Items.Value)
	}
	if len(s.Properties) > 0 {
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			node.Properties = append(node.Properties, types.SchemaProperty{
				Name:   name,
				Schema: convertSchema(s.Properties[name].Value),
			})
		}
	}
	return node
}
