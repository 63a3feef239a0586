package inference

import (
	"fmt"
	"strings"
	"unicode"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/types"
)

// WholeResponse is the sentinel identifier field meaning "the entire response
// body is the identifier value", used when a creation operation returns a
// bare string instead of an object.
const WholeResponse = "response"

// Mapping records, for one service, which creation operation produces a
// durable resource identifier and which dependent operations consume it
type Mapping struct {
	// SourceKey is the catalog key of the creation operation
	SourceKey string
	// SourceTestName is the generated test method the identifier is
	// captured in
	SourceTestName string
	// IDField names the response field holding the identifier, or the
	// WholeResponse sentinel
	IDField string
	// UsedIn lists catalog keys of operations that consume the identifier
	// as a path parameter
	UsedIn []string
}

// Skipped records a qualifying creation operation that was not used because
// its service already had a mapping
type Skipped struct {
	Service string
	Key     string
}

// Mappings holds the per-service identifier mappings in service first-seen
// order
type Mappings struct {
	services []string
	byName   map[string]*Mapping

	// Skipped lists later qualifying POSTs whose mapping was not recorded;
	// the first qualifying creation per service wins
	Skipped []Skipped
}

// Get returns the mapping for a service, if one was inferred
func (m *Mappings) Get(service string) (*Mapping, bool) {
	mp, ok := m.byName[service]
	return mp, ok
}

// Services returns the services with a mapping, in first-seen order
func (m *Mappings) Services() []string {
	return m.services
}

// DependsOn reports whether the given operation key consumes the service's
// captured identifier
func (m *Mappings) DependsOn(service, key string) bool {
	mp, ok := m.byName[service]
	if !ok {
		return false
	}
	for _, k := range mp.UsedIn {
		if k == key {
			return true
		}
	}
	return false
}

// FindResourceIDField determines which field of a candidate operation's
// success response represents a durable resource identifier. It returns
// false when no identifier can be inferred, which is not an error: the
// service simply gets no dependency wiring.
func FindResourceIDField(svc *classifier.Service, responses types.ResponseSet) (string, bool) {
	success, ok := responses.Success()
	if !ok || success.Schema == nil {
		return "", false
	}
	schema := success.Schema

	switch {
	case success.ContentType == "text/plain" && schema.Type == "string" && schema.Format == "uuid":
		// The response body is a bare uuid; synthesize a field name from
		// the service even though no literal field exists
		return fmt.Sprintf("%sId", strings.ToLower(svc.Name)), true
	case schema.Type == "string":
		return WholeResponse, true
	case schema.IsObject() && len(schema.Properties) > 0:
		pathParams := svc.PathParameterSet()
		for _, param := range pathParams {
			if _, ok := schema.Property(param); ok {
				return param, true
			}
		}
		for _, param := range pathParams {
			snake := camelToSnake(param)
			if _, ok := schema.Property(snake); ok {
				return snake, true
			}
		}
		for _, prop := range schema.Properties {
			if strings.Contains(strings.ToLower(prop.Name), "id") && prop.Schema != nil && prop.Schema.Format == "uuid" {
				return prop.Name, true
			}
		}
	}
	return "", false
}

// PredictIDUsage computes identifier mappings for every service: which POST
// captures an identifier and which dependent operations consume it. The
// first qualifying POST per service wins; later candidates are recorded in
// Skipped.
func PredictIDUsage(services []*classifier.Service) *Mappings {
	mappings := &Mappings{byName: map[string]*Mapping{}}

	for _, svc := range services {
		for _, ep := range svc.Endpoints {
			if ep.Method != "POST" {
				continue
			}
			if !hasCreationSuccess(ep.Responses) {
				continue
			}
			field, ok := FindResourceIDField(svc, ep.Responses)
			if !ok {
				continue
			}
			if _, exists := mappings.byName[svc.Name]; exists {
				mappings.Skipped = append(mappings.Skipped, Skipped{Service: svc.Name, Key: ep.Key})
				continue
			}
			mappings.byName[svc.Name] = &Mapping{
				SourceKey:      ep.Key,
				SourceTestName: ep.TestName(svc.Name),
				IDField:        field,
			}
			mappings.services = append(mappings.services, svc.Name)
		}
	}

	for _, svc := range services {
		mapping, ok := mappings.byName[svc.Name]
		if !ok {
			continue
		}
		for _, ep := range svc.Endpoints {
			switch ep.Method {
			case "GET", "PUT", "DELETE", "PATCH":
			default:
				continue
			}
			for _, param := range ep.Parameters {
				if param.Location != "path" {
					continue
				}
				if param.Name == mapping.IDField || isIDParam(param.Name) {
					mapping.UsedIn = append(mapping.UsedIn, ep.Key)
					break
				}
			}
		}
	}
	return mappings
}

// hasCreationSuccess reports whether the operation declares a 200 or 201
// response, the codes that qualify a POST as an identifier source
func hasCreationSuccess(responses types.ResponseSet) bool {
	for _, code := range []string{"200", "201"} {
		if _, ok := responses.Get(code); ok {
			return true
		}
	}
	return false
}

// isIDParam reports whether a path-parameter name denotes an identifier. The
// name is split on camelCase and underscore boundaries and must contain an
// "id" token; plain substring matching would misfire on names like "valid".
func isIDParam(name string) bool {
	for _, token := range splitNameTokens(name) {
		if strings.EqualFold(token, "id") {
			return true
		}
	}
	return false
}

func splitNameTokens(name string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	prevUpper := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			flush()
			prevUpper = false
		case unicode.IsUpper(r):
			// Runs of capitals ("ID") stay one token
			if !prevUpper {
				flush()
			}
			cur.WriteRune(unicode.ToLower(r))
			prevUpper = true
		default:
			cur.WriteRune(r)
			prevUpper = false
		}
	}
	flush()
	return tokens
}

// camelToSnake converts a camelCase parameter name to snake_case, so a path
// parameter "addressId" can match a response property "address_id"
func camelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
