package classifier

import (
	"strings"

	"api-scaffolder/internal/catalog"
	"api-scaffolder/internal/types"
)

// Endpoint is one classified operation: the catalog record plus the derived
// names the generators key artifacts by
type Endpoint struct {
	Key         string
	Path        string
	Method      string
	Description string
	Parameters  []types.ParameterSpec
	RequestBody *types.RequestBodySpec
	Responses   types.ResponseSet

	// Name is the sanitized endpoint name within its service ("root" for
	// the bare service path)
	Name       string
	PathParams []string
	Title      string
}

// TestName synthesizes the generated test method name for the endpoint.
// Dependency markers and their depends references both use this name, so
// every emitter must go through it.
func (e *Endpoint) TestName(service string) string {
	suffix := "default"
	switch {
	case e.Name == "root" || e.Name == service:
	case len(e.PathParams) > 0:
		suffix = e.Name + "_id_default"
	default:
		suffix = e.Name + "_default"
	}
	return "test_" + strings.ToLower(e.Method) + "_" + service + "_" + suffix
}

// Service is the ordered collection of endpoints sharing a derived service
// key. Endpoints appear in catalog order.
type Service struct {
	Name      string
	Title     string
	Endpoints []*Endpoint
}

// CleanName sanitizes an identifier derived from a path segment or filename:
// braces are removed, dashes, dots and spaces become underscores. The
// function is idempotent.
func CleanName(name string) string {
	r := strings.NewReplacer("{", "", "}", "", "-", "_", ".", "_", " ", "_")
	return r.Replace(name)
}

// Classify derives (service, title, endpointName) for a catalog key and its
// record. Paths under users/profile collapse into the "profile" service.
func Classify(key string, record types.EndpointRecord) (service, title, endpointName string) {
	title = strings.ToLower(record.Source.Title)
	if title == "" {
		title = "common"
	}
	title = CleanName(title)

	path := record.Path
	if path == "" {
		_, path = catalog.SplitKey(key)
	}
	segments := splitPath(path)

	var rest []string
	switch {
	case len(segments) >= 2 && segments[0] == "users" && segments[1] == "profile":
		service = "profile"
		rest = segments[2:]
	case len(segments) > 0:
		service = CleanName(strings.ToLower(segments[0]))
		rest = segments[1:]
	default:
		service = "common"
	}
	if service == "" {
		service = "common"
	}

	endpointName = CleanName(strings.Join(rest, "_"))
	if endpointName == "" {
		endpointName = "root"
	}
	return service, title, endpointName
}

// GroupByService groups catalog entries into services, first-seen order
func GroupByService(cat *catalog.Catalog) []*Service {
	var services []*Service
	index := map[string]*Service{}

	for _, entry := range cat.Entries {
		service, title, name := Classify(entry.Key, entry.Record)

		grp, ok := index[service]
		if !ok {
			grp = &Service{Name: service, Title: title}
			index[service] = grp
			services = append(services, grp)
		}

		var pathParams []string
		for _, p := range entry.Record.Parameters {
			if p.Location == "path" {
				pathParams = append(pathParams, p.Name)
			}
		}

		grp.Endpoints = append(grp.Endpoints, &Endpoint{
			Key:         entry.Key,
			Path:        entry.Record.Path,
			Method:      entry.Record.Method,
			Description: entry.Record.Description,
			Parameters:  entry.Record.Parameters,
			RequestBody: entry.Record.RequestBody,
			Responses:   entry.Record.Responses,
			Name:        name,
			PathParams:  pathParams,
			Title:       title,
		})
	}
	return services
}

// PathParameterSet returns the union of path-parameter names across the
// service's non-POST operations, in first-seen order
func (s *Service) PathParameterSet() []string {
	var params []string
	seen := map[string]bool{}
	for _, ep := range s.Endpoints {
		if ep.Method == "POST" {
			continue
		}
		for _, name := range ep.PathParams {
			if !seen[name] {
				seen[name] = true
				params = append(params, name)
			}
		}
	}
	return params
}

// Titles returns the distinct catalog titles across services, first-seen order
func Titles(services []*Service) []string {
	var titles []string
	seen := map[string]bool{}
	for _, svc := range services {
		if !seen[svc.Title] {
			seen[svc.Title] = true
			titles = append(titles, svc.Title)
		}
	}
	return titles
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
