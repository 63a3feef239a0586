// Package emitter turns classifier groupings and the inferred identifier
// mappings into the textual artifacts of the scaffolded test project.
package emitter

import (
	"sort"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/inference"
	"api-scaffolder/internal/schemamap"
)

// Artifact is one generated source file: a relative name and its content
type Artifact struct {
	Name    string
	Content string
}

// Options controls generation-time knobs for the emitted project
type Options struct {
	// APIPrefix is baked into the generated paths module
	APIPrefix string
	// FakerLocale seeds the synthetic-data provider in payload builders
	FakerLocale string
	// Seeds carries enrichment values keyed by catalog key then property
	// name; a seeded property gets a fixed literal instead of a generator
	Seeds map[string]map[string]interface{}
}

// Output groups the generated artifacts by category. The assembler decides
// where each category lands in the project tree.
type Output struct {
	Endpoints   []Artifact
	Validations []Artifact
	Payloads    []Artifact
	Collections []Artifact
	Tests       []Artifact
}

// Generator produces all artifact categories for one classified catalog
type Generator struct {
	services []*classifier.Service
	mappings *inference.Mappings
	opts     Options
}

// New creates a generator over the classified services and their inferred
// identifier mappings
func New(services []*classifier.Service, mappings *inference.Mappings, opts Options) *Generator {
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}
	if opts.FakerLocale == "" {
		opts.FakerLocale = "en_US"
	}
	return &Generator{services: services, mappings: mappings, opts: opts}
}

// Generate produces every artifact category. Artifacts are pure values;
// nothing is written here.
func (g *Generator) Generate() *Output {
	out := &Output{}

	validationRefs := g.generateValidations(out)
	payloadRefs := g.generatePayloads(out)
	pathsModule := g.buildPathsModule()
	endpointConfigs := g.buildEndpointConfigs()

	out.Endpoints = append(out.Endpoints,
		g.generatePathsArtifact(pathsModule),
		g.generateConfigsArtifact(endpointConfigs),
	)
	out.Collections = g.generateCollections(validationRefs, payloadRefs, pathsModule, endpointConfigs)
	out.Tests = g.generateTests()
	return out
}

// modelKey is the canonical identifier for an endpoint within artifact and
// attribute names: the bare service for its root endpoint, otherwise
// service_endpoint
func modelKey(svc *classifier.Service, ep *classifier.Endpoint) string {
	if ep.Name == "root" || ep.Name == svc.Name {
		return svc.Name
	}
	return svc.Name + "_" + ep.Name
}

// serviceClassName maps a service key to its generated class name; the
// profile service keeps its two-segment origin visible
func serviceClassName(service string) string {
	if service == "profile" {
		return "UsersProfile"
	}
	return schemamap.SnakeToCamel(service)
}

// servicePathSegment maps a service key back to its URL segment
func servicePathSegment(service string) string {
	if service == "profile" {
		return "users/profile"
	}
	return service
}

// orderedEndpoints returns the service's endpoints sorted for test emission:
// POST, PUT, GET, PATCH, DELETE, then by path as a stable secondary key
func orderedEndpoints(svc *classifier.Service) []*classifier.Endpoint {
	order := map[string]int{"POST": 0, "PUT": 1, "GET": 2, "PATCH": 3, "DELETE": 4}
	rank := func(m string) int {
		if r, ok := order[m]; ok {
			return r
		}
		return 5
	}
	sorted := make([]*classifier.Endpoint, len(svc.Endpoints))
	copy(sorted, svc.Endpoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		if rank(sorted[i].Method) != rank(sorted[j].Method) {
			return rank(sorted[i].Method) < rank(sorted[j].Method)
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

// testNameFor synthesizes the generated test method name for an endpoint
func testNameFor(svc *classifier.Service, ep *classifier.Endpoint) string {
	return ep.TestName(svc.Name)
}
