package emitter

import (
	"fmt"
	"strings"

	"api-scaffolder/internal/pyemit"
)

// pathEntry is one named URL template inside a service paths class
type pathEntry struct {
	Name  string
	Value string
}

// servicePaths collects the generated URL templates of one service
type servicePaths struct {
	Service   string
	ClassName string
	Entries   []pathEntry
}

// buildPathsModule derives the canonical URL templates per service. Dynamic
// segments are stripped from the template and leave a trailing slash, so the
// test client can append a captured identifier.
func (g *Generator) buildPathsModule() []*servicePaths {
	var all []*servicePaths
	for _, svc := range g.services {
		sp := &servicePaths{Service: svc.Name, ClassName: serviceClassName(svc.Name)}
		seen := map[string]bool{}
		for _, ep := range svc.Endpoints {
			if ep.Name == "root" || seen[ep.Name] {
				continue
			}
			seen[ep.Name] = true
			sp.Entries = append(sp.Entries, pathEntry{Name: ep.Name, Value: pathTemplate(ep.Path, svc.Name)})
		}
		all = append(all, sp)
	}
	return all
}

// pathTemplate renders the f-string value for an endpoint path relative to
// its service prefix
func pathTemplate(path, service string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	skip := 1
	if service == "profile" {
		skip = 2
	}
	if len(segments) < skip {
		skip = len(segments)
	}

	var static []string
	dynamic := false
	for _, seg := range segments[skip:] {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			dynamic = true
			continue
		}
		static = append(static, seg)
	}

	relative := strings.Join(static, "/")
	switch {
	case relative == "" && dynamic:
		return `f"{prefix}/"`
	case relative == "":
		return `f"{prefix}"`
	case dynamic:
		return fmt.Sprintf(`f"{prefix}/%s/"`, relative)
	default:
		return fmt.Sprintf(`f"{prefix}/%s"`, relative)
	}
}

// generatePathsArtifact renders the paths module from the per-service URL
// templates
func (g *Generator) generatePathsArtifact(module []*servicePaths) Artifact {
	file := &pyemit.File{
		Imports: []string{
			"from dataclasses import dataclass",
			"from typing import Optional",
		},
	}
	file.Add(pyemit.Raw{fmt.Sprintf("API_PREFIX = %q", g.opts.APIPrefix), ""})

	paths := &pyemit.Class{Name: "Paths", Decorators: []string{"@dataclass"}}
	for _, sp := range module {
		svcClass := &pyemit.Class{Name: sp.ClassName}
		svcClass.Add(pyemit.Assign{
			Name:  "prefix",
			Value: fmt.Sprintf(`f"{API_PREFIX}/%s"`, servicePathSegment(sp.Service)),
		})
		for _, entry := range sp.Entries {
			svcClass.Add(pyemit.Assign{Name: entry.Name, Value: entry.Value})
		}
		paths.Add(svcClass)
	}
	paths.Add(pyemit.Method{
		Name:   "get_path",
		Params: []string{"self", "service: str", "endpoint: str"},
		Body: []string{
			"svc = getattr(self, service, None)",
			"if svc:",
			"    return getattr(svc, endpoint, None)",
			"return None",
		},
	})
	file.Add(paths)
	return Artifact{Name: "paths.py", Content: file.Render()}
}

// namedSpec pairs a parameter name with its resolved value spec
type namedSpec struct {
	Name string
	Spec ValueSpec
}

// endpointParams records the header and query parameters one endpoint takes
type endpointParams struct {
	Service  string
	Endpoint string
	Headers  []namedSpec
	Params   []namedSpec
}

// endpointConfigSet is the full configs-module input: global generator
// registries plus per-endpoint parameter sets
type endpointConfigSet struct {
	HeaderGens *Registry
	ParamGens  *Registry
	Endpoints  []*endpointParams
}

// buildEndpointConfigs assembles the header/parameter generator registries
// and the per-endpoint configs
func (g *Generator) buildEndpointConfigs() *endpointConfigSet {
	set := &endpointConfigSet{
		HeaderGens: defaultHeaderRegistry(),
		ParamGens:  defaultParamRegistry(),
	}
	set.HeaderGens.Put("Authorization", ValueSpec{Kind: GeneratorExpr, Expr: `f'Bearer {token}'`})

	index := map[string]*endpointParams{}
	for _, svc := range g.services {
		for _, ep := range svc.Endpoints {
			id := svc.Name + "_" + ep.Name
			cfg, ok := index[id]
			if !ok {
				cfg = &endpointParams{Service: svc.Name, Endpoint: ep.Name}
				index[id] = cfg
				set.Endpoints = append(set.Endpoints, cfg)
			}
			for _, param := range ep.Parameters {
				spec := specForParameter(param.Schema)
				switch param.Location {
				case "header":
					if !hasNamed(cfg.Headers, param.Name) {
						cfg.Headers = append(cfg.Headers, namedSpec{Name: param.Name, Spec: spec})
					}
					set.HeaderGens.Put(param.Name, spec)
				case "query":
					if !hasNamed(cfg.Params, param.Name) {
						cfg.Params = append(cfg.Params, namedSpec{Name: param.Name, Spec: spec})
					}
					set.ParamGens.Put(param.Name, spec)
				}
			}
		}
	}
	return set
}

func hasNamed(specs []namedSpec, name string) bool {
	for _, s := range specs {
		if s.Name == name {
			return true
		}
	}
	return false
}

// generateConfigsArtifact renders the configs module: endpoint dataclasses,
// the generator tables and the composed config object
func (g *Generator) generateConfigsArtifact(set *endpointConfigSet) Artifact {
	file := &pyemit.File{
		Imports: []string{
			"from dataclasses import dataclass",
			"from typing import Callable, Dict, List",
			"from faker import Faker",
			"from fake_useragent import UserAgent",
			"import random",
		},
	}

	endpoint := &pyemit.Class{Name: "Endpoint", Decorators: []string{"@dataclass"}}
	endpoint.Add(
		pyemit.Field{Name: "headers", Type: "List[str]", Value: "None"},
		pyemit.Field{Name: "params", Type: "List[str]", Value: "None"},
		pyemit.Field{Name: "header_config", Type: "Dict[str, dict]", Value: "None"},
		pyemit.Field{Name: "param_config", Type: "Dict[str, dict]", Value: "None"},
	)
	endpoint.Add(pyemit.Method{
		Name:   "__post_init__",
		Params: []string{"self"},
		Body: []string{
			"self.headers = self.headers or []",
			"self.header_config = self.header_config or {}",
			"self.params = self.params or []",
			"self.param_config = self.param_config or {}",
		},
	})
	file.Add(endpoint)

	service := &pyemit.Class{Name: "Service", Decorators: []string{"@dataclass"}}
	service.Add(pyemit.Field{Name: "endpoints", Type: "Dict[str, Endpoint]", Value: "None"})
	service.Add(pyemit.Method{
		Name:   "__post_init__",
		Params: []string{"self"},
		Body:   []string{"self.endpoints = self.endpoints or {}"},
	})
	file.Add(service)

	config := &pyemit.Class{Name: "EndpointConfig", Decorators: []string{"@dataclass"}}
	config.Add(
		pyemit.Field{Name: "services", Type: "Dict[str, Service]", Value: "None"},
		pyemit.Field{Name: "header_generators", Type: "Dict[str, Callable]", Value: "None"},
		pyemit.Field{Name: "param_generators", Type: "Dict[str, Callable]", Value: "None"},
	)

	var initBody []string
	initBody = append(initBody,
		"self.services = self.services or {}",
		fmt.Sprintf("self._faker = Faker(locale=%s)", pyemit.StringLiteral(g.opts.FakerLocale)),
		"self._ua = UserAgent()",
		"",
		"self.header_generators = self.header_generators or {",
	)
	for _, name := range set.HeaderGens.Names() {
		spec, _ := set.HeaderGens.Get(name)
		expr := spec.PyExpr()
		if name == "Authorization" {
			// Token-taking generator, resolved by the headers manager
			expr = `lambda token: f'Bearer {token}'`
		}
		initBody = append(initBody, fmt.Sprintf("    %s: %s,", pyemit.StringLiteral(name), expr))
	}
	initBody = append(initBody, "}", "", "self.param_generators = self.param_generators or {")
	for _, name := range set.ParamGens.Names() {
		spec, _ := set.ParamGens.Get(name)
		initBody = append(initBody, fmt.Sprintf("    %s: %s,", pyemit.StringLiteral(name), spec.PyExpr()))
	}
	initBody = append(initBody, "}")
	config.Add(pyemit.Method{Name: "__post_init__", Params: []string{"self"}, Body: initBody})
	config.Add(pyemit.Method{
		Name:   "get_endpoint_config",
		Params: []string{"self", "service: str", "endpoint: str"},
		Body: []string{
			"svc = self.services.get(service, None)",
			"if svc is None or endpoint not in svc.endpoints:",
			"    raise ValueError(f'No endpoint config for {service}/{endpoint}')",
			"return svc.endpoints[endpoint]",
		},
	})
	file.Add(config)

	var composed []string
	composed = append(composed, "config = EndpointConfig(", "    services={")
	byService := map[string][]*endpointParams{}
	var serviceOrder []string
	for _, cfg := range set.Endpoints {
		if _, ok := byService[cfg.Service]; !ok {
			serviceOrder = append(serviceOrder, cfg.Service)
		}
		byService[cfg.Service] = append(byService[cfg.Service], cfg)
	}
	for _, svcName := range serviceOrder {
		composed = append(composed,
			fmt.Sprintf("        %s: Service(", pyemit.StringLiteral(svcName)),
			"            endpoints={")
		for _, cfg := range byService[svcName] {
			composed = append(composed,
				fmt.Sprintf("                %s: Endpoint(", pyemit.StringLiteral(cfg.Endpoint)),
				fmt.Sprintf("                    headers=%s,", namedSpecNames(cfg.Headers)),
				fmt.Sprintf("                    header_config=%s,", namedSpecConfig(cfg.Headers)),
				fmt.Sprintf("                    params=%s,", namedSpecNames(cfg.Params)),
				fmt.Sprintf("                    param_config=%s", namedSpecConfig(cfg.Params)),
				"                ),")
		}
		composed = append(composed, "            }", "       ),")
	}
	composed = append(composed, "    }", ")")
	file.Add(pyemit.Raw(composed))

	return Artifact{Name: "configs.py", Content: file.Render()}
}

func namedSpecNames(specs []namedSpec) string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = pyemit.StringLiteral(s.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func namedSpecConfig(specs []namedSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("%s: %s", pyemit.StringLiteral(s.Name), s.Spec.ConfigLiteral())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
