package emitter

import (
	"fmt"
	"sort"
	"strings"

	"api-scaffolder/internal/pyemit"
	"api-scaffolder/internal/schemamap"
)

// generateCollections assembles one composed namespace module per catalog
// title, wiring together the validations, payloads, paths, headers and
// params generated for that title, plus the top-level collections manager
func (g *Generator) generateCollections(validations, payloads []artifactRef, pathsModule []*servicePaths, configs *endpointConfigSet) []Artifact {
	titles := g.titles()

	var artifacts []Artifact
	for _, title := range titles {
		artifacts = append(artifacts, Artifact{
			Name:    fmt.Sprintf("%s_collection.py", title),
			Content: g.collectionFile(title, validations, payloads, pathsModule, configs),
		})
	}
	artifacts = append(artifacts, g.collectionsManager(titles))
	return artifacts
}

func (g *Generator) titles() []string {
	var titles []string
	seen := map[string]bool{}
	for _, svc := range g.services {
		if !seen[svc.Title] {
			seen[svc.Title] = true
			titles = append(titles, svc.Title)
		}
	}
	return titles
}

func (g *Generator) collectionFile(title string, validations, payloads []artifactRef, pathsModule []*servicePaths, configs *endpointConfigSet) string {
	titleValidations := filterRefs(validations, title)
	titlePayloads := filterRefs(payloads, title)
	titleServices := map[string]bool{}
	for _, svc := range g.services {
		if svc.Title == title {
			titleServices[svc.Name] = true
		}
	}

	file := &pyemit.File{}
	file.Imports = append(file.Imports, importLines("src.models.validations."+title, titleValidations)...)
	file.Imports = append(file.Imports, importLines("src.models.payloads."+title, titlePayloads)...)
	file.Imports = append(file.Imports,
		"from apikit.utils.headers_manager import HeadersManager",
		"from apikit.utils.params_manager import ParamsManager",
		"from src.models.endpoints.configs import config",
		"from src.models.endpoints.paths import Paths",
	)

	valCls := &pyemit.Class{Name: "ModelsValidations"}
	for _, ref := range titleValidations {
		valCls.Add(
			pyemit.Assign{Name: ref.Attr + "_validation_success", Value: ref.Stem + ".ValidateResponseSuccess"},
			pyemit.Assign{Name: ref.Attr + "_validation_error", Value: ref.Stem + ".ValidateResponseError"},
		)
	}
	file.Add(valCls)

	payCls := &pyemit.Class{Name: "ModelsPayloads"}
	for _, ref := range titlePayloads {
		payCls.Add(
			pyemit.Assign{Name: ref.Attr + "_payload_default", Value: ref.Stem + ".RequestBody().json_serialized"},
			pyemit.Assign{Name: ref.Attr + "_payload_req", Value: ref.Stem + ".RequestBody.get_json_required()"},
			pyemit.Assign{Name: ref.Attr + "_payload_req_fields", Value: ref.Stem + ".RequestBody.get_required_fields()"},
		)
	}
	for _, ref := range titlePayloads {
		payCls.Add(pyemit.Method{
			Name:       fmt.Sprintf("parametrize_req_%s_payload", ref.Attr),
			Decorators: []string{"@staticmethod"},
			Params:     []string{"req"},
			Body:       []string{fmt.Sprintf("return %s.RequestBody.get_json_miss_required(req)", ref.Stem)},
		})
	}
	file.Add(payCls)

	pathsCls := &pyemit.Class{Name: "ModelsPaths"}
	for _, sp := range pathsModule {
		if !titleServices[sp.Service] {
			continue
		}
		pathsCls.Add(pyemit.Assign{Name: sp.Service, Value: fmt.Sprintf("Paths.%s.prefix", sp.ClassName)})
		for _, entry := range sp.Entries {
			pathsCls.Add(pyemit.Assign{
				Name:  fmt.Sprintf("%s_%s", sp.Service, entry.Name),
				Value: fmt.Sprintf("Paths.%s.%s", sp.ClassName, entry.Name),
			})
		}
	}
	file.Add(pathsCls)

	file.Add(g.headersClass(titleServices, configs))
	file.Add(g.paramsClass(titleServices, configs))

	pages := &pyemit.Class{Name: "PagesModels"}
	pages.Add(pyemit.Method{
		Name:   "__init__",
		Params: []string{"self", "token: str = ''"},
		Body: []string{
			"self.validate = ModelsValidations()",
			"self.payload = ModelsPayloads()",
			"self.paths = ModelsPaths()",
			"self.headers = ModelsHeaders(token=token)",
			"self.params = ModelsParams()",
		},
	})
	file.Add(pages)
	return file.Render()
}

func (g *Generator) headersClass(titleServices map[string]bool, configs *endpointConfigSet) *pyemit.Class {
	cls := &pyemit.Class{Name: "ModelsHeaders"}
	body := []string{
		"self._headers_manager = HeadersManager(config, token=token)",
		`self.base = {'Authorization': f'Bearer {token}'}`,
		"self.auth = self.get_headers()",
	}
	for _, svcName := range sortedServices(titleServices) {
		if serviceHasHeaders(configs, svcName) {
			body = append(body, fmt.Sprintf("self.%s = self.get_headers(%s)", svcName, pyemit.StringLiteral(svcName)))
		}
	}
	cls.Add(pyemit.Method{Name: "__init__", Params: []string{"self", "token: str"}, Body: body})
	cls.Add(pyemit.Method{
		Name:   "get_headers",
		Params: []string{"self", "endpoint: str = None"},
		Body: []string{
			"if endpoint:",
			"    return self._headers_manager.generate_headers('user', endpoint)",
			"return self.base",
		},
	})
	return cls
}

func (g *Generator) paramsClass(titleServices map[string]bool, configs *endpointConfigSet) *pyemit.Class {
	cls := &pyemit.Class{Name: "ModelsParams"}
	body := []string{"self._params_manager = ParamsManager(config)"}
	for _, cfg := range configs.Endpoints {
		if !titleServices[cfg.Service] || len(cfg.Params) == 0 {
			continue
		}
		attr := cfg.Service
		if cfg.Endpoint != "root" {
			attr = cfg.Service + "_" + cfg.Endpoint
		}
		body = append(body, fmt.Sprintf("self.%s = self.get_params(%s)",
			attr, pyemit.StringLiteral(cfg.Service+"_"+cfg.Endpoint)))
	}
	cls.Add(pyemit.Method{Name: "__init__", Params: []string{"self"}, Body: body})
	cls.Add(pyemit.Method{
		Name:   "get_params",
		Params: []string{"self", "endpoint: str = None"},
		Body: []string{
			"if endpoint:",
			"    return self._params_manager.generate_params('user', endpoint)",
			"return {}",
		},
	})
	return cls
}

// collectionsManager composes every title collection into one entry point
// the generated conftest instantiates
func (g *Generator) collectionsManager(titles []string) Artifact {
	file := &pyemit.File{}
	for _, title := range titles {
		file.Imports = append(file.Imports, fmt.Sprintf(
			"from src.models.collections.%s_collection import PagesModels as %sPagesModels",
			title, schemamap.SnakeToCamel(title)))
	}

	cls := &pyemit.Class{Name: "ModelsManager"}
	body := make([]string, 0, len(titles))
	for _, title := range titles {
		body = append(body, fmt.Sprintf("self.%s = %sPagesModels(token=token)",
			title, schemamap.SnakeToCamel(title)))
	}
	cls.Add(pyemit.Method{Name: "__init__", Params: []string{"self", "token: str = ''"}, Body: body})
	file.Add(cls)
	return Artifact{Name: "collections_manager.py", Content: file.Render()}
}

func filterRefs(refs []artifactRef, title string) []artifactRef {
	var out []artifactRef
	for _, ref := range refs {
		if ref.Title == title {
			out = append(out, ref)
		}
	}
	return out
}

// importLines builds one import statement per service directory, listing the
// generated module stems it contains
func importLines(basePath string, refs []artifactRef) []string {
	byService := map[string][]string{}
	var order []string
	for _, ref := range refs {
		if _, ok := byService[ref.Service]; !ok {
			order = append(order, ref.Service)
		}
		byService[ref.Service] = append(byService[ref.Service], ref.Stem)
	}
	var lines []string
	for _, svc := range order {
		stems := byService[svc]
		sort.Strings(stems)
		lines = append(lines, fmt.Sprintf("from %s.%s import %s", basePath, svc, strings.Join(stems, ", ")))
	}
	return lines
}

func sortedServices(set map[string]bool) []string {
	var names []string
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func serviceHasHeaders(configs *endpointConfigSet, service string) bool {
	for _, cfg := range configs.Endpoints {
		if cfg.Service == service && len(cfg.Headers) > 0 {
			return true
		}
	}
	return false
}
