package emitter

import (
	"fmt"
	"strings"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/inference"
	"api-scaffolder/internal/pyemit"
	"api-scaffolder/internal/schemamap"
)

// generateTests emits one test class per service, methods ordered
// POST, PUT, GET, PATCH, DELETE then by path. Create/read/update/delete
// flows share state through a per-service fixture: only the designated
// creation test writes the captured identifier, dependent tests read it.
func (g *Generator) generateTests() []Artifact {
	var artifacts []Artifact
	for _, svc := range g.services {
		artifacts = append(artifacts, Artifact{
			Name:    fmt.Sprintf("%s/%s/test_%s_default.py", svc.Title, svc.Name, svc.Name),
			Content: g.testFile(svc),
		})
	}
	return artifacts
}

func (g *Generator) testFile(svc *classifier.Service) string {
	file := &pyemit.File{
		Imports: []string{
			"import allure",
			"import pytest",
		},
	}

	mapping, hasMapping := g.mappings.Get(svc.Name)
	stateFixture := svc.Name + "_state"
	if hasMapping {
		state := &pyemit.Class{Name: "ResourceState"}
		state.Add(pyemit.Raw{`"""Holds the identifier captured by the creation test."""`})
		state.Add(pyemit.Field{Name: "resource_id", Type: "str", Value: "None"})
		file.Add(state)
		file.Add(pyemit.Method{
			Name:       stateFixture,
			Decorators: []string{`@pytest.fixture(scope="class")`},
			Body:       []string{"return ResourceState()"},
		})
	}

	className := "Test" + serviceClassName(svc.Name) + "Default"
	cls := &pyemit.Class{
		Name: className,
		Decorators: []string{
			fmt.Sprintf("@allure.story(%s)", pyemit.StringLiteral(serviceClassName(svc.Name))),
			`@allure.label("suite", "API")`,
			fmt.Sprintf("@allure.label(\"component\", %s)", pyemit.StringLiteral(serviceClassName(svc.Name))),
			fmt.Sprintf("@allure.label(\"owner\", %s)", pyemit.StringLiteral(schemamap.SnakeToCamel(svc.Title))),
			"@pytest.mark.asyncio",
		},
	}

	for _, ep := range orderedEndpoints(svc) {
		method := g.testMethod(svc, ep, mapping, hasMapping, stateFixture)
		if method != nil {
			cls.Add(*method)
		}
	}
	file.Add(cls)
	return file.Render()
}

func (g *Generator) testMethod(svc *classifier.Service, ep *classifier.Endpoint, mapping *inference.Mapping, hasMapping bool, stateFixture string) *pyemit.Method {
	success, ok := ep.Responses.Success()
	if !ok {
		// Without a declared success there is nothing to assert against
		return nil
	}

	testName := testNameFor(svc, ep)
	key := modelKey(svc, ep)
	methodLower := strings.ToLower(ep.Method)
	title := svc.Title

	dependent := hasMapping && g.mappings.DependsOn(svc.Name, ep.Key)
	captures := hasMapping && success.StatusCode == 201 && ep.Key == mapping.SourceKey

	params := []string{"self", "domain", "api_client", "models"}
	if hasMapping {
		params = append(params, stateFixture)
	}

	depMark := fmt.Sprintf("@pytest.mark.dependency(name=%s)", pyemit.StringLiteral(testName))
	if dependent {
		depMark = fmt.Sprintf("@pytest.mark.dependency(name=%s, depends=[%s], force=True)",
			pyemit.StringLiteral(testName), pyemit.StringLiteral(mapping.SourceTestName))
	}

	var body []string
	if dependent {
		body = append(body, fmt.Sprintf("add_url = f'{%s.resource_id}'", stateFixture))
	}
	body = append(body,
		"response = await api_client.make_request(",
		fmt.Sprintf("    %s,", pyemit.StringLiteral(ep.Method)),
		fmt.Sprintf("    models.%s.paths.%s,", title, key),
		fmt.Sprintf("    headers=models.%s.headers.auth,", title),
	)
	if ep.RequestBody != nil && (ep.Method == "POST" || ep.Method == "PUT") {
		body = append(body, fmt.Sprintf("    data_type=models.%s.payload.%s_%s_payload_default,", title, methodLower, key))
	}
	if dependent {
		body = append(body, "    add_url1=add_url,")
	}
	body = append(body, fmt.Sprintf("    expected_status_code=%d,", success.StatusCode))
	if success.Schema != nil && success.Schema.Type != "null" {
		body = append(body, fmt.Sprintf("    validate_model=models.%s.validate.%s_%s_validation_success", title, methodLower, key))
	}
	body = append(body, ")")

	switch {
	case captures:
		body = append(body, "assert response is not None")
		if mapping.IDField == inference.WholeResponse {
			body = append(body, fmt.Sprintf("%s.resource_id = response", stateFixture))
		} else {
			body = append(body, fmt.Sprintf("%s.resource_id = response[%s]", stateFixture, pyemit.StringLiteral(mapping.IDField)))
		}
	case success.StatusCode == 204:
		body = append(body, "assert response == ''")
	default:
		body = append(body, "assert response is not None")
	}

	return &pyemit.Method{
		Name:       testName,
		Decorators: []string{depMark},
		Params:     params,
		Async:      true,
		Body:       body,
	}
}
