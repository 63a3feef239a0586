package emitter

import (
	"fmt"
	"strings"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/pyemit"
	"api-scaffolder/internal/schemamap"
	"api-scaffolder/internal/types"
)

// artifactRef ties a generated per-endpoint module to the attribute names
// the collection aggregator exposes it under
type artifactRef struct {
	Title   string
	Service string
	Stem    string
	Attr    string
}

// errorSchema is the common error envelope every generated validation module
// declares a model for
var errorSchema = &types.SchemaNode{
	Type: "object",
	Properties: []types.SchemaProperty{
		{Name: "applicationErrorCode", Schema: &types.SchemaNode{Type: "string"}},
		{Name: "message", Schema: &types.SchemaNode{Type: "string"}},
		{Name: "debug", Schema: &types.SchemaNode{Type: "string"}},
	},
	Required: []string{"applicationErrorCode", "message", "debug"},
}

// generateValidations emits one validation module per endpoint: an error
// model, the success-response models, and the two validation entry points
func (g *Generator) generateValidations(out *Output) []artifactRef {
	var refs []artifactRef
	for _, svc := range g.services {
		for _, ep := range svc.Endpoints {
			key := modelKey(svc, ep)
			stem := fmt.Sprintf("%s_%s_validation", strings.ToLower(ep.Method), key)
			name := fmt.Sprintf("%s/%s/%s.py", svc.Title, svc.Name, stem)

			out.Validations = append(out.Validations, Artifact{
				Name:    name,
				Content: validationFile(ep),
			})
			refs = append(refs, artifactRef{
				Title:   svc.Title,
				Service: svc.Name,
				Stem:    stem,
				Attr:    fmt.Sprintf("%s_%s", strings.ToLower(ep.Method), key),
			})
		}
	}
	return refs
}

func validationFile(ep *classifier.Endpoint) string {
	file := &pyemit.File{
		Imports: []string{
			"from typing import Any, List, Optional",
			"from apikit.utils import PydanticResponseError",
			"from pydantic import Field, ValidationError, BaseModel, ConfigDict, RootModel",
		},
	}

	base := &pyemit.Class{Name: "BaseModelWithConfig", Bases: []string{"BaseModel"}}
	base.Add(pyemit.Assign{Name: "model_config", Value: "ConfigDict(extra='forbid')"})
	file.Add(base)

	// One dedup set per file: structurally repeated nested schemas collapse
	// to a single declaration
	models := schemamap.NewModelSet()
	file.Add(schemamap.BuildModels(errorSchema, schemamap.ModelName(false, ""), "", models)...)

	hasSuccess := false
	for _, entry := range ep.Responses {
		if !strings.HasPrefix(entry.Code, "2") {
			continue
		}
		decls := schemamap.BuildModels(entry.Response.Schema, schemamap.ModelName(true, ""), "", models)
		if len(decls) > 0 {
			file.Add(decls...)
			hasSuccess = true
		}
	}
	// No derivable success model degrades to a placeholder instead of
	// failing the endpoint
	if !hasSuccess && !models["ResponseSuccessBody"] {
		file.Add(schemamap.BuildModels(nil, "ResponseSuccessBody", "", models)...)
	}

	file.Add(validatorClass("ValidateResponseSuccess", "ResponseSuccessBody"))
	file.Add(validatorClass("ValidateResponseError", "ResponseError"))
	return file.Render()
}

// validatorClass emits an entry point that validates structurally and
// reports errors instead of raising past the generated boundary
func validatorClass(name, model string) *pyemit.Class {
	cls := &pyemit.Class{Name: name}
	cls.Add(pyemit.Method{
		Name:       "response_default",
		Decorators: []string{"@staticmethod"},
		Params:     []string{"data"},
		Body: []string{
			"try:",
			fmt.Sprintf("    return %s.model_validate(data)", model),
			"except ValidationError as e:",
			"    PydanticResponseError.print_error(e)",
		},
	})
	return cls
}
