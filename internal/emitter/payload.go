package emitter

import (
	"fmt"
	"strings"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/pyemit"
	"api-scaffolder/internal/schemamap"
)

// generatePayloads emits one synthetic payload builder per endpoint that
// declares a request body
func (g *Generator) generatePayloads(out *Output) []artifactRef {
	var refs []artifactRef
	for _, svc := range g.services {
		for _, ep := range svc.Endpoints {
			if ep.RequestBody == nil || ep.RequestBody.Schema == nil {
				continue
			}
			key := modelKey(svc, ep)
			stem := fmt.Sprintf("%s_%s_payload", strings.ToLower(ep.Method), key)
			name := fmt.Sprintf("%s/%s/%s.py", svc.Title, svc.Name, stem)

			out.Payloads = append(out.Payloads, Artifact{
				Name:    name,
				Content: g.payloadFile(ep),
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

func (g *Generator) payloadFile(ep *classifier.Endpoint) string {
	schema := ep.RequestBody.Schema

	var required []string
	for _, prop := range schema.Properties {
		if schema.IsRequired(prop.Name) {
			required = append(required, prop.Name)
		}
	}

	seeds := g.opts.Seeds[ep.Key]
	var mainLines []string
	mainLines = append(mainLines, "_json_main = {")
	for i, prop := range schema.Properties {
		expr := schemamap.FakerExpr(prop.Schema, prop.Name)
		if seed, ok := seeds[prop.Name]; ok {
			// Enrichment replaces the generator with a sampled value
			expr = schemamap.PyLiteral(seed)
		}
		comma := ","
		if i == len(schema.Properties)-1 {
			comma = ""
		}
		mainLines = append(mainLines, fmt.Sprintf("    %s: %s%s", pyemit.StringLiteral(prop.Name), expr, comma))
	}
	mainLines = append(mainLines, "}")

	file := &pyemit.File{
		Imports: []string{
			"import json",
			"from fake_useragent import UserAgent",
			"from faker import Faker",
		},
	}
	file.Add(pyemit.Raw{
		"user_a = UserAgent()",
		fmt.Sprintf("fake = Faker(locale=%s)", pyemit.StringLiteral(g.opts.FakerLocale)),
	})

	cls := &pyemit.Class{Name: "RequestBody"}
	cls.Add(pyemit.Assign{Name: "_required", Value: schemamap.PyLiteral(required)})
	cls.Add(pyemit.Raw(mainLines))
	cls.Add(pyemit.Method{
		Name:   "__init__",
		Params: []string{"self"},
		Body: []string{
			"self._json_serialized = json.dumps(",
			"    {",
			"        key: value() if callable(value) else value",
			"        for key, value in self._json_main.items()",
			"    },",
			"    ensure_ascii=False",
			")",
		},
	})
	cls.Add(pyemit.Method{
		Name:       "json_serialized",
		Decorators: []string{"@property"},
		Params:     []string{"self"},
		Body:       []string{"return self._json_serialized"},
	})
	cls.Add(pyemit.Method{
		Name:       "get_json_required",
		Decorators: []string{"@classmethod"},
		Params:     []string{"cls"},
		Body: []string{
			"required_json = {",
			"    key: value() if callable(value) else value",
			"    for key, value in cls._json_main.items()",
			"    if key in cls._required",
			"}",
			"return json.dumps(required_json, ensure_ascii=False)",
		},
	})
	cls.Add(pyemit.Method{
		Name:       "get_json_miss_required",
		Decorators: []string{"@classmethod"},
		Params:     []string{"cls", "req"},
		Body: []string{
			"json_data = json.loads(cls.get_json_required())",
			"json_data.pop(req, None)",
			"return json.dumps(json_data, ensure_ascii=False)",
		},
	})
	cls.Add(pyemit.Method{
		Name:       "get_required_fields",
		Decorators: []string{"@classmethod"},
		Params:     []string{"cls"},
		Body:       []string{"return cls._required"},
	})
	cls.Add(pyemit.Method{
		Name:   "__str__",
		Params: []string{"self"},
		Body:   []string{"return self._json_serialized"},
	})
	file.Add(cls)
	return file.Render()
}
