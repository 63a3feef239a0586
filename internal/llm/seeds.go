package llm

import (
	"context"

	"api-scaffolder/internal/classifier"
)

// CollectSeeds asks the client for sample values for every endpoint that
// carries a request body. Endpoints the LLM fails on are skipped; the
// payload builders fall back to faker expressions for them.
func CollectSeeds(ctx context.Context, client SeedClient, services []*classifier.Service) map[string]map[string]interface{} {
	seeds := make(map[string]map[string]interface{})
	for _, svc := range services {
		for _, ep := range svc.Endpoints {
			if ep.RequestBody == nil || ep.RequestBody.Schema == nil {
				continue
			}
			schema := ep.RequestBody.Schema
			var fields []FieldInfo
			for _, prop := range schema.Properties {
				info := FieldInfo{Name: prop.Name, Required: schema.IsRequired(prop.Name)}
				if prop.Schema != nil {
					info.Type = prop.Schema.Type
					info.Format = prop.Schema.Format
				}
				fields = append(fields, info)
			}
			if len(fields) == 0 {
				continue
			}
			values, err := client.SuggestFieldValues(ctx, ep.Key, fields)
			if err != nil {
				continue
			}
			seeds[ep.Key] = values
		}
	}
	return seeds
}
