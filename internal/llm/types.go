package llm

import (
	"context"
)

// FieldSuggestion holds a suggested value for one request body field
type FieldSuggestion struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// SeedClient defines the interface for LLM seed value generation
type SeedClient interface {
	// SuggestFieldValues asks the LLM for realistic sample values for the
	// request body fields of one endpoint
	SuggestFieldValues(ctx context.Context, endpointKey string, fields []FieldInfo) (map[string]interface{}, error)

	// callLLM handles the actual LLM API call
	callLLM(ctx context.Context, prompt string) (string, error)
}

// FieldInfo describes one request body property for prompt building
type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Format   string `json:"format,omitempty"`
	Required bool   `json:"required"`
}
