// Package llm asks a language model for realistic sample values to seed
// generated payload builders with.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"api-scaffolder/internal/logger"
)

// BaseClient provides a base implementation of the SeedClient interface
type BaseClient struct {
	config *Config
	logger *logger.Logger
}

// NewBaseClient creates a new base LLM client
func NewBaseClient(config *Config, logger *logger.Logger) *BaseClient {
	return &BaseClient{
		config: config,
		logger: logger,
	}
}

// SuggestFieldValues implements the SeedClient interface
func (c *BaseClient) SuggestFieldValues(ctx context.Context, endpointKey string, fields []FieldInfo) (map[string]interface{}, error) {
	fieldsJSON, _ := json.Marshal(fields)

	prompt := fmt.Sprintf(`Generate realistic sample values for the request body of the API endpoint "%s".
Fields: %s

Rules:
1. Values must match the declared type and format of each field.
2. Prefer plausible business data over placeholder strings.
3. Respond with a single JSON object mapping field names to values. No prose.`,
		endpointKey, string(fieldsJSON))

	response, err := c.callLLM(ctx, prompt)
	if err != nil {
		c.logger.Printf("LLM seed request failed for %s: %v", endpointKey, err)
		return nil, fmt.Errorf("failed to suggest field values: %w", err)
	}

	seeds, err := parseSeedResponse(response)
	if err != nil {
		c.logger.Printf("LLM seed response for %s is not valid JSON: %v", endpointKey, err)
		return nil, err
	}

	c.logger.Dump(fmt.Sprintf("LLM seeds for %s", endpointKey), seeds)
	return seeds, nil
}

// parseSeedResponse decodes the model's JSON answer, tolerating markdown
// code fences and accepting either a field-to-value object or a list of
// field/value suggestion objects
func parseSeedResponse(response string) (map[string]interface{}, error) {
	response = stripCodeFence(response)
	if strings.HasPrefix(response, "[") {
		var suggestions []FieldSuggestion
		if err := json.Unmarshal([]byte(response), &suggestions); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response: %w", err)
		}
		seeds := make(map[string]interface{}, len(suggestions))
		for _, s := range suggestions {
			seeds[s.Field] = s.Value
		}
		return seeds, nil
	}
	var seeds map[string]interface{}
	if err := json.Unmarshal([]byte(response), &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return seeds, nil
}

// callLLM handles the LLM API call based on the configured provider
func (c *BaseClient) callLLM(ctx context.Context, prompt string) (string, error) {
	client, err := NewClient(c.config, c.logger)
	if err != nil {
		return "", fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client.callLLM(ctx, prompt)
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
