package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"api-scaffolder/internal/classifier"
	"api-scaffolder/internal/logger"
	"api-scaffolder/internal/types"
)

// fakeClient returns a canned response without calling any provider
type fakeClient struct {
	response string
	err      error
}

func (c *fakeClient) callLLM(ctx context.Context, prompt string) (string, error) {
	return c.response, c.err
}

func (c *fakeClient) SuggestFieldValues(ctx context.Context, endpointKey string, fields []FieldInfo) (map[string]interface{}, error) {
	response, err := c.callLLM(ctx, "")
	if err != nil {
		return nil, err
	}
	return parseSeedResponse(response)
}

func TestParseSeedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     map[string]interface{}
		wantErr  bool
	}{
		{
			name:     "plain json",
			response: `{"name": "Widget", "count": 7}`,
			want:     map[string]interface{}{"name": "Widget", "count": float64(7)},
		},
		{
			name:     "fenced json",
			response: "```json\n{\"name\": \"Widget\"}\n```",
			want:     map[string]interface{}{"name": "Widget"},
		},
		{
			name:     "bare fence",
			response: "```\n{\"name\": \"Widget\"}\n```",
			want:     map[string]interface{}{"name": "Widget"},
		},
		{
			name:     "suggestion list",
			response: `[{"field": "name", "value": "Widget"}, {"field": "count", "value": 7}]`,
			want:     map[string]interface{}{"name": "Widget", "count": float64(7)},
		},
		{
			name:     "fenced suggestion list",
			response: "```json\n[{\"field\": \"email\", \"value\": \"ada@example.com\"}]\n```",
			want:     map[string]interface{}{"email": "ada@example.com"},
		},
		{
			name:     "not json",
			response: "sorry, I cannot help with that",
			wantErr:  true,
		},
		{
			name:     "malformed list",
			response: `[{"field": "name"`,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeedResponse(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewClientUnsupportedProvider(t *testing.T) {
	log, err := logger.NewLogger(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	_, err = NewClient(&Config{Provider: "carrier-pigeon"}, log)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestCollectSeeds(t *testing.T) {
	client := &fakeClient{response: `{"name": "Widget", "count": 7}`}

	services := []*classifier.Service{
		{Name: "items", Endpoints: []*classifier.Endpoint{
			{
				Key:    "POST /items",
				Method: "POST",
				RequestBody: &types.RequestBodySpec{Schema: &types.SchemaNode{
					Type: "object",
					Properties: []types.SchemaProperty{
						{Name: "name", Schema: &types.SchemaNode{Type: "string"}},
						{Name: "count", Schema: &types.SchemaNode{Type: "integer"}},
					},
					Required: []string{"name"},
				}},
			},
			{Key: "GET /items", Method: "GET"},
		}},
	}

	seeds := CollectSeeds(context.Background(), client, services)

	if assert.Contains(t, seeds, "POST /items") {
		assert.Equal(t, "Widget", seeds["POST /items"]["name"])
	}
	// Endpoints without a request body are not seeded
	assert.Len(t, seeds, 1)
}
