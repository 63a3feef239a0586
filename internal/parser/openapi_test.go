package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDoc = `{
  "openapi": "3.0.0",
  "info": {"title": "Shop", "version": "1.0.0"},
  "paths": {
    "/items": {
      "post": {
        "summary": "Create item",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "name": {"type": "string"},
                  "count": {"type": "integer"}
                },
                "required": ["name"]
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created",
            "content": {
              "application/json": {
                "schema": {
                  "type": "object",
                  "properties": {
                    "itemId": {"type": "string", "format": "uuid"}
                  },
                  "required": ["itemId"]
                }
              }
            }
          },
          "400": {"description": "Bad request"}
        }
      },
      "get": {
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {
          "200": {"description": "OK"}
        }
      }
    },
    "/items/{itemId}": {
      "get": {
        "parameters": [
          {"name": "itemId", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
        ],
        "responses": {
          "200": {"description": "OK"}
        }
      }
    }
  }
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	cat, err := NewParser().ParseFile(writeDoc(t))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if len(cat.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(cat.Entries))
	}

	// Lexical path order, fixed method order within a path
	assert.Equal(t, "GET /items", cat.Entries[0].Key)
	assert.Equal(t, "POST /items", cat.Entries[1].Key)
	assert.Equal(t, "GET /items/{itemId}", cat.Entries[2].Key)

	post := cat.Entries[1].Record
	assert.Equal(t, "POST", post.Method)
	assert.Equal(t, "/items", post.Path)
	assert.Equal(t, "Shop", post.Source.Title)
	assert.Equal(t, "Create item", post.Description)

	if assert.NotNil(t, post.RequestBody) {
		assert.Equal(t, "application/json", post.RequestBody.ContentType)
		assert.True(t, post.RequestBody.Required)
		body := post.RequestBody.Schema
		if assert.NotNil(t, body) {
			assert.Equal(t, "count", body.Properties[0].Name)
			assert.Equal(t, "name", body.Properties[1].Name)
			assert.True(t, body.IsRequired("name"))
		}
	}

	// Response codes sorted ascending, so 2xx comes first
	assert.Equal(t, "201", post.Responses[0].Code)
	assert.Equal(t, "400", post.Responses[1].Code)
	created := post.Responses[0].Response
	assert.Equal(t, 201, created.StatusCode)
	assert.Equal(t, "application/json", created.ContentType)
	if assert.NotNil(t, created.Schema) {
		assert.Equal(t, "itemId", created.Schema.Properties[0].Name)
		assert.Equal(t, "uuid", created.Schema.Properties[0].Schema.Format)
	}

	get := cat.Entries[2].Record
	if assert.Len(t, get.Parameters, 1) {
		assert.Equal(t, "itemId", get.Parameters[0].Name)
		assert.Equal(t, "path", get.Parameters[0].Location)
		assert.True(t, get.Parameters[0].Required)
		assert.Equal(t, "uuid", get.Parameters[0].Schema.Format)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
