package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleCatalog = `{
  "POST /items": {
    "description": "Create item",
    "responses": {
      "201": {
        "status_code": 201,
        "content_type": "application/json",
        "schema": {
          "type": "object",
          "properties": {
            "itemId": {"type": "string", "format": "uuid"},
            "name": {"type": "string"}
          },
          "required": ["itemId"]
        }
      },
      "400": {"status_code": 400}
    },
    "source": {"title": "shop"}
  },
  "GET /items/{itemId}": {
    "parameters": [
      {"name": "itemId", "type": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
    ],
    "responses": {
      "200": {"status_code": 200}
    },
    "source": {"title": "shop"}
  }
}`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(cat.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(cat.Entries))
	}

	// Declaration order survives parsing
	assert.Equal(t, "POST /items", cat.Entries[0].Key)
	assert.Equal(t, "GET /items/{itemId}", cat.Entries[1].Key)

	// Method and path derived from the key when the record omits them
	post := cat.Entries[0].Record
	assert.Equal(t, "POST", post.Method)
	assert.Equal(t, "/items", post.Path)

	// Response order and schema property order survive too
	assert.Equal(t, "201", post.Responses[0].Code)
	assert.Equal(t, "400", post.Responses[1].Code)
	schema := post.Responses[0].Response.Schema
	if schema == nil {
		t.Fatal("expected a 201 schema")
	}
	assert.Equal(t, "itemId", schema.Properties[0].Name)
	assert.Equal(t, "name", schema.Properties[1].Name)
	assert.True(t, schema.IsRequired("itemId"))
	assert.False(t, schema.IsRequired("name"))

	get := cat.Entries[1].Record
	assert.Equal(t, "GET", get.Method)
	if assert.Len(t, get.Parameters, 1) {
		assert.Equal(t, "itemId", get.Parameters[0].Name)
		assert.Equal(t, "path", get.Parameters[0].Location)
		assert.True(t, get.Parameters[0].Required)
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key        string
		wantMethod string
		wantPath   string
	}{
		{"POST /items", "POST", "/items"},
		{"get /items/{id}", "GET", "/items/{id}"},
		{"/items", "", "/items"},
	}
	for _, tt := range tests {
		method, path := SplitKey(tt.key)
		if method != tt.wantMethod || path != tt.wantPath {
			t.Errorf("SplitKey(%q) = (%q, %q), want (%q, %q)", tt.key, method, path, tt.wantMethod, tt.wantPath)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "endpoints.json")
	if err := cat.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if assert.Len(t, loaded.Entries, 2) {
		assert.Equal(t, "POST /items", loaded.Entries[0].Key)
		assert.Equal(t, "GET /items/{itemId}", loaded.Entries[1].Key)
	}
	schema := loaded.Entries[0].Record.Responses[0].Response.Schema
	if schema == nil {
		t.Fatal("expected schema to survive the round trip")
	}
	assert.Equal(t, "itemId", schema.Properties[0].Name)
	assert.Equal(t, "uuid", schema.Properties[0].Schema.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error for a missing catalog file")
	}
	assert.Contains(t, err.Error(), "failed to read catalog file")
}
