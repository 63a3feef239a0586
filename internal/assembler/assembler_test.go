package assembler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"api-scaffolder/internal/emitter"
)

func TestWrite(t *testing.T) {
	out := &emitter.Output{
		Endpoints: []emitter.Artifact{
			{Name: "paths.py", Content: "API_PREFIX = '/api/v1'\n"},
			{Name: "configs.py", Content: "config = None\n"},
		},
		Validations: []emitter.Artifact{
			{Name: "shop/items/post_items_validation.py", Content: "class ResponseError:\n    pass\n"},
		},
		Payloads: []emitter.Artifact{
			{Name: "shop/items/post_items_payload.py", Content: "class RequestBody:\n    pass\n"},
		},
		Collections: []emitter.Artifact{
			{Name: "shop_collection.py", Content: "class PagesModels:\n    pass\n"},
		},
		Tests: []emitter.Artifact{
			{Name: "shop/items/test_items_default.py", Content: "class TestItemsDefault:\n    pass\n"},
		},
	}

	asm := New(t.TempDir())
	manifest, err := asm.Write(out, RootFiles("API_AUTH_TOKEN"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	root := asm.ProjectDir()
	assert.Equal(t, root, manifest.ProjectDir)
	assert.NotEmpty(t, manifest.RunID)

	for _, rel := range []string{
		"requirements.txt",
		"pytest.ini",
		"conftest.py",
		"Dockerfile",
		filepath.Join("src", "models", "endpoints", "paths.py"),
		filepath.Join("src", "models", "endpoints", "configs.py"),
		filepath.Join("src", "models", "validations", "shop", "items", "post_items_validation.py"),
		filepath.Join("src", "models", "payloads", "shop", "items", "post_items_payload.py"),
		filepath.Join("src", "models", "collections", "shop_collection.py"),
		filepath.Join("src", "tests", "shop", "items", "test_items_default.py"),
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}

	assert.Equal(t, 2, manifest.Artifacts["src/models/endpoints"])
	assert.Equal(t, 1, manifest.Artifacts["src/models/validations"])
	assert.Equal(t, 1, manifest.Artifacts["src/tests"])
}

func TestWriteInitFiles(t *testing.T) {
	out := &emitter.Output{
		Validations: []emitter.Artifact{
			{Name: "shop/items/post_items_validation.py", Content: "pass\n"},
			{Name: "shop/items/get_items_validation.py", Content: "pass\n"},
		},
	}

	asm := New(t.TempDir())
	if _, err := asm.Write(out, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	initPath := filepath.Join(asm.ProjectDir(), "src", "models", "validations", "shop", "items", "__init__.py")
	data, err := os.ReadFile(initPath)
	if err != nil {
		t.Fatalf("expected package init file: %v", err)
	}
	// Modules re-exported alphabetically
	assert.Equal(t, "from .get_items_validation import *\nfrom .post_items_validation import *\n", string(data))

	// Parent packages re-export their subpackages
	parent, err := os.ReadFile(filepath.Join(asm.ProjectDir(), "src", "models", "validations", "shop", "__init__.py"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, string(parent), "from .items import *")
}

func TestWriteManifest(t *testing.T) {
	asm := New(t.TempDir())
	if _, err := asm.Write(&emitter.Output{}, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(asm.ProjectDir(), "generation_manifest.json"))
	if err != nil {
		t.Fatalf("expected manifest file: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	assert.Equal(t, asm.ProjectDir(), manifest.ProjectDir)
	assert.NotEmpty(t, manifest.RunID)
	assert.False(t, manifest.GeneratedAt.IsZero())
}

func TestRootFiles(t *testing.T) {
	files := RootFiles("MY_TOKEN")

	byName := map[string]string{}
	for _, f := range files {
		byName[f.Name] = f.Content
	}

	assert.Contains(t, byName["conftest.py"], `os.environ.get("MY_TOKEN", "")`)
	assert.Contains(t, byName["conftest.py"], "ModelsManager(token=auth_token)")
	assert.Contains(t, byName["requirements.txt"], "pytest-dependency")
	assert.Contains(t, byName["requirements.txt"], "pydantic")
	assert.Contains(t, byName["pytest.ini"], "asyncio_mode=auto")
	assert.Contains(t, byName[".gitignore"], "__pycache__")
}
