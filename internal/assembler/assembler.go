// Package assembler writes the generated artifacts into a project tree:
// directory layout, root files, package init files and a generation
// manifest.
package assembler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"api-scaffolder/internal/emitter"
)

// Assembler writes one generated project
type Assembler struct {
	projectRoot string
}

// Manifest summarizes one generation run
type Manifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	ProjectDir  string         `json:"project_dir"`
	Artifacts   map[string]int `json:"artifacts"`
}

// New creates an assembler rooted at a timestamped project directory under
// root
func New(root string) *Assembler {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return &Assembler{
		projectRoot: filepath.Join(root, fmt.Sprintf("project_%s", timestamp)),
	}
}

// ProjectDir returns the project directory artifacts are written into
func (a *Assembler) ProjectDir() string {
	return a.projectRoot
}

// Write persists every artifact category into the project tree and returns
// the generation manifest
func (a *Assembler) Write(out *emitter.Output, rootFiles []emitter.Artifact) (*Manifest, error) {
	if err := os.MkdirAll(a.projectRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %v", err)
	}

	categories := []struct {
		dir       string
		artifacts []emitter.Artifact
	}{
		{".", rootFiles},
		{filepath.Join("src", "models", "endpoints"), out.Endpoints},
		{filepath.Join("src", "models", "validations"), out.Validations},
		{filepath.Join("src", "models", "payloads"), out.Payloads},
		{filepath.Join("src", "models", "collections"), out.Collections},
		{filepath.Join("src", "tests"), out.Tests},
	}

	manifest := &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		ProjectDir:  a.projectRoot,
		Artifacts:   map[string]int{},
	}

	for _, cat := range categories {
		for _, artifact := range cat.artifacts {
			path := filepath.Join(a.projectRoot, cat.dir, filepath.FromSlash(artifact.Name))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory for %s: %v", artifact.Name, err)
			}
			if err := os.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %v", artifact.Name, err)
			}
		}
		if cat.dir != "." {
			manifest.Artifacts[filepath.ToSlash(cat.dir)] = len(cat.artifacts)
		}
	}

	if err := a.writeInitFiles(); err != nil {
		return nil, err
	}
	if err := a.writeManifest(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// writeInitFiles creates __init__.py re-export files in every generated
// package directory
func (a *Assembler) writeInitFiles() error {
	srcRoot := filepath.Join(a.projectRoot, "src")
	if _, err := os.Stat(srcRoot); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(srcRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return err
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}

		var lines []string
		var dirs, modules []string
		for _, entry := range entries {
			switch {
			case entry.IsDir():
				dirs = append(dirs, entry.Name())
			case strings.HasSuffix(entry.Name(), ".py") && entry.Name() != "__init__.py":
				modules = append(modules, strings.TrimSuffix(entry.Name(), ".py"))
			}
		}
		sort.Strings(dirs)
		sort.Strings(modules)
		for _, d := range dirs {
			lines = append(lines, fmt.Sprintf("from .%s import *", d))
		}
		for _, m := range modules {
			lines = append(lines, fmt.Sprintf("from .%s import *", m))
		}

		content := ""
		if len(lines) > 0 {
			content = strings.Join(lines, "\n") + "\n"
		}
		return os.WriteFile(filepath.Join(path, "__init__.py"), []byte(content), 0644)
	})
}

func (a *Assembler) writeManifest(manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %v", err)
	}
	path := filepath.Join(a.projectRoot, "generation_manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %v", err)
	}
	return nil
}
