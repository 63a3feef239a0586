package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, false)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Printf("generation started with %d endpoints", 3)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "scaffold_") {
		t.Errorf("unexpected log file name %s", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "generation started with 3 endpoints") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestDumpOnlyWhenDebug(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	logger.Dump("mappings", map[string]string{"items": "itemId"})
	logger.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "mappings") {
		t.Error("Dump wrote output with debug disabled")
	}

	debugDir := t.TempDir()
	debugLogger, err := NewLogger(debugDir, true)
	if err != nil {
		t.Fatal(err)
	}
	debugLogger.Dump("mappings", map[string]string{"items": "itemId"})
	debugLogger.Close()

	entries, err = os.ReadDir(debugDir)
	if err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(filepath.Join(debugDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mappings") {
		t.Error("Dump wrote nothing with debug enabled")
	}
}
