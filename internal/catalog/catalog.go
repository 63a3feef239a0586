package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"api-scaffolder/internal/types"
)

// Entry pairs a catalog key ("METHOD /path") with its endpoint record
type Entry struct {
	Key    string
	Record types.EndpointRecord
}

// Catalog is the ordered mapping of operation keys to endpoint records. The
// catalog keeps the order the source document declared operations in; every
// derivation downstream iterates it in that order so repeated runs produce
// identical output.
type Catalog struct {
	Entries []Entry
}

// Load reads and parses a catalog file. A malformed file is fatal to the
// whole generation run: the error is returned immediately and no partial
// catalog is produced.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %v", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %v", path, err)
	}
	return cat, nil
}

// Parse decodes catalog JSON preserving operation order
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}

	cat := &Catalog{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid catalog key %v", keyTok)
		}
		var record types.EndpointRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("entry %q: %v", key, err)
		}
		// Derive method/path from the key when the record omits them
		if record.Method == "" || record.Path == "" {
			method, path := SplitKey(key)
			if record.Method == "" {
				record.Method = method
			}
			if record.Path == "" {
				record.Path = path
			}
		}
		record.Method = strings.ToUpper(record.Method)
		cat.Entries = append(cat.Entries, Entry{Key: key, Record: record})
	}
	return cat, nil
}

// SplitKey splits a catalog key "METHOD /path" into its parts
func SplitKey(key string) (method, path string) {
	parts := strings.SplitN(key, " ", 2)
	if len(parts) != 2 {
		return "", key
	}
	return strings.ToUpper(parts[0]), parts[1]
}

// Save writes the catalog as JSON in declaration order
func (c *Catalog) Save(path string) error {
	data, err := c.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %v", err)
	}
	return nil
}

// MarshalIndent renders the catalog as indented JSON keeping entry order
func (c *Catalog) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := json.Marshal(e.Record)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %v", e.Key, err)
		}
		fmt.Fprintf(&buf, "%q:", e.Key)
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
