package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DefaultFileName is the progress file name used when no path is configured.
const DefaultFileName = "progress.json"

const schemaURL = "schema://progress.json"

// progressSchema describes the persisted file. Anything that doesn't match
// is treated as corrupt.
const progressSchema = `{
  "type": "object",
  "required": ["turns", "corrections", "vocabulary"],
  "properties": {
    "turns": {"type": "integer", "minimum": 0},
    "corrections": {"type": "integer", "minimum": 0},
    "vocabulary": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1}
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(progressSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// FileBackend stores progress as a JSON document at a fixed path.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(_ context.Context) (Data, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, fmt.Errorf("read %s: %w", b.path, err)
	}
	return decode(raw)
}

// Save writes to a temporary file and renames it over the target so a
// crash mid-write never leaves a truncated file.
func (b *FileBackend) Save(_ context.Context, d Data) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	raw, err := json.MarshalIndent(normalize(d), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".progress-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close progress: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// decode validates raw against the progress schema and unmarshals it.
func decode(raw []byte) (Data, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Data{}, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return Data{}, fmt.Errorf("compile progress schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return Data{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decode progress: %w", err)
	}
	return normalize(d), nil
}
