package todo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestValidateEmbedded(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantErr  bool
		wantPath string
	}{
		{name: "empty array", doc: `[]`},
		{name: "valid tasks", doc: `[{"description": "a", "completed": false}, {"description": "b", "completed": true}]`},
		{name: "invalid json", doc: `[`, wantErr: true},
		{name: "object", doc: `{}`, wantErr: true},
		{name: "completed not bool", doc: `[{"description": "a", "completed": false}, {"description": "b", "completed": 1}]`, wantErr: true, wantPath: "[1].completed"},
		{name: "description not string", doc: `[{"description": 3, "completed": false}]`, wantErr: true, wantPath: "[0].description"},
		{name: "missing completed", doc: `[{"description": "a"}]`, wantErr: true, wantPath: "[0]"},
		{name: "extra field", doc: `[{"description": "a", "completed": false, "priority": 1}]`, wantErr: true, wantPath: "[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.doc), ValidationOptions{})
			if result.Valid == tt.wantErr {
				t.Fatalf("Valid: got %v, errors: %v", result.Valid, result.Errors)
			}
			if !tt.wantErr {
				if result.Err() != nil {
					t.Errorf("Err() should be nil for valid document, got %v", result.Err())
				}
				return
			}
			if len(result.Errors) == 0 {
				t.Fatal("expected errors")
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if ve, ok := err.(*ValidationError); ok && ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error at %q, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateUsesEmbeddedSchema(t *testing.T) {
	result := Validate([]byte(`[]`), ValidationOptions{})
	if result.Schema != "embedded" {
		t.Errorf("Schema: got %q, want embedded", result.Schema)
	}
}

func TestValidateCustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "strict.schema.json")
	schema := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "maxItems": 1,
  "items": {"type": "object"}
}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}

	doc := []byte(`[{"description": "a", "completed": false}, {"description": "b", "completed": false}]`)
	result := Validate(doc, ValidationOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Fatal("expected maxItems violation")
	}
	if result.Schema == "embedded" {
		t.Error("custom schema should be used")
	}

	if result := Validate(doc, ValidationOptions{}); !result.Valid {
		t.Errorf("embedded schema should accept the document: %v", result.Errors)
	}
}

func TestValidateMissingSchemaFallsBack(t *testing.T) {
	result := Validate([]byte(`[]`), ValidationOptions{SchemaPath: filepath.Join(t.TempDir(), "nope.json")})
	if !result.Valid {
		t.Fatalf("expected valid, got %v", result.Errors)
	}
	if result.Schema != "embedded" {
		t.Errorf("Schema: got %q, want embedded", result.Schema)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "not found") {
		t.Errorf("expected not-found warning, got %v", result.Warnings)
	}
}

func TestOpenWithSchemaPath(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "nonempty.schema.json")
	if err := os.WriteFile(schemaPath, []byte(`{"type": "array", "minItems": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, WithSchemaPath(schemaPath))
	if err != nil {
		t.Fatal(err)
	}
	if s.LoadResult().OK() {
		t.Error("expected load failure under custom schema")
	}
}

func TestEmbeddedSchemaIsCopy(t *testing.T) {
	a := EmbeddedSchema()
	a[0] = 'X'
	if EmbeddedSchema()[0] == 'X' {
		t.Error("EmbeddedSchema should return a copy")
	}
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/2/completed", "[2].completed"},
		{"#/1/description", "[1].description"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := pointerToPath(tt.in); got != tt.want {
			t.Errorf("pointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooseCustomSchemaKeepsTaskShape(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "loose.schema.json")
	if err := os.WriteFile(schemaPath, []byte(`{"type": "array"}`), 0644); err != nil {
		t.Fatal(err)
	}
	foreign := `[{"title": "keep me", "done": true}]`

	result := Validate([]byte(foreign), ValidationOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Fatal("document without task keys should fail even under a loose custom schema")
	}
	if !strings.HasPrefix(result.Schema, "embedded + ") {
		t.Errorf("Schema: got %q, want embedded plus custom", result.Schema)
	}

	path := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(path, []byte(foreign), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, WithSchemaPath(schemaPath))
	if err != nil {
		t.Fatal(err)
	}
	if res := s.LoadResult(); res.OK() || !IsParseError(res.Err) {
		t.Fatalf("LoadResult: got ok=%v err=%v, want parse error", res.OK(), res.Err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != foreign {
		t.Errorf("Open must not rewrite the file, got %s", data)
	}
}

func TestCustomSchemaErrorsNotDuplicated(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "same.schema.json")
	if err := os.WriteFile(schemaPath, EmbeddedSchema(), 0644); err != nil {
		t.Fatal(err)
	}
	result := Validate([]byte(`[{"description": "a", "completed": 1}]`), ValidationOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors: got %v, want one", result.Errors)
	}
}

func TestOpenLogsSchemaFallback(t *testing.T) {
	tests := []struct {
		name string
		doc  string // empty means no task file
	}{
		{name: "existing file", doc: `[{"description": "a", "completed": false}]`},
		{name: "missing file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "tasks.json")
			if tt.doc != "" {
				if err := os.WriteFile(path, []byte(tt.doc), 0644); err != nil {
					t.Fatal(err)
				}
			}

			var buf bytes.Buffer
			logger := log.New(&buf)
			s, err := Open(path, WithLogger(logger), WithSchemaPath(filepath.Join(dir, "typo.schema.json")))
			if err != nil {
				t.Fatal(err)
			}
			if !s.LoadResult().OK() {
				t.Fatalf("load should succeed with the embedded schema: %v", s.LoadResult().Err)
			}
			if len(s.LoadResult().Warnings) == 0 {
				t.Error("expected a schema warning in LoadResult")
			}
			out := buf.String()
			if !strings.Contains(out, "WARN") || !strings.Contains(out, "schema file not found") {
				t.Errorf("expected warn log about the schema, got %q", out)
			}
		})
	}
}
