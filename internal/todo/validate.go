package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "https://github.com/nibzard/todoman/tasks.schema.json"

// EmbeddedSchema returns the built-in task file schema.
func EmbeddedSchema() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // location in the document, e.g. "[2].completed"
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is an extra JSON Schema applied on top of the embedded one.
	// A file that cannot be compiled is skipped with a warning.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Schema   string // "embedded", or "embedded + <absolute path>"
}

// Err joins the validation errors, or returns nil for a valid document.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Validate checks a raw task file document against the embedded task
// schema and, when opts.SchemaPath is set, against that schema too. A custom
// schema only adds constraints; the task shape is always enforced.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
		Schema:   "embedded",
	}

	doc, err := decodeDocument(data)
	if err != nil {
		result.fail(&ValidationError{Err: err})
		return result
	}

	base, err := taskSchema()
	if err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("embedded schema: %w", err)})
		return result
	}
	schemas := []*jsonschema.Schema{base}

	if opts.SchemaPath != "" {
		extra, err := loadSchemaFile(opts.SchemaPath)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using the embedded schema only", err))
		} else {
			schemas = append(schemas, extra)
			result.Schema = "embedded + " + extra.Location
		}
	}

	seen := make(map[string]bool)
	for _, schema := range schemas {
		if err := schema.Validate(doc); err != nil {
			result.addSchemaError(err, seen)
		}
	}
	return result
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// addSchemaError records the leaf causes of err, skipping messages already
// reported by an earlier schema.
func (r *ValidationResult) addSchemaError(err error, seen map[string]bool) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		r.fail(err)
		return
	}

	stack := []*jsonschema.ValidationError{ve}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(cur.Causes) > 0 {
			for i := len(cur.Causes) - 1; i >= 0; i-- {
				stack = append(stack, cur.Causes[i])
			}
			continue
		}
		leaf := &ValidationError{Path: pointerToPath(cur.InstanceLocation), Err: errors.New(cur.Message)}
		if key := leaf.Error(); !seen[key] {
			seen[key] = true
			r.fail(leaf)
		}
	}
}

func decodeDocument(data []byte) (any, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after document")
	}
	return doc, nil
}

// taskSchema compiles the embedded schema once.
var taskSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(embeddedSchemaURL)
})

func loadSchemaFile(path string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("schema path %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", abs)
		}
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(abs)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", abs, err)
	}
	return schema, nil
}

// pointerToPath renders a JSON Pointer such as "/2/completed" as
// "[2].completed".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
