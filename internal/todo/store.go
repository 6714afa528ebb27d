package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks and mutations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchemaPath validates the task file against the schema at path
// instead of the embedded one.
func WithSchemaPath(path string) Option {
	return func(s *Store) {
		s.schemaPath = path
	}
}

// Store holds the task list and mirrors it to a JSON file after every mutation.
// A Store is not safe for concurrent use.
type Store struct {
	path       string
	schemaPath string
	tasks      []Task
	loaded     LoadResult
	logger     *log.Logger
}

// Open creates a store for the task file at path and loads it.
//
// A file that is missing or fails to parse leaves the store empty; the
// outcome is available from LoadResult. Only an unreadable file (for
// example, a permissions problem) is returned as an error.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("task file path is empty")
	}
	s := &Store{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	result := s.Load()
	if result.Err != nil && !IsParseError(result.Err) {
		return nil, result.Err
	}
	for _, w := range result.Warnings {
		s.logger.Warn("task schema", "path", path, "schema", s.schemaPath, "warning", w)
	}
	if !result.OK() {
		s.logger.Warn("task file malformed, starting empty", "path", path, "err", result.Err)
	} else if result.Missing {
		s.logger.Debug("task file not found, starting empty", "path", path)
	}
	s.loaded = result
	s.tasks = result.TasksOrEmpty()
	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// LoadResult returns the outcome of the load performed by Open.
func (s *Store) LoadResult() LoadResult {
	return s.loaded
}

// Load reads the task file without changing the in-memory list.
func (s *Store) Load() LoadResult {
	return readFile(s.path, s.schemaPath)
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Save writes the full list to the task file, replacing its contents.
func (s *Store) Save() error {
	if s.tasks == nil {
		s.tasks = []Task{}
	}
	data, err := json.MarshalIndent(s.tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// Add appends an uncompleted task and saves.
func (s *Store) Add(description string) error {
	s.tasks = append(s.tasks, Task{Description: description})
	s.logger.Debug("task added", "index", len(s.tasks)-1, "description", description)
	return s.Save()
}

// MarkCompleted marks the task at index i as completed and saves.
// An index outside the list is ignored.
func (s *Store) MarkCompleted(i int) error {
	if !s.inBounds(i) {
		return nil
	}
	s.tasks[i].Completed = true
	s.logger.Debug("task completed", "index", i)
	return s.Save()
}

// Delete removes the task at index i and saves.
// An index outside the list is ignored.
func (s *Store) Delete(i int) error {
	if !s.inBounds(i) {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", "index", i)
	return s.Save()
}

func (s *Store) inBounds(i int) bool {
	return i >= 0 && i < len(s.tasks)
}

// ReadFile reads and parses the task file at path using the embedded schema.
func ReadFile(path string) LoadResult {
	return readFile(path, "")
}

func readFile(path, schemaPath string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			result := LoadResult{Tasks: []Task{}, Missing: true}
			if schemaPath != "" {
				if _, err := loadSchemaFile(schemaPath); err != nil {
					result.Warnings = []string{fmt.Sprintf("%v; using the embedded schema only", err)}
				}
			}
			return result
		}
		return LoadResult{Err: fmt.Errorf("read task file: %w", err)}
	}

	tasks, warnings, err := parse(data, schemaPath)
	if err != nil {
		return LoadResult{Err: &ParseError{Path: path, Err: err}, Warnings: warnings}
	}
	return LoadResult{Tasks: tasks, Warnings: warnings}
}

// Parse decodes a task file document. The document must be a JSON array of
// task objects; anything else, including extra or missing keys, is an error.
// A non-empty schemaPath adds that schema's constraints on top.
func Parse(data []byte, schemaPath string) ([]Task, error) {
	tasks, _, err := parse(data, schemaPath)
	return tasks, err
}

func parse(data []byte, schemaPath string) ([]Task, []string, error) {
	result := Validate(data, ValidationOptions{SchemaPath: schemaPath})
	if !result.Valid {
		return nil, result.Warnings, result.Err()
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, result.Warnings, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, result.Warnings, nil
}
