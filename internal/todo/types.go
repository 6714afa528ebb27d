package todo

import (
	"errors"
	"fmt"
)

// Task is a single entry in the task list.
type Task struct {
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// String renders the task as a checklist line: "[x] description" or "[ ] description".
func (t Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s", mark, t.Description)
}

// ParseError reports a task file that exists but could not be decoded.
type ParseError struct {
	Path string // file that failed to parse
	Err  error  // decode or schema error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse task file %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("parse task file: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// LoadResult is the outcome of reading a task file.
// A result is a success when Err is nil.
type LoadResult struct {
	Tasks   []Task
	Err     error
	Missing bool // the file did not exist

	// Warnings are non-fatal validation notes, such as an unusable
	// custom schema.
	Warnings []string
}

// OK reports whether the load succeeded.
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// TasksOrEmpty returns the loaded tasks, or an empty list if the load failed.
func (r LoadResult) TasksOrEmpty() []Task {
	if r.Err != nil || r.Tasks == nil {
		return []Task{}
	}
	return r.Tasks
}
