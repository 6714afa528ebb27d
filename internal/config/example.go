package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todoman configuration file
# Values can be overridden by TODOMAN_* environment variables or CLI flags

# Task file (relative to the working directory)
task_file = "tasks.json"

# Extra JSON Schema for the task file, checked in addition to the built-in one
# schema_file = "tasks.schema.json"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todoman/logs"

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"
log_timestamps = false
log_caller = false

# Start the terminal UI in fullscreen; Esc toggles it at runtime
fullscreen = true
`
}
