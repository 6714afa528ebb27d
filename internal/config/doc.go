// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todoman/todoman.toml, or todoman/todoman.toml under the OS config dir)
// 3. Project config file (todoman.toml or .todoman.toml in the working directory)
// 4. Environment variables (TODOMAN_*)
// 5. CLI flags
//
// Later sources override earlier ones. Paths support ~ and $VAR expansion
// (plus %VAR% on Windows); a relative task file is resolved against the
// working directory.
package config
