// Package ui provides the interactive task manager.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todoman/internal/logging"
)

// ErrNoTTY is returned by RunTUI when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// Option configures the task manager.
type Option func(*tuiConfig)

type tuiConfig struct {
	logger         *log.Logger
	fullscreen     bool
	programOptions []tea.ProgramOption
	skipTTYCheck   bool
}

func newTUIConfig(opts []Option) *tuiConfig {
	c := &tuiConfig{
		logger:     logging.Discard(),
		fullscreen: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// WithLogger sets the logger for UI events.
func WithLogger(logger *log.Logger) Option {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithFullscreen sets whether the window starts in fullscreen mode.
func WithFullscreen(enabled bool) Option {
	return func(c *tuiConfig) {
		c.fullscreen = enabled
	}
}

// WithProgramOptions passes extra options to the bubbletea program.
// Supplying options also skips the TTY check, so callers can drive the
// program with their own input and output.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(c *tuiConfig) {
		c.programOptions = append(c.programOptions, opts...)
		c.skipTTYCheck = true
	}
}

// RunTUI runs the task manager over store until the user confirms exit or
// ctx is cancelled.
func RunTUI(ctx context.Context, store TaskStore, opts ...Option) error {
	c := newTUIConfig(opts)
	if !c.skipTTYCheck && !IsTTY(os.Stdout) {
		return ErrNoTTY
	}

	model := NewModel(store, opts...)
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.fullscreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	programOpts = append(programOpts, c.programOptions...)

	c.logger.Info("tui started", "file", store.Path(), "fullscreen", c.fullscreen)
	program := tea.NewProgram(model, programOpts...)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run tui: %w", err)
	}
	c.logger.Info("tui stopped")
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
