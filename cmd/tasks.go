package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/todoman/internal/config"
	"github.com/nibzard/todoman/internal/output"
	"github.com/nibzard/todoman/internal/todo"
	"github.com/nibzard/todoman/internal/ui"
)

// tuiCommand launches the interactive task manager.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoman tui", flag.ContinueOnError)
	fullscreen := fs.Bool("fullscreen", cfg.Fullscreen, "Start in fullscreen (Esc toggles)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg, "tui")
	if err != nil {
		return err
	}
	defer s.Close()

	err = ui.RunTUI(ctx, s.store,
		ui.WithLogger(s.logger()),
		ui.WithFullscreen(*fullscreen),
	)
	if errors.Is(err, ui.ErrNoTTY) {
		return fmt.Errorf("%w (use 'todoman ls' for non-interactive output)", err)
	}
	return err
}

// lsCommand prints the task list.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoman ls", flag.ContinueOnError)
	format := fs.String("format", "text", "Output format (text|json|yaml)")
	fs.StringVar(format, "f", "text", "Output format (text|json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f, err := output.ParseFormat(*format)
	if err != nil {
		return err
	}
	if f == output.FormatPDF {
		return fmt.Errorf("ls does not support pdf; use 'todoman export -format pdf -o file'")
	}

	s, err := openSession(cfg, "ls")
	if err != nil {
		return err
	}
	defer s.Close()

	return output.Write(os.Stdout, s.store.Tasks(), f)
}

// addCommand appends a task built from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("add requires a task description")
	}
	description := strings.Join(args, " ")

	s, err := openSession(cfg, "add")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Add(description); err != nil {
		return err
	}
	fmt.Printf("Added %d: %s\n", s.store.Len(), output.FormatTask(s.store.Tasks()[s.store.Len()-1]))
	return nil
}

// doneCommand marks a task completed by its 1-based number.
func doneCommand(cfg *config.Config, args []string) error {
	return withTaskNumber(cfg, "done", args, func(s *session, i int) error {
		if err := s.store.MarkCompleted(i); err != nil {
			return err
		}
		fmt.Printf("Completed %d: %s\n", i+1, output.FormatTask(s.store.Tasks()[i]))
		return nil
	})
}

// rmCommand deletes a task by its 1-based number.
func rmCommand(cfg *config.Config, args []string) error {
	return withTaskNumber(cfg, "rm", args, func(s *session, i int) error {
		task := s.store.Tasks()[i]
		if err := s.store.Delete(i); err != nil {
			return err
		}
		fmt.Printf("Deleted %d: %s\n", i+1, output.FormatTask(task))
		return nil
	})
}

// withTaskNumber parses a single 1-based task number, opens the store and
// calls fn with the matching 0-based index. Numbers outside the list are an
// error here even though the store ignores them.
func withTaskNumber(cfg *config.Config, command string, args []string, fn func(*session, int) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%s requires exactly one task number", command)
	}
	n, err := parseTaskNumber(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cfg, command)
	if err != nil {
		return err
	}
	defer s.Close()

	if n > s.store.Len() {
		return fmt.Errorf("task %d does not exist (%d tasks)", n, s.store.Len())
	}
	return fn(s, n-1)
}

func parseTaskNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("task number must be at least 1, got %d", n)
	}
	return n, nil
}

// exportCommand renders the task list to a file or stdout.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoman export", flag.ContinueOnError)
	format := fs.String("format", "json", "Export format (json|yaml|pdf|text)")
	fs.StringVar(format, "f", "json", "Export format (json|yaml|pdf|text)")
	outPath := fs.String("o", "", "Output file (default: stdout)")
	fs.StringVar(outPath, "output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f, err := output.ParseFormat(*format)
	if err != nil {
		return err
	}
	if f == output.FormatPDF && *outPath == "" {
		return fmt.Errorf("pdf export requires -o <file>")
	}

	s, err := openSession(cfg, "export")
	if err != nil {
		return err
	}
	defer s.Close()

	if *outPath == "" {
		if err := output.Write(os.Stdout, s.store.Tasks(), f); err != nil {
			return fmt.Errorf("export %s: %w", f, err)
		}
		return nil
	}

	path := cfg.ResolvePath(*outPath)
	s.logger().Info("exporting", "format", f, "path", path, "tasks", s.store.Len())
	if err := exportToFile(path, s.store.Tasks(), f); err != nil {
		return err
	}
	fmt.Printf("Exported %d tasks to %s\n", s.store.Len(), *outPath)
	return nil
}

// createExportFile opens the export destination.
var createExportFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// exportToFile renders tasks to path. The file is closed before returning
// so a failed flush is reported.
func exportToFile(path string, tasks []todo.Task, f output.Format) error {
	file, err := createExportFile(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := output.Write(file, tasks, f); err != nil {
		_ = file.Close()
		return fmt.Errorf("export %s: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
