// Package cmd implements the CLI command structure for todoman.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoman/internal/config"
	"github.com/nibzard/todoman/internal/logging"
	"github.com/nibzard/todoman/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todoman CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todoman", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(fs, os.Stdout)
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args or a leading flag means the interactive UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session bundles the store with the log session that records its changes.
type session struct {
	store *todo.Store
	log   *logging.Session
}

func (s *session) logger() *log.Logger {
	if s.log == nil {
		return logging.Discard()
	}
	return s.log.Logger
}

func (s *session) Close() {
	if s.log != nil {
		_ = s.log.Close()
	}
}

// openSession starts a log session and opens the task store. A log
// directory that cannot be created disables logging rather than failing
// the command.
func openSession(cfg *config.Config, command string) (*session, error) {
	opts := logging.OptionsFromStrings(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	s := &session{}
	if ls, err := logging.NewSession(cfg.LogDir, cfg.TaskFile, opts); err == nil {
		s.log = ls
	} else {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	logger := s.logger()
	logger.Info("command started", "command", command, "file", cfg.TaskFile, "version", Version)

	store, err := todo.Open(cfg.TaskFile,
		todo.WithLogger(logger),
		todo.WithSchemaPath(cfg.SchemaFile),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	s.store = store
	return s, nil
}

// versionCommand shows version information.
func versionCommand() error {
	fmt.Printf("todoman version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todoman - A minimal to-do list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoman [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the task manager (default command)")
	fmt.Fprintln(w, "  ls [-format f]      List tasks (text|json|yaml)")
	fmt.Fprintln(w, "  add <description>   Add a task")
	fmt.Fprintln(w, "  done <n>            Mark task n as completed")
	fmt.Fprintln(w, "  rm <n>              Delete task n")
	fmt.Fprintln(w, "  validate [file]     Check a task file against the schema")
	fmt.Fprintln(w, "  export -format f    Export tasks (json|yaml|pdf)")
	fmt.Fprintln(w, "  config [-example]   Show the effective configuration")
	fmt.Fprintln(w, "  logs [-n N] [-f]    Tail the latest log file")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task numbers start at 1, as shown by ls.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}
