package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/nibzard/todoman/internal/config"
	"github.com/nibzard/todoman/internal/logging"
	"github.com/nibzard/todoman/internal/todo"
)

// validateCommand checks a task file against the schema.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoman validate", flag.ContinueOnError)
	schemaPath := fs.String("schema", cfg.SchemaFile, "Extra JSON Schema applied on top of the built-in one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	path := cfg.TaskFile
	if len(remaining) == 1 {
		path = cfg.ResolvePath(remaining[0])
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read task file: %w", err)
	}

	schema := cfg.ResolvePath(*schemaPath)
	result := todo.Validate(data, todo.ValidationOptions{SchemaPath: schema})
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Schema: %s\n", result.Schema)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	if !result.Valid {
		fmt.Println("Errors:")
		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}
		return fmt.Errorf("%s is invalid (%d errors)", path, len(result.Errors))
	}

	tasks, err := todo.Parse(data, schema)
	if err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Printf("Valid: %d tasks, %d completed\n", len(tasks), done)
	return nil
}

// configCommand prints the effective configuration.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todoman config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example configuration file")
	showSources := fs.Bool("sources", false, "Show where each value came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if err := cws.Config.Encode(os.Stdout); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if !*showSources {
		return nil
	}

	fmt.Println()
	fmt.Println("# Sources")
	for _, f := range cws.Files {
		fmt.Printf("#   file: %s\n", f)
	}
	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Printf("#   %-15s %s\n", field, cws.Sources[field])
	}
	return nil
}

// logsCommand tails the newest session log for the task file.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todoman logs", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session logs instead of tailing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		sessions, err := logging.ListSessions(logDir)
		if err != nil {
			return fmt.Errorf("listing logs: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No log files found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %8d  %s\n", s.ModTime.Format("2006-01-02 15:04:05"), s.Size, s.Path)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}
