// Package output renders task lists for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/todoman/internal/todo"
)

// Format selects a rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// EmptyList is printed by the text format when there are no tasks.
const EmptyList = "No tasks."

// ParseFormat parses a format name. Matching is case-insensitive and
// accepts "yml" for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown format %q, must be one of: text, json, yaml, pdf", s)
	}
}

// Write renders tasks to w in the given format.
func Write(w io.Writer, tasks []todo.Task, format Format) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	switch format {
	case FormatText, "":
		return writeText(w, tasks)
	case FormatJSON:
		data, err := json.MarshalIndent(tasks, "", "    ")
		if err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, tasks []todo.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, EmptyList)
		return err
	}
	for i, task := range tasks {
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i+1, FormatTask(task)); err != nil {
			return err
		}
	}
	return nil
}

// FormatTask renders a task as a single display line.
func FormatTask(task todo.Task) string {
	task.Description = normalizeDescription(task.Description)
	return task.String()
}

// normalizeDescription normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}

func writePDF(w io.Writer, tasks []todo.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)

	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, EmptyList, "0", "L", false)
	}
	done := 0
	for i, task := range tasks {
		if task.Completed {
			done++
		}
		line := fmt.Sprintf("%d. %s", i+1, FormatTask(task))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	if len(tasks) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("%d of %d completed", done, len(tasks)))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
