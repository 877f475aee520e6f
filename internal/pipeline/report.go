package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter writes a run result for user consumption.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// NewFormatter returns a formatter for the given format name ("text" or
// "json"); unknown names fall back to text.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter prints one line per collected issue followed by a summary.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, result *Result) error {
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(w, "%s: %s\n", issue.Category, issue.Path()); err != nil {
			return err
		}
	}

	if result.HasBlockingIssues() {
		failed := result.blockingIssueCount()
		_, err := fmt.Fprintf(w, "%d reference%s failed, no document written\n",
			failed, pluralize(failed))
		return err
	}

	_, err := fmt.Fprintf(w, "%d reference%s rewritten, %d asset%s copied: %s\n",
		result.References, pluralize(result.References),
		result.AssetsCopied, pluralize(result.AssetsCopied),
		result.Document)
	return err
}

// JSONFormatter emits the result as a single JSON object.
type JSONFormatter struct{}

type jsonIssue struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

type jsonResult struct {
	RunID        string      `json:"run_id"`
	Document     string      `json:"document,omitempty"`
	References   int         `json:"references"`
	AssetsCopied int         `json:"assets_copied"`
	Issues       []jsonIssue `json:"issues"`
}

func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	out := jsonResult{
		RunID:        result.RunID,
		Document:     result.Document,
		References:   result.References,
		AssetsCopied: result.AssetsCopied,
		Issues:       make([]jsonIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, jsonIssue{
			Category: string(issue.Category),
			Severity: string(issue.Severity),
			Path:     issue.Path(),
			Message:  issue.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
