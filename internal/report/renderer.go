// Package report renders parse results and corpus summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/ethnia/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// KindCount tallies the load outcome of one entity kind
type KindCount struct {
	Kind     model.Kind `json:"kind"`
	Entities int        `json:"entities"`
	Warnings int        `json:"warnings"` // Entities with at least one warning
	Failures int        `json:"failures"`
}

// Summary is the corpus-wide outcome printed after a load
type Summary struct {
	Root       string         `json:"root"`
	Kinds      []KindCount    `json:"kinds"`
	Issues     map[string]int `json:"issues,omitempty"` // Validation issues by severity
	MeanIndex  int            `json:"meanIndex"`
	Output     string         `json:"output,omitempty"`
	DurationMS int64          `json:"durationMs"`
}

// Total returns the number of documents loaded or failed
func (s Summary) Total() (entities, failures int) {
	for _, k := range s.Kinds {
		entities += k.Entities
		failures += k.Failures
	}
	return entities, failures
}

// WriteJSON encodes v to w
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// RenderJSON writes v as indented JSON to path, creating parent directories
func RenderJSON(v any, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return WriteJSON(f, v, true)
}

// EntityPath returns the output path of an entity: <dir>/<kind>/<id>.json
func EntityPath(dir string, kind model.Kind, id string) string {
	return filepath.Join(dir, string(kind), sanitizeFilename(id)+".json")
}

// RenderSummary prints a human-readable summary
func RenderSummary(w io.Writer, s Summary) {
	entities, failures := s.Total()

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Corpus Loaded")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	if s.Root != "" {
		fmt.Fprintf(w, "  Root:      %s\n", s.Root)
	}
	for _, k := range s.Kinds {
		fmt.Fprintf(w, "  %-16s %4d ok  %4d with warnings  %4d failed\n", k.Kind, k.Entities, k.Warnings, k.Failures)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Entities:  %d\n", entities)
	fmt.Fprintf(w, "  Failures:  %d\n", failures)
	if len(s.Issues) > 0 {
		fmt.Fprintf(w, "  Issues:    %d critical, %d warning, %d info\n",
			s.Issues["critical"], s.Issues["warning"], s.Issues["info"])
		fmt.Fprintf(w, "  Index:     %d/100 (mean)\n", s.MeanIndex)
	}
	if s.Output != "" {
		fmt.Fprintf(w, "  Output:    %s\n", s.Output)
	}
	fmt.Fprintf(w, "  Duration:  %dms\n", s.DurationMS)
	fmt.Fprintln(w)
}

// sanitizeFilename keeps identifiers usable as file names
func sanitizeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '-'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
