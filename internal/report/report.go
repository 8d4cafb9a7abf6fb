package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"icsvalidate/internal/config"
	"icsvalidate/internal/ics"
	"icsvalidate/internal/model"
)

const (
	titleBanner   = "===> iCALENDAR VALIDATION SUMMARY <==="
	successBanner = "✅ CALENDAR IS VALID -> NO ERROR FOUND! ✅"
	warningMarker = "⚠️ "
	errorMarker   = "❌ "
)

// Report is the rendered outcome of validating one document.
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	Source      string             `json:"source" yaml:"source"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	EventCount  int                `json:"event_count" yaml:"event_count"`
	Valid       bool               `json:"valid" yaml:"valid"`
	Warnings    []model.Diagnostic `json:"warnings" yaml:"warnings"`
	Errors      []model.Diagnostic `json:"errors" yaml:"errors"`
}

// New builds a report from a scan result. extra holds additional warnings
// (for example from ics.CrossCheck) appended after the scan's own warnings.
func New(source string, res ics.Result, extra []model.Diagnostic) Report {
	warnings := make([]model.Diagnostic, 0, len(res.Warnings)+len(extra))
	warnings = append(warnings, res.Warnings...)
	warnings = append(warnings, extra...)

	errs := make([]model.Diagnostic, 0, len(res.Errors))
	errs = append(errs, res.Errors...)

	return Report{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		EventCount:  len(res.Events),
		Valid:       len(errs) == 0,
		Warnings:    warnings,
		Errors:      errs,
	}
}

// WithoutSuggestions returns a copy of r with every suggestion cleared.
func (r Report) WithoutSuggestions() Report {
	strip := func(ds []model.Diagnostic) []model.Diagnostic {
		out := make([]model.Diagnostic, len(ds))
		for i, d := range ds {
			d.Suggestion = ""
			out[i] = d
		}
		return out
	}
	r.Warnings = strip(r.Warnings)
	r.Errors = strip(r.Errors)
	return r
}

// RenderText writes the human-readable report: a title banner, every
// warning, then either the error count banner followed by every error or a
// single success banner.
func RenderText(w io.Writer, r Report) error {
	var b bytes.Buffer

	fmt.Fprintf(&b, "\n %s \n\n", titleBanner)
	for _, d := range r.Warnings {
		b.WriteString(warningMarker + line(d) + "\n")
	}
	b.WriteString(" \n")

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\n==> ❌ INVALID CALENDAR. DETECTED %d %s <== \n\n", len(r.Errors), plural(len(r.Errors)))
		for _, d := range r.Errors {
			b.WriteString(errorMarker + line(d) + "\n")
		}
	} else {
		b.WriteString("\n" + successBanner + "\n")
	}

	_, err := w.Write(b.Bytes())
	return err
}

func RenderJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func RenderYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Render writes r in the given config format; unknown formats render text.
func Render(w io.Writer, r Report, format string) error {
	switch format {
	case config.FormatJSON:
		return RenderJSON(w, r)
	case config.FormatYAML:
		return RenderYAML(w, r)
	default:
		return RenderText(w, r)
	}
}

// Bytes renders r into memory.
func Bytes(r Report, format string) ([]byte, error) {
	var b bytes.Buffer
	if err := Render(&b, r, format); err != nil {
		return nil, fmt.Errorf("report: render %s: %w", format, err)
	}
	return b.Bytes(), nil
}

// WriteFile renders r and atomically replaces path with the result.
func WriteFile(path string, r Report, format string) error {
	data, err := Bytes(r, format)
	if err != nil {
		return err
	}
	if err := config.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

func line(d model.Diagnostic) string {
	if d.Suggestion == "" {
		return d.Message
	}
	return d.Message + " (" + d.Suggestion + ")"
}

func plural(n int) string {
	if n == 1 {
		return "ERROR"
	}
	return "ERRORS"
}
