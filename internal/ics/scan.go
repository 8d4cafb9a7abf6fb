package ics

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"icsvalidate/internal/model"
)

// Result is the outcome of scanning a whole document.
type Result struct {
	// Events holds every closed VEVENT in close order, valid or not.
	Events   []*model.Event
	Errors   []model.Diagnostic
	Warnings []model.Diagnostic
}

// Valid reports whether the scan produced no errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// scanner holds the mutable state of a single Scan call.
type scanner struct {
	inCalendar bool
	current    *model.Event

	// skipping is left set across END:VEVENT and END:VCALENDAR; only an
	// end-marker seen inside an open event clears it.
	skipping bool

	upper  cases.Caser
	result Result
}

// SplitLines splits text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ScanText is shorthand for Scan(SplitLines(text)).
func ScanText(text string) Result {
	return Scan(SplitLines(text))
}

// Scan walks the prepared lines of a document, tracking VCALENDAR/VEVENT
// nesting. Each closed VEVENT is validated with ValidateEvent and its
// diagnostics are appended at the point it closes. Document-level checks
// (PRODID, VERSION, at least one VEVENT) run after the last line.
//
// Line numbers in diagnostics are 1-based indexes into lines.
func Scan(lines []string) Result {
	s := &scanner{upper: cases.Upper(language.Und)}
	for i, line := range lines {
		s.step(strings.TrimSpace(line), i+1)
	}

	if !hasProperty(lines, PropProdID) {
		s.errorf(0, "%s property is missing in VCALENDAR", PropProdID)
	}
	if !hasProperty(lines, PropVersion) {
		s.errorf(0, "%s property is missing in VCALENDAR", PropVersion)
	}
	if len(s.result.Events) == 0 {
		s.errorf(0, "no VEVENT blocks found")
	}
	return s.result
}

func (s *scanner) step(line string, n int) {
	switch {
	case isMarker(line, MarkerBeginCalendar):
		if s.inCalendar {
			s.errorf(n, "VCALENDAR nested at line %d", n)
		}
		s.inCalendar = true
		return

	case isMarker(line, MarkerEndCalendar):
		if !s.inCalendar {
			s.errorf(n, "VCALENDAR ended without BEGIN at line %d", n)
		}
		// An event still open here is dropped without a diagnostic.
		s.inCalendar = false
		s.current = nil
		return
	}

	if !s.inCalendar {
		return
	}

	switch {
	case isMarker(line, MarkerBeginEvent):
		if s.current != nil {
			s.errorf(n, "nested VEVENT detected at line %d", n)
			return
		}
		s.current = model.NewEvent(n)
		return

	case isMarker(line, MarkerEndEvent):
		if s.current == nil {
			s.errorf(n, "VEVENT ended without BEGIN at line %d", n)
			return
		}
		s.closeEvent(n)
		return
	}

	if s.current == nil {
		return
	}

	if s.skipping {
		if isEndMarker(line) {
			s.skipping = false
		}
		return
	}

	if isBeginMarker(line) {
		s.warnf(n, "ignored nested component: %s at line %d", line, n)
		s.skipping = true
		return
	}

	s.property(line, n)
}

func (s *scanner) property(line string, n int) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		s.errorf(n, "line format is invalid at line %d", n)
		return
	}
	key = s.upper.String(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	if !s.current.Set(key, value) {
		s.errorf(n, "duplicate key '%s' at line %d", key, n)
	}
}

func (s *scanner) closeEvent(n int) {
	v := ValidateEvent(s.current, n)
	s.result.Errors = append(s.result.Errors, v.Errors...)
	s.result.Warnings = append(s.result.Warnings, v.Warnings...)
	s.result.Events = append(s.result.Events, s.current)
	s.current = nil
}

func (s *scanner) errorf(n int, format string, args ...any) {
	s.result.Errors = append(s.result.Errors, model.NewError(n, fmt.Sprintf(format, args...)))
}

func (s *scanner) warnf(n int, format string, args ...any) {
	s.result.Warnings = append(s.result.Warnings, model.NewWarning(n, fmt.Sprintf(format, args...)))
}
