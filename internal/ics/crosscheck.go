package ics

import (
	"bytes"
	"errors"
	"fmt"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"icsvalidate/internal/model"
)

// ErrEmptyDocument is returned when a document has no content at all.
var ErrEmptyDocument = errors.New("empty calendar document")

// CrossCheck parses body with a full iCalendar library and reports what the
// line scanner cannot see: dates that have the right shape but do not exist,
// and recurrence rules that cannot be parsed. Every finding is a warning.
func CrossCheck(body []byte) ([]model.Diagnostic, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDocument
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return []model.Diagnostic{
			model.NewWarning(0, fmt.Sprintf("calendar library could not parse document: %v", err)),
		}, nil
	}

	var out []model.Diagnostic
	for _, ve := range cal.Events() {
		uid := ve.Id()

		if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil && IsUTCDateTime(p.Value) {
			if _, err := ve.GetStartAt(); err != nil {
				out = append(out, model.NewWarning(0,
					fmt.Sprintf("DTSTART '%s' of event '%s' is not a valid date", p.Value, uid)))
			}
		}

		// RRULE is only reported here; the scanner already flags it as unknown.
		if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
			if _, err := rrule.StrToRRule(p.Value); err != nil {
				out = append(out, model.NewWarning(0,
					fmt.Sprintf("RRULE of event '%s' cannot be parsed: %v", uid, err)))
			}
		}
	}
	return out, nil
}
