package ics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"icsvalidate/internal/model"
)

// RequiredProperties must be present and non-empty in every VEVENT, and are
// reported in this order when missing.
var RequiredProperties = []string{"UID", "DTSTAMP", "DTSTART", "METHOD", "STATUS", "ATTENDEE"}

// OptionalProperties are recognized but not validated.
var OptionalProperties = []string{
	"DTEND", "DURATION", "CREATED", "DESCRIPTION", "LAST-MODIFIED", "ORGANIZER",
	"SUMMARY", "SEQUENCE", "LOCATION", "CATEGORIES", "CLASS", "PRIORITY", "TRANSP", "URL",
}

// ValidStatuses lists the accepted STATUS values.
var ValidStatuses = []string{"TENTATIVE", "CONFIRMED", "CANCELLED"}

const requiredMethod = "REQUEST"

// Accepted ATTENDEE URI schemes.
var attendeeSchemes = []string{"mailto:", "tel:"}

// maxSuggestDistance bounds the edit distance for "did you mean" hints.
const maxSuggestDistance = 2

// ValidateEvent checks one event closed at line. Every check runs; nothing
// short-circuits.
func ValidateEvent(ev *model.Event, line int) model.Verdict {
	var errs, warns []model.Diagnostic
	fail := func(format string, args ...any) {
		errs = append(errs, model.NewError(line, fmt.Sprintf(format, args...)))
	}

	for _, p := range RequiredProperties {
		if ev.Value(p) == "" {
			fail("Missing required property '%s' near line %d", p, line)
		}
	}

	if m := ev.Method(); m != "" && m != requiredMethod {
		fail("Invalid METHOD value '%s' near line %d", m, line)
	}
	if st := ev.Status(); st != "" && !slices.Contains(ValidStatuses, st) {
		fail("Invalid STATUS value '%s' near line %d", st, line)
	}
	if ts := ev.DTStamp(); ts != "" && !IsUTCDateTime(ts) {
		fail("Invalid DTSTAMP format near line %d", line)
	}
	if ts := ev.DTStart(); ts != "" && !IsUTCDateTime(ts) {
		fail("Invalid DTSTART format near line %d", line)
	}
	if a := ev.Attendee(); a != "" && !isAttendeeURI(a) {
		fail("Invalid ATTENDEE near line %d", line)
	}

	for _, key := range ev.Keys() {
		switch {
		case slices.Contains(RequiredProperties, key):
		case slices.Contains(OptionalProperties, key):
			warns = append(warns, model.NewWarning(line, fmt.Sprintf("Optional property '%s' has been ignored.", key)))
		default:
			d := model.NewError(line, fmt.Sprintf("Unknown property '%s' near line %d", key, line))
			d.Suggestion = suggestProperty(key)
			errs = append(errs, d)
		}
	}

	return model.Verdict{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// IsUTCDateTime reports whether v has the exact shape YYYYMMDDTHHMMSSZ.
// Only the shape is checked, not whether the date exists.
func IsUTCDateTime(v string) bool {
	if len(v) != 16 || v[8] != 'T' || v[15] != 'Z' {
		return false
	}
	for i := 0; i < 15; i++ {
		if i == 8 {
			continue
		}
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

func isAttendeeURI(v string) bool {
	for _, scheme := range attendeeSchemes {
		if strings.HasPrefix(v, scheme) && len(v) > len(scheme) {
			return true
		}
	}
	return false
}

// suggestProperty returns a hint naming the closest known property, or ""
// if none is close enough.
func suggestProperty(unknown string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, group := range [][]string{RequiredProperties, OptionalProperties} {
		for _, name := range group {
			if d := levenshtein.ComputeDistance(unknown, name); d < bestDist {
				best, bestDist = name, d
			}
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", best)
}
