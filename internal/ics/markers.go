package ics

import "strings"

// Block markers recognized by the scanner. Matching is case-insensitive.
const (
	MarkerBeginCalendar = "BEGIN:VCALENDAR"
	MarkerEndCalendar   = "END:VCALENDAR"
	MarkerBeginEvent    = "BEGIN:VEVENT"
	MarkerEndEvent      = "END:VEVENT"

	// Prefixes shared by every component marker.
	MarkerBegin = "BEGIN:"
	MarkerEnd   = "END:"
)

// Calendar-level properties that must appear somewhere in the document.
const (
	PropProdID  = "PRODID"
	PropVersion = "VERSION"
)

func isMarker(line, marker string) bool {
	return strings.EqualFold(strings.TrimSpace(line), marker)
}

func hasPrefixFold(line, prefix string) bool {
	return len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix)
}

func isBeginMarker(line string) bool {
	return hasPrefixFold(strings.TrimSpace(line), MarkerBegin)
}

func isEndMarker(line string) bool {
	return hasPrefixFold(strings.TrimSpace(line), MarkerEnd)
}

// hasProperty reports whether any line starts with "<name>:".
func hasProperty(lines []string, name string) bool {
	prefix := name + ":"
	for _, l := range lines {
		if hasPrefixFold(strings.TrimSpace(l), prefix) {
			return true
		}
	}
	return false
}
