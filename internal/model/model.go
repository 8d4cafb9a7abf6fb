package model

// Severity classifies a Diagnostic. Only errors make a document invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single finding produced while scanning or validating.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`

	// Line is the 1-based ordinal of the non-empty line the finding refers
	// to, or 0 for document-level findings.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`

	// Suggestion is an optional hint rendered next to the message.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func NewError(line int, msg string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: msg, Line: line}
}

func NewWarning(line int, msg string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: msg, Line: line}
}

// Verdict is the outcome of validating one event.
type Verdict struct {
	Valid    bool
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Event represents the properties of a single VEVENT block.
//
// Keys are stored upper-cased and are unique; the first value set for a key
// wins. Keys are kept in insertion order so that classification output is
// stable across runs.
type Event struct {
	// Line is the line number of the BEGIN:VEVENT marker that opened the event.
	Line int

	props map[string]string
	keys  []string
}

// NewEvent returns an empty event opened at the given line.
func NewEvent(line int) *Event {
	return &Event{
		Line:  line,
		props: make(map[string]string),
	}
}

// Set stores value under key unless key is already present. It reports
// whether the value was stored.
func (e *Event) Set(key, value string) bool {
	if _, ok := e.props[key]; ok {
		return false
	}
	e.props[key] = value
	e.keys = append(e.keys, key)
	return true
}

// Get returns the value for key and whether it is present.
func (e *Event) Get(key string) (string, bool) {
	v, ok := e.props[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (e *Event) Value(key string) string {
	return e.props[key]
}

// Keys returns the property names in the order they were first seen.
func (e *Event) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

func (e *Event) UID() string      { return e.props["UID"] }
func (e *Event) DTStamp() string  { return e.props["DTSTAMP"] }
func (e *Event) DTStart() string  { return e.props["DTSTART"] }
func (e *Event) Method() string   { return e.props["METHOD"] }
func (e *Event) Status() string   { return e.props["STATUS"] }
func (e *Event) Attendee() string { return e.props["ATTENDEE"] }
