package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsvalidate/internal/model"
)

func validEvent(overrides map[string]string) *model.Event {
	ev := model.NewEvent(1)
	base := [][2]string{
		{"UID", "uid@example.com"},
		{"DTSTAMP", "20251006T120000Z"},
		{"DTSTART", "20251007T090000Z"},
		{"METHOD", "REQUEST"},
		{"STATUS", "CONFIRMED"},
		{"ATTENDEE", "mailto:patient@example.com"},
	}
	for _, kv := range base {
		v := kv[1]
		if o, ok := overrides[kv[0]]; ok {
			v = o
		}
		ev.Set(kv[0], v)
	}
	return ev
}

func messages(ds []model.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}

func TestValidateEvent_WellFormed(t *testing.T) {
	v := ValidateEvent(validEvent(nil), 9)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Warnings)
}

func TestValidateEvent_MissingAllRequired(t *testing.T) {
	v := ValidateEvent(model.NewEvent(1), 4)
	require.False(t, v.Valid)
	require.Len(t, v.Errors, 6)
	for i, p := range RequiredProperties {
		assert.Equal(t, "Missing required property '"+p+"' near line 4", v.Errors[i].Message)
		assert.Equal(t, 4, v.Errors[i].Line)
		assert.Equal(t, model.SeverityError, v.Errors[i].Severity)
	}
}

func TestValidateEvent_EmptyRequiredValue(t *testing.T) {
	v := ValidateEvent(validEvent(map[string]string{"METHOD": ""}), 3)
	assert.Equal(t, []string{"Missing required property 'METHOD' near line 3"}, messages(v.Errors))
}

func TestValidateEvent_SingleFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		contains string
	}{
		{"method publish", map[string]string{"METHOD": "PUBLISH"}, "Invalid METHOD"},
		{"method lower case", map[string]string{"METHOD": "request"}, "Invalid METHOD value 'request'"},
		{"status unknown", map[string]string{"STATUS": "DONE"}, "Invalid STATUS value 'DONE'"},
		{"dtstamp wrong shape", map[string]string{"DTSTAMP": "2025-10-06T12:00"}, "Invalid DTSTAMP format"},
		{"dtstamp no zone", map[string]string{"DTSTAMP": "20251006T120000"}, "Invalid DTSTAMP format"},
		{"dtstart letters", map[string]string{"DTSTART": "2025100AT090000Z"}, "Invalid DTSTART format"},
		{"attendee email only", map[string]string{"ATTENDEE": "invalid@format"}, "Invalid ATTENDEE"},
		{"attendee bare scheme", map[string]string{"ATTENDEE": "mailto:"}, "Invalid ATTENDEE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateEvent(validEvent(tt.override), 12)
			assert.False(t, v.Valid)
			require.Len(t, v.Errors, 1, "errors: %v", messages(v.Errors))
			assert.Contains(t, v.Errors[0].Message, tt.contains)
			assert.True(t, strings.HasSuffix(v.Errors[0].Message, "near line 12"))
		})
	}
}

func TestValidateEvent_AcceptedValues(t *testing.T) {
	for _, st := range ValidStatuses {
		v := ValidateEvent(validEvent(map[string]string{"STATUS": st}), 1)
		assert.True(t, v.Valid, st)
	}
	v := ValidateEvent(validEvent(map[string]string{"ATTENDEE": "tel:+15551234567"}), 1)
	assert.True(t, v.Valid)
}

func TestValidateEvent_PropertyClassification(t *testing.T) {
	ev := validEvent(nil)
	ev.Set("SUMMARY", "Checkup")
	ev.Set("X-CUSTOM", "1")
	ev.Set("LOCATION", "Room 4")
	ev.Set("DTEDN", "20251007T100000Z")

	v := ValidateEvent(ev, 20)
	assert.False(t, v.Valid)
	assert.Equal(t, []string{
		"Unknown property 'X-CUSTOM' near line 20",
		"Unknown property 'DTEDN' near line 20",
	}, messages(v.Errors))
	assert.Equal(t, []string{
		"Optional property 'SUMMARY' has been ignored.",
		"Optional property 'LOCATION' has been ignored.",
	}, messages(v.Warnings))

	assert.Empty(t, v.Errors[0].Suggestion)
	assert.Equal(t, "did you mean 'DTEND'?", v.Errors[1].Suggestion)
}

func TestValidateEvent_ChecksAccumulate(t *testing.T) {
	ev := model.NewEvent(1)
	ev.Set("METHOD", "PUBLISH")
	ev.Set("FOO", "bar")

	v := ValidateEvent(ev, 5)
	assert.Equal(t, []string{
		"Missing required property 'UID' near line 5",
		"Missing required property 'DTSTAMP' near line 5",
		"Missing required property 'DTSTART' near line 5",
		"Missing required property 'STATUS' near line 5",
		"Missing required property 'ATTENDEE' near line 5",
		"Invalid METHOD value 'PUBLISH' near line 5",
		"Unknown property 'FOO' near line 5",
	}, messages(v.Errors))
}

func TestIsUTCDateTime(t *testing.T) {
	assert.True(t, IsUTCDateTime("20251006T120000Z"))
	assert.True(t, IsUTCDateTime("99999999T999999Z"))
	assert.False(t, IsUTCDateTime(""))
	assert.False(t, IsUTCDateTime("20251006T120000z"))
	assert.False(t, IsUTCDateTime("20251006 120000Z"))
	assert.False(t, IsUTCDateTime("20251006T1200000Z"))
	assert.False(t, IsUTCDateTime("20251006"))
}
