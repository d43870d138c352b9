package report

import (
	"encoding/json"
	"fmt"
)

// excerptLimit bounds the diagnostic payload carried by errors and
// unrecognized responses.
const excerptLimit = 500

// ResponseFormatError is returned when the portal payload is not a JSON object.
type ResponseFormatError struct {
	Err     error
	Excerpt string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("invalid response format: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// MalformedDataError is returned when a recognized response lacks a required
// numeric field or carries one that is not an integer.
type MalformedDataError struct {
	Err   error
	Data  any
	Field string
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed field %q", e.Field)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

// DataExcerpt renders the offending sub-object for diagnostics.
func (e *MalformedDataError) DataExcerpt() string {
	return excerptOf(e.Data)
}

// ReportUnavailableError is returned by Build for responses that carry no
// usage data (portal errors and unrecognized documents).
type ReportUnavailableError struct {
	Reason string
	Detail string
}

func (e *ReportUnavailableError) Error() string {
	if e.Detail == "" {
		return "report unavailable: " + e.Reason
	}
	return fmt.Sprintf("report unavailable: %s: %s", e.Reason, e.Detail)
}

// FormatError is returned by FormatBytes for values that are not numeric.
type FormatError struct {
	Value any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format %v (%T) as bytes", e.Value, e.Value)
}

// excerptOf serializes v and truncates it to excerptLimit runes.
func excerptOf(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return truncate(fmt.Sprint(v), excerptLimit)
	}
	return truncate(string(data), excerptLimit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
