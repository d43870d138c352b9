package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

var (
	errNotDocument   = errors.New("top-level value is not a JSON object")
	errTrailingBytes = errors.New("unexpected data after JSON value")
)

// Parse decodes a raw portal payload into a JSON object. Numbers are kept as
// json.Number so byte counts above 2^53 survive intact.
func Parse(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &ResponseFormatError{Err: err, Excerpt: truncate(string(raw), excerptLimit)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ResponseFormatError{
			Err:     errTrailingBytes,
			Excerpt: truncate(string(raw), excerptLimit),
		}
	}

	doc, ok := value.(map[string]any)
	if !ok {
		return nil, &ResponseFormatError{Err: errNotDocument, Excerpt: truncate(string(raw), excerptLimit)}
	}
	return doc, nil
}

// Generate runs parse, classify and build over a raw payload. The error is
// one of *ResponseFormatError, *ReportUnavailableError or *MalformedDataError.
func Generate(raw []byte, now time.Time) (*UsageReport, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Build(Classify(doc), now)
}
