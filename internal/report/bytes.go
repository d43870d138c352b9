package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BytesPerMB is the divisor used for every MB figure the tool shows or stores.
const BytesPerMB = 1024 * 1024

// FormatBytes renders a byte count as megabytes with one decimal, e.g. "1.5 MB".
// Negative and fractional values are accepted; non-numeric input yields a
// *FormatError carrying the value.
func FormatBytes(value any) (string, error) {
	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &FormatError{Value: value}
	}
	return fmt.Sprintf("%.1f MB", f/BytesPerMB), nil
}

// MB is the infallible form of FormatBytes for typed byte counts.
func MB(b uint64) string {
	return fmt.Sprintf("%.1f MB", float64(b)/BytesPerMB)
}

// Megabytes converts a byte count to fractional megabytes.
func Megabytes(b uint64) float64 {
	return float64(b) / BytesPerMB
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
