package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errMissing     = errors.New("field is missing")
	errNotObject   = errors.New("expected a JSON object")
	errNotInteger  = errors.New("value is not an integer")
	errNegative    = errors.New("value must not be negative")
	errQuotaBounds = errors.New("available quota exceeds total quota")
)

// Build derives a UsageReport from a classified response. APIError and
// Unrecognized yield *ReportUnavailableError; missing or non-integer fields
// yield *MalformedDataError. No partial report is ever returned.
func Build(v Variant, now time.Time) (*UsageReport, error) {
	switch v := v.(type) {
	case Active:
		return buildActive(v, now)
	case QuotaReached:
		return buildQuotaReached(v, now)
	case APIError:
		return nil, &ReportUnavailableError{Reason: "portal error", Detail: v.Message}
	case Unrecognized:
		return nil, &ReportUnavailableError{Reason: "unrecognized response", Detail: v.Excerpt}
	default:
		return nil, &ReportUnavailableError{Reason: fmt.Sprintf("unsupported variant %T", v)}
	}
}

func buildActive(v Active, now time.Time) (*UsageReport, error) {
	const prefix = "user.consumedData"

	consumed, ok := v.Consumed.(map[string]any)
	if !ok {
		return nil, &MalformedDataError{Field: prefix, Data: v.Consumed, Err: errNotObject}
	}
	fields := fieldReader{obj: consumed, prefix: prefix}

	download := fields.bytes("download", "value")
	upload := fields.bytes("upload", "value")
	renew := fields.integer("renewTimestamp", "value")
	sample, hasSample := fields.optionalInteger("timestamp", "value")
	if fields.err != nil {
		return nil, fields.err
	}

	rep := &UsageReport{
		Status:         StatusActive,
		DownloadBytes:  download,
		UploadBytes:    upload,
		TotalBytes:     download + upload,
		RenewalInstant: time.Unix(renew, 0),
		TimeRemaining:  remaining(renew, now),
		Username:       stringAt(v.User, "login", "value"),
		Profile:        stringAt(v.User, "profile", "value"),
	}
	if hasSample {
		rep.SampledAt = time.Unix(sample, 0)
	}

	quota, err := scanQuota(consumed)
	if err != nil {
		return nil, err
	}
	rep.Quota = quota
	if used, ok := quota.UsedBytes(); ok && quota.TotalBytes > 0 {
		pct := float64(used) / float64(quota.TotalBytes) * 100
		rep.QuotaPercentUsed = &pct
		rep.QuotaBasis = BasisTrafficQuota
	}

	return rep, nil
}

// scanQuota returns the first extra entry flagged as both sum and disconnect
// quota, or nil when there is none.
func scanQuota(consumed map[string]any) (*QuotaInfo, error) {
	items, _ := valueAt(consumed, "extra", "value")
	list, ok := items.([]any)
	if !ok {
		return nil, nil
	}

	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok || !truthy(entry["isSumQuota"]) || !truthy(entry["isDisconnectQuota"]) {
			continue
		}

		fields := fieldReader{obj: entry, prefix: fmt.Sprintf("user.consumedData.extra.value[%d]", i)}
		total, hasTotal := fields.optionalBytes("total", "upload")
		available, hasAvailable := fields.optionalBytes("available", "upload")
		if fields.err != nil {
			return nil, fields.err
		}
		if !hasTotal {
			return nil, nil
		}

		quota := &QuotaInfo{TotalBytes: total}
		if hasAvailable {
			if available > total {
				return nil, &MalformedDataError{Field: fields.prefix + ".available.upload", Data: entry, Err: errQuotaBounds}
			}
			quota.AvailableBytes = &available
		}
		return quota, nil
	}

	return nil, nil
}

func buildQuotaReached(v QuotaReached, now time.Time) (*UsageReport, error) {
	const prefix = "error.value"

	value, ok := v.Value.(map[string]any)
	if !ok || len(value) == 0 {
		err := errNotObject
		if v.Value == nil || ok {
			err = errMissing
		}
		return nil, &MalformedDataError{Field: prefix, Data: v.Value, Err: err}
	}
	fields := fieldReader{obj: value, prefix: prefix}

	up := fields.bytes("consumedUp")
	down := fields.bytes("consumedDown")
	renew := fields.integer("renewTimeStamp")
	thresholdUp, _ := fields.optionalBytes("thresoldUp")
	thresholdDown, _ := fields.optionalInteger("thresoldDown")
	if fields.err != nil {
		return nil, fields.err
	}

	rep := &UsageReport{
		Status:         StatusQuotaReached,
		DownloadBytes:  down,
		UploadBytes:    up,
		TotalBytes:     up + down,
		RenewalInstant: time.Unix(renew, 0),
		TimeRemaining:  remaining(renew, now),
		Thresholds: &Thresholds{
			UpBytes:   thresholdUp,
			DownBytes: absInt(thresholdDown),
		},
	}

	limit := thresholdUp
	switch {
	case rep.TotalBytes > limit && limit > 0:
		pct := float64(rep.TotalBytes) / float64(limit) * 100
		exceeded := rep.TotalBytes - limit
		rep.QuotaPercentUsed = &pct
		rep.QuotaExceededBy = &exceeded
		rep.QuotaBasis = BasisTotalThreshold
	case limit > 0:
		pct := float64(up) / float64(limit) * 100
		rep.QuotaPercentUsed = &pct
		rep.QuotaBasis = BasisUploadThreshold
	}

	return rep, nil
}

// remaining is the non-negative time between now and the renewal epoch.
func remaining(renewEpoch int64, now time.Time) time.Duration {
	d := time.Unix(renewEpoch, 0).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func absInt(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// fieldReader extracts integer fields from one sub-object and keeps the first
// failure, so call sites read a batch of fields and check once.
type fieldReader struct {
	err    error
	obj    map[string]any
	prefix string
}

func (r *fieldReader) fail(path []string, err error) {
	if r.err == nil {
		r.err = &MalformedDataError{
			Field: r.prefix + "." + strings.Join(path, "."),
			Data:  r.obj,
			Err:   err,
		}
	}
}

func (r *fieldReader) integer(path ...string) int64 {
	n, ok := r.optionalInteger(path...)
	if !ok && r.err == nil {
		r.fail(path, errMissing)
	}
	return n
}

func (r *fieldReader) optionalInteger(path ...string) (int64, bool) {
	raw, ok := valueAt(r.obj, path...)
	if !ok || raw == nil {
		return 0, false
	}
	n, err := parseInt(raw)
	if err != nil {
		r.fail(path, err)
		return 0, false
	}
	return n, true
}

func (r *fieldReader) bytes(path ...string) uint64 {
	n := r.integer(path...)
	if n < 0 {
		r.fail(path, errNegative)
		return 0
	}
	return uint64(n)
}

func (r *fieldReader) optionalBytes(path ...string) (uint64, bool) {
	n, ok := r.optionalInteger(path...)
	if !ok {
		return 0, false
	}
	if n < 0 {
		r.fail(path, errNegative)
		return 0, false
	}
	return uint64(n), true
}

// parseInt accepts JSON numbers and decimal strings holding whole numbers.
func parseInt(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, n.String())
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, n)
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || math.Abs(n) >= 1<<63 {
			return 0, fmt.Errorf("%w: %v", errNotInteger, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", errNotInteger, v, v)
	}
}

// valueAt walks nested objects along path.
func valueAt(obj map[string]any, path ...string) (any, bool) {
	var cur any = obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringAt(obj map[string]any, path ...string) string {
	v, ok := valueAt(obj, path...)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != ""
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case float64:
		return b != 0
	case nil:
		return false
	default:
		return true
	}
}
