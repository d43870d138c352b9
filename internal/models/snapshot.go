package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows data from the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows data from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows data from the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows all available snapshots.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange24Hours:
		return 1
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Since returns the start of the range relative to now, or the zero time
// for All Time.
func (t TimeRange) Since(now time.Time) time.Time {
	days := t.Days()
	if days == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// UsageSnapshot is one fetched report persisted for charting (DB model).
type UsageSnapshot struct {
	Timestamp     time.Time
	RenewalAt     time.Time
	QuotaPercent  *float64
	Username      string
	Profile       string
	Status        string
	ID            int64
	DownloadBytes uint64
	UploadBytes   uint64
	TotalBytes    uint64
}

// DailyUsagePoint is the peak consumption seen on one day for one user.
// Portal counters are cumulative until renewal, so the maximum is the
// day's best reading.
type DailyUsagePoint struct {
	Date          time.Time
	DownloadBytes uint64
	UploadBytes   uint64
	TotalBytes    uint64
	Samples       int
}
