package report

import (
	"fmt"
	"time"
)

// Status is the account state a report describes.
type Status int

const (
	// StatusActive means the login succeeded and traffic is flowing.
	StatusActive Status = iota
	// StatusQuotaReached means the portal refused login for an exhausted quota.
	StatusQuotaReached
)

// String returns the label used in the history log.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusQuotaReached:
		return "Quota Reached"
	default:
		return "Unknown"
	}
}

// QuotaBasis names the limit a usage percentage was computed against.
type QuotaBasis int

const (
	// BasisNone means no percentage could be derived.
	BasisNone QuotaBasis = iota
	// BasisTrafficQuota is the sum/disconnect quota of an active session.
	BasisTrafficQuota
	// BasisTotalThreshold compares combined traffic with the upload threshold.
	BasisTotalThreshold
	// BasisUploadThreshold compares upload traffic with the upload threshold.
	BasisUploadThreshold
)

// String returns a human label for the basis.
func (b QuotaBasis) String() string {
	switch b {
	case BasisTrafficQuota:
		return "Total Traffic Quota"
	case BasisTotalThreshold:
		return "Total Data Limit"
	case BasisUploadThreshold:
		return "Upload Limit"
	default:
		return "No Quota"
	}
}

// QuotaInfo is the disconnect quota attached to an active session.
type QuotaInfo struct {
	AvailableBytes *uint64
	TotalBytes     uint64
}

// UsedBytes returns total minus available when both are known.
func (q *QuotaInfo) UsedBytes() (uint64, bool) {
	if q == nil || q.AvailableBytes == nil {
		return 0, false
	}
	return q.TotalBytes - *q.AvailableBytes, true
}

// Thresholds are the limits reported alongside a quota-reached refusal.
type Thresholds struct {
	UpBytes   uint64
	DownBytes uint64
}

// UsageReport is the normalized result of one portal response.
// Optional fields are nil when the response does not allow deriving them.
type UsageReport struct {
	RenewalInstant   time.Time
	SampledAt        time.Time
	QuotaPercentUsed *float64
	QuotaExceededBy  *uint64
	Quota            *QuotaInfo
	Thresholds       *Thresholds
	Username         string
	Profile          string
	DownloadBytes    uint64
	UploadBytes      uint64
	TotalBytes       uint64
	TimeRemaining    time.Duration
	QuotaBasis       QuotaBasis
	Status           Status
}

// QuotaLimitBytes returns the limit the percentage refers to.
func (r *UsageReport) QuotaLimitBytes() (uint64, bool) {
	switch r.QuotaBasis {
	case BasisTrafficQuota:
		if r.Quota != nil {
			return r.Quota.TotalBytes, true
		}
	case BasisTotalThreshold, BasisUploadThreshold:
		if r.Thresholds != nil {
			return r.Thresholds.UpBytes, true
		}
	}
	return 0, false
}

// HighUsage reports whether the used percentage is above threshold.
func (r *UsageReport) HighUsage(threshold float64) bool {
	return r.QuotaPercentUsed != nil && *r.QuotaPercentUsed > threshold
}

// Countdown splits TimeRemaining into whole days, hours and minutes.
func (r *UsageReport) Countdown() Countdown {
	d := r.TimeRemaining
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	return Countdown{Days: days, Hours: hours, Minutes: int(d / time.Minute)}
}

// Countdown is time until renewal in display units.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
}

func (c Countdown) String() string {
	return fmt.Sprintf("%d days, %d hours, %d minutes", c.Days, c.Hours, c.Minutes)
}
