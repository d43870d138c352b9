package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/netmeter/internal/models"
)

var timeFormats = []string{
	timeLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

// parseTimeString parses stored timestamps as UTC.
func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetDailyUsage returns per-day peak consumption for a user over the range,
// oldest day first.
func (db *DB) GetDailyUsage(username string, timeRange models.TimeRange) ([]models.DailyUsagePoint, error) {
	timeFilter := ""
	args := []any{username}
	if since := timeRange.Since(time.Now()); !since.IsZero() {
		timeFilter = sqlSinceClause
		args = append(args, formatTime(since))
	}

	query := fmt.Sprintf(`
		SELECT
			date(timestamp) as day,
			MAX(download_bytes),
			MAX(upload_bytes),
			MAX(total_bytes),
			COUNT(*)
		FROM usage_snapshots
		WHERE username = ? %s
		GROUP BY day
		ORDER BY day ASC
	`, timeFilter)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.DailyUsagePoint
	for rows.Next() {
		var p models.DailyUsagePoint
		var day string
		var down, up, total int64

		if err := rows.Scan(&day, &down, &up, &total, &p.Samples); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}

		if t, err := time.Parse("2006-01-02", day); err == nil {
			p.Date = t
		}
		p.DownloadBytes = uint64(down)
		p.UploadBytes = uint64(up)
		p.TotalBytes = uint64(total)
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetFirstSnapshotTime returns when a user was first recorded, or the zero
// time when there are no snapshots.
func (db *DB) GetFirstSnapshotTime(username string) (time.Time, error) {
	var first sql.NullString
	err := db.QueryRowContext(context.Background(),
		"SELECT MIN(timestamp) FROM usage_snapshots WHERE username = ?", username).Scan(&first)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query first snapshot: %w", err)
	}
	if !first.Valid {
		return time.Time{}, nil
	}
	t, _ := parseTimeString(first.String)
	return t, nil
}
