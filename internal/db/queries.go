package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/models"
)

const snapshotColumns = `id, timestamp, username, profile, download_bytes, upload_bytes,
	total_bytes, quota_percent, status, renewal_at`

// InsertSnapshot records a fetched usage report.
func (db *DB) InsertSnapshot(snapshot *models.UsageSnapshot) error {
	query := `
		INSERT INTO usage_snapshots (
			timestamp, username, profile, download_bytes, upload_bytes,
			total_bytes, quota_percent, status, renewal_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := snapshot.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		formatTime(timestamp),
		snapshot.Username,
		nullString(snapshot.Profile),
		int64(snapshot.DownloadBytes),
		int64(snapshot.UploadBytes),
		int64(snapshot.TotalBytes),
		nullFloat(snapshot.QuotaPercent),
		snapshot.Status,
		nullTime(snapshot.RenewalAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// GetRecentSnapshots returns the most recent snapshots across all users.
func (db *DB) GetRecentSnapshots(limit int) ([]models.UsageSnapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM usage_snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

// GetSnapshots returns a user's snapshots taken at or after since, oldest
// first. A zero since returns the full history.
func (db *DB) GetSnapshots(username string, since time.Time) ([]models.UsageSnapshot, error) {
	timeFilter := ""
	args := []any{username}
	if !since.IsZero() {
		timeFilter = sqlSinceClause
		args = append(args, formatTime(since))
	}

	query := fmt.Sprintf(`SELECT %s
		FROM usage_snapshots
		WHERE username = ? %s
		ORDER BY timestamp ASC, id ASC
	`, snapshotColumns, timeFilter)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

// CleanupOldSnapshots deletes snapshots taken before cutoff.
func (db *DB) CleanupOldSnapshots(cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM usage_snapshots WHERE timestamp < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up snapshots: %w", err)
	}
	return result.RowsAffected()
}

func scanSnapshots(rows *sql.Rows) ([]models.UsageSnapshot, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snapshots []models.UsageSnapshot
	for rows.Next() {
		var s models.UsageSnapshot
		var timestamp string
		var profile, renewal sql.NullString
		var percent sql.NullFloat64
		var down, up, total int64

		err := rows.Scan(
			&s.ID,
			&timestamp,
			&s.Username,
			&profile,
			&down,
			&up,
			&total,
			&percent,
			&s.Status,
			&renewal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage snapshot: %w", err)
		}

		s.Timestamp, _ = parseTimeString(timestamp)
		if renewal.Valid {
			s.RenewalAt, _ = parseTimeString(renewal.String)
		}
		if percent.Valid {
			p := percent.Float64
			s.QuotaPercent = &p
		}
		s.Profile = profile.String
		s.DownloadBytes = uint64(down)
		s.UploadBytes = uint64(up)
		s.TotalBytes = uint64(total)
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// UpsertProfileStatus stores the outcome of the latest fetch for a profile.
func (db *DB) UpsertProfileStatus(status *models.ProfileStatus) error {
	query := `
		INSERT INTO profile_status (
			profile, username, status, total_bytes, quota_percent, last_error, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			username = excluded.username,
			status = excluded.status,
			total_bytes = excluded.total_bytes,
			quota_percent = excluded.quota_percent,
			last_error = excluded.last_error,
			last_updated = excluded.last_updated
	`

	updated := status.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := db.ExecContext(context.Background(), query,
		status.Profile,
		status.Username,
		status.Status,
		int64(status.TotalBytes),
		nullFloat(status.QuotaPercent),
		nullString(status.LastError),
		formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile status: %w", err)
	}
	return nil
}

// GetProfileStatus retrieves the status for one profile. It returns nil
// without error when the profile has never been fetched.
func (db *DB) GetProfileStatus(profile string) (*models.ProfileStatus, error) {
	query := `
		SELECT profile, username, status, total_bytes, quota_percent, last_error, last_updated
		FROM profile_status
		WHERE profile = ?
	`

	status, err := scanProfileStatus(db.QueryRowContext(context.Background(), query, profile))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile status: %w", err)
	}
	return status, nil
}

// GetAllProfileStatuses returns every stored profile status ordered by name.
func (db *DB) GetAllProfileStatuses() ([]models.ProfileStatus, error) {
	query := `
		SELECT profile, username, status, total_bytes, quota_percent, last_error, last_updated
		FROM profile_status
		ORDER BY profile
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []models.ProfileStatus
	for rows.Next() {
		status, err := scanProfileStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile status: %w", err)
		}
		statuses = append(statuses, *status)
	}

	return statuses, rows.Err()
}

// DeleteProfileStatus removes a profile status entry.
func (db *DB) DeleteProfileStatus(profile string) error {
	_, err := db.ExecContext(context.Background(), "DELETE FROM profile_status WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("failed to delete profile status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfileStatus(row rowScanner) (*models.ProfileStatus, error) {
	var s models.ProfileStatus
	var total int64
	var percent sql.NullFloat64
	var lastError sql.NullString
	var updated string

	if err := row.Scan(&s.Profile, &s.Username, &s.Status, &total, &percent, &lastError, &updated); err != nil {
		return nil, err
	}

	s.TotalBytes = uint64(total)
	s.LastError = lastError.String
	s.LastUpdated, _ = parseTimeString(updated)
	if percent.Valid {
		p := percent.Float64
		s.QuotaPercent = &p
	}
	return &s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}
