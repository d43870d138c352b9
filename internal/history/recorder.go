// Package history keeps the append-only CSV log of usage reports.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/report"
)

// TimeLayout is the timestamp format of the first column.
const TimeLayout = "2006-01-02 15:04:05"

// Header is the first line of every history file.
var Header = []string{"Timestamp", "Username", "Download (MB)", "Upload (MB)", "Total (MB)", "Status"}

// PersistenceError reports a failed read or write of the history file.
type PersistenceError struct {
	Err  error
	Path string
	Op   string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Recorder appends one row per saved report. It assumes a single writer.
type Recorder struct {
	path string
}

// NewRecorder returns a recorder writing to path.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Path returns the history file path.
func (r *Recorder) Path() string {
	return r.path
}

// Append writes a summary row for rep. The header is written first when the
// file does not exist yet or is empty.
func (r *Recorder) Append(rep *report.UsageReport, ts time.Time, username string) (err error) {
	if rep == nil {
		return &PersistenceError{Path: r.path, Op: "append", Err: errors.New("no report to save")}
	}

	needHeader := false
	info, statErr := os.Stat(r.path)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		needHeader = true
	case statErr != nil:
		return &PersistenceError{Path: r.path, Op: "stat", Err: statErr}
	case info.Size() == 0:
		needHeader = true
	}

	if dir := filepath.Dir(r.path); needHeader && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &PersistenceError{Path: r.path, Op: "mkdir", Err: err}
		}
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return &PersistenceError{Path: r.path, Op: "open", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &PersistenceError{Path: r.path, Op: "close", Err: cerr}
		}
	}()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(Header); err != nil {
			return &PersistenceError{Path: r.path, Op: "write", Err: err}
		}
	}
	if err := w.Write(row(rep, ts, username)); err != nil {
		return &PersistenceError{Path: r.path, Op: "write", Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &PersistenceError{Path: r.path, Op: "write", Err: err}
	}

	logger.Debug("history row appended", "path", r.path, "username", username, "status", rep.Status)
	return nil
}

func row(rep *report.UsageReport, ts time.Time, username string) []string {
	return []string{
		ts.Format(TimeLayout),
		username,
		mb(rep.DownloadBytes),
		mb(rep.UploadBytes),
		mb(rep.TotalBytes),
		rep.Status.String(),
	}
}

func mb(b uint64) string {
	return fmt.Sprintf("%.2f", report.Megabytes(b))
}
