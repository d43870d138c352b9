package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/j-veylop/netmeter/internal/logger"
)

// Record is one parsed row of the history file.
type Record struct {
	Timestamp  time.Time
	Username   string
	Status     string
	DownloadMB float64
	UploadMB   float64
	TotalMB    float64
}

// Read loads every row of the history file, oldest first. A missing file
// yields no records. Rows that do not parse are skipped and logged.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Path: path, Op: "open", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close history file", "path", path, "error", err)
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []Record
	for line := 1; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, &PersistenceError{Path: path, Op: "read", Err: err}
		}
		if line == 1 && len(fields) > 0 && fields[0] == Header[0] {
			continue
		}

		rec, err := parseRecord(fields)
		if err != nil {
			logger.Warn("skipping history row", "path", path, "line", line, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Tail returns at most n of the newest records, newest first.
func Tail(records []Record, n int) []Record {
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]Record, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) != len(Header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}

	ts, err := time.ParseInLocation(TimeLayout, fields[0], time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %w", err)
	}

	var values [3]float64
	for i := range values {
		values[i], err = strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[2+i], err)
		}
	}

	return Record{
		Timestamp:  ts,
		Username:   fields[1],
		DownloadMB: values[0],
		UploadMB:   values[1],
		TotalMB:    values[2],
		Status:     fields[5],
	}, nil
}
