package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; index+1 is the schema version they
// produce. Existing entries must never be edited, only appended to.
var migrations = []string{
	// v1: timestamps written before UTC normalisation carried a zone suffix.
	`UPDATE usage_snapshots
	 SET timestamp = SUBSTR(timestamp, 1, 19)
	 WHERE length(timestamp) > 19`,
}

// migrate brings the schema up to date, tracking progress in user_version.
func (db *DB) migrate() error {
	ctx := context.Background()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", i+1, err)
		}
	}

	return nil
}

// SchemaVersion returns the applied migration count.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
	return version, err
}
