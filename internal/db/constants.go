package db

const (
	// timeLayout is how every timestamp column is stored (always UTC), so
	// lexical comparison and SQLite date functions both work.
	timeLayout = "2006-01-02 15:04:05"

	// sqlSinceClause filters snapshot queries by a start time.
	sqlSinceClause = "AND timestamp >= ?"
)
