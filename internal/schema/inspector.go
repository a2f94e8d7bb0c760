package schema

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Inspector answers read-only schema questions against a live database. It
// never mutates schema or data.
type Inspector struct {
	queryTimeout time.Duration
}

// NewInspector creates a new schema inspector
func NewInspector() *Inspector {
	return &Inspector{
		queryTimeout: 30 * time.Second,
	}
}

// NewInspectorWithTimeout creates a new schema inspector with custom timeout
func NewInspectorWithTimeout(timeout time.Duration) *Inspector {
	return &Inspector{
		queryTimeout: timeout,
	}
}

// TableExists reports whether the named table exists in the connection's
// current schema. A non-existent table yields false, not an error.
func (i *Inspector) TableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
	`

	ctx, cancel := context.WithTimeout(ctx, i.queryTimeout)
	defer cancel()

	var count int
	if err := db.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to probe table %s: %w", tableName, err)
	}

	return count > 0, nil
}

// Columns returns the table's column names in the database's declared order.
// The result is undefined for a non-existent table; callers must check
// TableExists first.
func (i *Inspector) Columns(ctx context.Context, db *sql.DB, tableName string) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	ctx, cancel := context.WithTimeout(ctx, i.queryTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for table %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column rows: %w", err)
	}

	return columns, nil
}
