package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mysql-table-backup/internal/apperrors"
	"mysql-table-backup/internal/logging"
	"mysql-table-backup/internal/snapshot"
	"mysql-table-backup/internal/storage"
)

// BackupExecutor reads all rows of each configured table from the source
// connection and persists them as one snapshot file per table. The whole
// table's row set is held in memory before serialization; this is not a
// constant-memory contract.
type BackupExecutor struct {
	db           *sql.DB
	tables       []string
	store        storage.Store
	logger       *logging.Logger
	queryTimeout time.Duration
	databaseName string
}

// NewBackupExecutor creates a backup executor
func NewBackupExecutor(deps Deps) *BackupExecutor {
	timeout := deps.QueryTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BackupExecutor{
		db:           deps.DB,
		tables:       deps.Tables,
		store:        deps.Store,
		logger:       deps.Logger,
		queryTimeout: timeout,
	}
}

// SetDatabaseName sets the source database name recorded in the run manifest
func (e *BackupExecutor) SetDatabaseName(name string) {
	e.databaseName = name
}

// Execute backs up each configured table in list order. A failing table is
// logged and skipped; remaining tables are still attempted. After all tables,
// the run manifest is written beside the snapshots.
func (e *BackupExecutor) Execute(ctx context.Context) (*Result, error) {
	result := &Result{
		Action:    ActionBackup,
		StartedAt: time.Now(),
	}
	manifest := NewManifest(e.databaseName)

	for _, table := range e.tables {
		start := time.Now()
		outcome := e.backupTable(ctx, table)
		result.Tables = append(result.Tables, outcome)

		if outcome.Status == StatusDone {
			manifest.Add(table, storage.SnapshotName(table), outcome.RowsRead)
			e.logger.LogTableBackup(table, outcome.RowsRead, time.Since(start), nil)
		}
	}

	if err := e.writeManifest(ctx, manifest); err != nil {
		e.logger.Warnf("Failed to write backup manifest: %v", err)
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

// backupTable scans one table and hands its rows to the snapshot codec
func (e *BackupExecutor) backupTable(ctx context.Context, table string) TableOutcome {
	outcome := TableOutcome{Table: table, Status: StatusSkipped}

	e.logger.Infof("Saving %s", table)

	rows, err := e.readTable(ctx, table)
	if err != nil {
		e.logger.LogTableBackup(table, 0, 0, err)
		outcome.SkipReason = fmt.Sprintf("row scan failed: %v", err)
		return outcome
	}

	data, err := snapshot.Marshal(rows)
	if err != nil {
		e.logger.LogTableBackup(table, len(rows), 0, err)
		outcome.SkipReason = fmt.Sprintf("snapshot encoding failed: %v", err)
		return outcome
	}

	if err := e.store.Write(ctx, storage.SnapshotName(table), data); err != nil {
		e.logger.LogTableBackup(table, len(rows), 0, err)
		outcome.SkipReason = fmt.Sprintf("snapshot write failed: %v", err)
		return outcome
	}

	outcome.Status = StatusDone
	outcome.RowsRead = len(rows)
	return outcome
}

// readTable materializes all rows of the table as records, preserving the
// column order returned by the query.
func (e *BackupExecutor) readTable(ctx context.Context, table string) ([]*snapshot.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT * FROM `%s`", table)
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.WrapError(err, fmt.Sprintf("failed to scan table %s", table))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.WrapError(err, fmt.Sprintf("failed to read columns for table %s", table))
	}

	records := []*snapshot.Record{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, apperrors.WrapError(err, fmt.Sprintf("failed to scan row from table %s", table))
		}

		record := snapshot.NewRecord()
		for i, column := range columns {
			record.Set(column, snapshot.Normalize(values[i]))
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapError(err, fmt.Sprintf("error iterating rows of table %s", table))
	}

	return records, nil
}

func (e *BackupExecutor) writeManifest(ctx context.Context, manifest *Manifest) error {
	data, err := manifest.Encode()
	if err != nil {
		return err
	}
	return e.store.Write(ctx, storage.ManifestName, data)
}
