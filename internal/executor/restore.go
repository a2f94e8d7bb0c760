package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mysql-table-backup/internal/apperrors"
	"mysql-table-backup/internal/logging"
	"mysql-table-backup/internal/reconcile"
	"mysql-table-backup/internal/schema"
	"mysql-table-backup/internal/snapshot"
	"mysql-table-backup/internal/storage"
)

// RestoreExecutor restores configured tables from their snapshot files into
// the destination connection. Per table: file-existence check, table-existence
// check, load, reconcile, row-by-row insertion with per-row error isolation.
// Any table's failure is contained to that table.
type RestoreExecutor struct {
	db           *sql.DB
	tables       []string
	store        storage.Store
	inspector    *schema.Inspector
	logger       *logging.Logger
	queryTimeout time.Duration
}

// NewRestoreExecutor creates a restore executor
func NewRestoreExecutor(deps Deps) *RestoreExecutor {
	timeout := deps.QueryTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RestoreExecutor{
		db:           deps.DB,
		tables:       deps.Tables,
		store:        deps.Store,
		inspector:    schema.NewInspectorWithTimeout(timeout),
		logger:       deps.Logger,
		queryTimeout: timeout,
	}
}

// Execute restores each configured table in list order
func (e *RestoreExecutor) Execute(ctx context.Context) (*Result, error) {
	result := &Result{
		Action:    ActionRestore,
		StartedAt: time.Now(),
	}

	for _, table := range e.tables {
		result.Tables = append(result.Tables, e.restoreTable(ctx, table))
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

// restoreTable walks one table through the restore state machine. Every early
// return is a Skipped outcome; reaching the insertion loop always ends Done,
// however many rows fail.
func (e *RestoreExecutor) restoreTable(ctx context.Context, table string) TableOutcome {
	outcome := TableOutcome{Table: table, Status: StatusSkipped}

	e.logger.Infof("Restoring %s", table)

	fileName := storage.SnapshotName(table)
	exists, err := e.store.Exists(ctx, fileName)
	if err != nil {
		e.logger.Errorf("Cannot check snapshot file for table %q: %v. Skipping.", table, err)
		outcome.SkipReason = fmt.Sprintf("snapshot probe failed: %v", err)
		return outcome
	}
	if !exists {
		missingErr := apperrors.NewSnapshotMissingError(table, fileName)
		e.logger.Errorf("The file %q does not exist. Skipping.", fileName)
		outcome.SkipReason = missingErr.Message
		return outcome
	}

	tableExists, err := e.inspector.TableExists(ctx, e.db, table)
	if err != nil {
		e.logger.Errorf("Cannot probe destination for table %q: %v. Skipping.", table, err)
		outcome.SkipReason = fmt.Sprintf("table probe failed: %v", err)
		return outcome
	}
	if !tableExists {
		missingErr := apperrors.NewTableMissingError(table)
		e.logger.Warnf("Table %q not found on destination database. Skipping.", table)
		outcome.SkipReason = missingErr.Message
		return outcome
	}

	data, err := e.store.Read(ctx, fileName)
	if err != nil {
		e.logger.Errorf("Cannot read snapshot file %q: %v. Skipping.", fileName, err)
		outcome.SkipReason = fmt.Sprintf("snapshot read failed: %v", err)
		return outcome
	}

	rows, err := snapshot.Unmarshal(data)
	if err != nil {
		e.logger.Errorf("Cannot decode snapshot file %q: %v. Skipping.", fileName, err)
		outcome.SkipReason = fmt.Sprintf("snapshot decoding failed: %v", err)
		return outcome
	}

	// A failing column query after a positive existence probe (table dropped
	// mid-run) stays contained to this table, like every other failure here.
	destColumns, err := e.inspector.Columns(ctx, e.db, table)
	if err != nil {
		e.logger.Errorf("Cannot read destination columns for table %q: %v. Skipping.", table, err)
		outcome.SkipReason = fmt.Sprintf("column introspection failed: %v", err)
		return outcome
	}

	var sourceColumns []string
	if len(rows) > 0 {
		sourceColumns = rows[0].Keys()
	}

	reconciled := reconcile.Reconcile(sourceColumns, destColumns, rows)
	if len(reconciled.DroppedColumns) > 0 {
		e.logger.Warnf("Table %q has columns missing on the destination: %s. Dropping them from restored rows.",
			table, strings.Join(reconciled.DroppedColumns, ", "))
		outcome.DroppedColumns = reconciled.DroppedColumns
	}

	fields := insertionFields(reconciled.Rows)
	if len(fields) == 0 {
		e.logger.Warnf("Table %q is empty", table)
		outcome.SkipReason = "table is empty"
		return outcome
	}

	inserted, failed := e.insertRows(ctx, table, fields, reconciled.Rows)
	outcome.Status = StatusDone
	outcome.RowsRead = len(reconciled.Rows)
	outcome.RowsInserted = inserted
	outcome.RowsFailed = failed
	return outcome
}

// insertRows attempts a single-row insertion per record using a parameterized
// statement built once from the field list. Foreign-key checks are disabled
// on the session for the duration of the table's restore and re-enabled on
// every exit path. Per-row failures are logged and never abort the rest.
func (e *RestoreExecutor) insertRows(ctx context.Context, table string, fields []string, rows []*snapshot.Record) (inserted, failed int) {
	start := time.Now()
	query := buildInsertQuery(table, fields)

	// The insertion loop and the foreign_key_checks variable must share one
	// session; a pool-level Exec could land on a different connection.
	conn, err := e.db.Conn(ctx)
	if err != nil {
		e.logger.Errorf("Cannot acquire connection for table %q: %v", table, err)
		return 0, len(rows)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET foreign_key_checks = 0"); err != nil {
		e.logger.Errorf("Cannot disable foreign key checks for table %q: %v", table, err)
		return 0, len(rows)
	}
	defer func() {
		if _, err := conn.ExecContext(ctx, "SET foreign_key_checks = 1"); err != nil {
			e.logger.Warnf("Cannot re-enable foreign key checks after table %q: %v", table, err)
		}
	}()

	for _, row := range rows {
		args := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			value, _ := row.Get(field)
			args = append(args, value)
		}

		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			failed++
			rowErr := apperrors.Classify(err)
			e.logger.LogRowInsertion(table, args[0], rowErr)
			continue
		}
		inserted++
	}

	e.logger.LogTableRestore(table, inserted, failed, time.Since(start))
	return inserted, failed
}

// insertionFields derives the insertion field list from the first row's keys
func insertionFields(rows []*snapshot.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// buildInsertQuery builds the parameterized single-row insert statement with
// backtick-quoted identifiers and positional placeholders matching the field
// count and order.
func buildInsertQuery(table string, fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = "`" + field + "`"
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fields)), ",")

	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		table, strings.Join(quoted, ","), placeholders)
}
