package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mysql-table-backup/internal/logging"
	"mysql-table-backup/internal/storage"
)

// Action selects which workflow an executor performs. It is a closed set:
// there are exactly two workflows and no extension point is needed.
type Action int

const (
	// ActionBackup reads configured tables from the source connection and
	// persists one snapshot file per table.
	ActionBackup Action = iota
	// ActionRestore loads snapshot files and inserts their rows into the
	// destination connection, reconciling column differences.
	ActionRestore
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionBackup:
		return "backup"
	case ActionRestore:
		return "restore"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Executor performs either the backup or the restore workflow for a set of
// tables. Tables are processed one at a time, in configuration order; one
// table's failure never prevents attempting subsequent tables.
type Executor interface {
	Execute(ctx context.Context) (*Result, error)
}

// Deps carries the collaborators an executor operates with. The database
// connection is owned by the caller; executors never close or reconfigure it.
type Deps struct {
	DB           *sql.DB
	Tables       []string
	Store        storage.Store
	Logger       *logging.Logger
	QueryTimeout time.Duration
}

// New creates the executor for the given action
func New(action Action, deps Deps) (Executor, error) {
	switch action {
	case ActionBackup:
		return NewBackupExecutor(deps), nil
	case ActionRestore:
		return NewRestoreExecutor(deps), nil
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

// Status is the terminal state of one table's processing
type Status string

const (
	// StatusDone means all the table's rows were attempted
	StatusDone Status = "done"
	// StatusSkipped means the table was abandoned before any insertion attempt
	StatusSkipped Status = "skipped"
)

// TableOutcome records what happened to one table
type TableOutcome struct {
	Table          string
	Status         Status
	SkipReason     string
	RowsRead       int
	RowsInserted   int
	RowsFailed     int
	DroppedColumns []string
}

// Result aggregates the per-table outcomes of one executor run
type Result struct {
	Action    Action
	StartedAt time.Time
	Duration  time.Duration
	Tables    []TableOutcome
}

// Skipped returns the number of skipped tables
func (r *Result) Skipped() int {
	count := 0
	for _, t := range r.Tables {
		if t.Status == StatusSkipped {
			count++
		}
	}
	return count
}

// RowFailures returns the total number of failed row insertions
func (r *Result) RowFailures() int {
	count := 0
	for _, t := range r.Tables {
		count += t.RowsFailed
	}
	return count
}
