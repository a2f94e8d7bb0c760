package reconcile

import (
	"mysql-table-backup/internal/snapshot"
)

// Result describes the outcome of reconciling a snapshot's column set against
// a destination table's column set.
type Result struct {
	// Rows is the row sequence after reconciliation. Dropped columns are
	// removed in place; the original snapshot is not separately preserved.
	Rows []*snapshot.Record
	// DroppedColumns lists the snapshot columns absent from the destination,
	// in snapshot column order.
	DroppedColumns []string
}

// Reconcile aligns a snapshot's column set with the destination table's
// actual column set before insertion. Columns present in the snapshot but
// absent from the destination are removed from every row, since they would
// otherwise fail the whole insert. The converse case - destination columns
// the snapshot lacks - is deliberately left alone: restored rows simply omit
// them and the destination's column defaults apply.
func Reconcile(sourceColumns, destColumns []string, rows []*snapshot.Record) Result {
	result := Result{Rows: rows}

	if len(rows) == 0 {
		return result
	}

	dest := make(map[string]struct{}, len(destColumns))
	for _, col := range destColumns {
		dest[col] = struct{}{}
	}

	for _, col := range sourceColumns {
		if _, ok := dest[col]; !ok {
			result.DroppedColumns = append(result.DroppedColumns, col)
		}
	}

	if len(result.DroppedColumns) == 0 {
		return result
	}

	for _, row := range rows {
		for _, col := range result.DroppedColumns {
			row.Delete(col)
		}
	}

	return result
}
