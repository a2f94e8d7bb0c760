package reconcile

import (
	"testing"

	"mysql-table-backup/internal/snapshot"
)

func makeRows(count int, columns ...string) []*snapshot.Record {
	rows := make([]*snapshot.Record, 0, count)
	for i := 0; i < count; i++ {
		record := snapshot.NewRecord()
		for _, col := range columns {
			record.Set(col, int64(i))
		}
		rows = append(rows, record)
	}
	return rows
}

func TestReconcileDropsSnapshotOnlyColumns(t *testing.T) {
	rows := makeRows(3, "a", "b", "c")

	result := Reconcile([]string{"a", "b", "c"}, []string{"a", "b"}, rows)

	if len(result.DroppedColumns) != 1 || result.DroppedColumns[0] != "c" {
		t.Fatalf("Expected dropped columns [c], got %v", result.DroppedColumns)
	}

	for i, row := range result.Rows {
		keys := row.Keys()
		if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
			t.Errorf("Row %d: expected keys [a b], got %v", i, keys)
		}
	}
}

func TestReconcileNoOpWhenSourceSubsetOfDest(t *testing.T) {
	rows := makeRows(2, "a", "b")

	result := Reconcile([]string{"a", "b"}, []string{"a", "b", "extra"}, rows)

	if len(result.DroppedColumns) != 0 {
		t.Fatalf("Expected no dropped columns, got %v", result.DroppedColumns)
	}

	for i, row := range result.Rows {
		if row.Len() != 2 {
			t.Errorf("Row %d: expected rows unchanged, got %v", i, row.Keys())
		}
	}
}

func TestReconcileIdenticalColumnSets(t *testing.T) {
	rows := makeRows(1, "a", "b")

	result := Reconcile([]string{"a", "b"}, []string{"a", "b"}, rows)

	if len(result.DroppedColumns) != 0 {
		t.Errorf("Expected no dropped columns, got %v", result.DroppedColumns)
	}
}

func TestReconcileEmptyRowsIsNoOp(t *testing.T) {
	result := Reconcile([]string{"a", "b", "c"}, []string{"a"}, nil)

	if len(result.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(result.Rows))
	}
	if len(result.DroppedColumns) != 0 {
		t.Errorf("Expected no dropped columns for empty rows, got %v", result.DroppedColumns)
	}
}

func TestReconcileDropsMultipleColumnsInSnapshotOrder(t *testing.T) {
	rows := makeRows(2, "a", "b", "c", "d")

	result := Reconcile([]string{"a", "b", "c", "d"}, []string{"b"}, rows)

	expected := []string{"a", "c", "d"}
	if len(result.DroppedColumns) != len(expected) {
		t.Fatalf("Expected %d dropped columns, got %v", len(expected), result.DroppedColumns)
	}
	for i, col := range expected {
		if result.DroppedColumns[i] != col {
			t.Errorf("Expected dropped column %q at position %d, got %q", col, i, result.DroppedColumns[i])
		}
	}

	for i, row := range result.Rows {
		keys := row.Keys()
		if len(keys) != 1 || keys[0] != "b" {
			t.Errorf("Row %d: expected keys [b], got %v", i, keys)
		}
	}
}
