package application

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"mysql-table-backup/internal/executor"
)

// printSummary renders the per-table outcomes of the run
func printSummary(results []*executor.Result) {
	header := color.New(color.Bold)
	done := color.New(color.FgGreen)
	skipped := color.New(color.FgYellow)
	failures := color.New(color.FgRed)

	for _, result := range results {
		header.Printf("\n%s (%s)\n", result.Action, result.Duration.Round(time.Millisecond))

		for _, table := range result.Tables {
			switch table.Status {
			case executor.StatusDone:
				line := fmt.Sprintf("  %-30s %d rows", table.Table, rowCount(result.Action, table))
				if table.RowsFailed > 0 {
					failures.Printf("%s (%d failed)\n", line, table.RowsFailed)
				} else {
					done.Println(line)
				}
			case executor.StatusSkipped:
				skipped.Printf("  %-30s skipped: %s\n", table.Table, table.SkipReason)
			}
		}
	}
}

func rowCount(action executor.Action, table executor.TableOutcome) int {
	if action == executor.ActionBackup {
		return table.RowsRead
	}
	return table.RowsInserted
}
