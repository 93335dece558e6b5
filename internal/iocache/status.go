package iocache

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
	"github.com/olekukonko/tablewriter"
)

// statusTimeFormat is used for timestamps in status tables.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints diff stat cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Entries", humanize.Comma(int64(status.TotalEntries))})
		if status.TotalEntries > 0 {
			rows = append(rows,
				[]string{"Last Entry", status.LastEntryTime.Format(statusTimeFormat)},
				[]string{"Oldest Entry", status.OldestEntryTime.Format(statusTimeFormat)},
			)
		}
		rows = append(rows, []string{"Table Size", humanize.Bytes(uint64(max(status.TableSizeBytes, 0)))})
	}
	return renderStatus(w, "Diff Stat Cache", rows)
}

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Runs", humanize.Comma(int64(status.TotalRuns))})
		if status.TotalRuns > 0 {
			rows = append(rows,
				[]string{"Last Run ID", strconv.FormatInt(status.LastRunID, 10)},
				[]string{"Last Run", status.LastRunTime.Format(statusTimeFormat)},
				[]string{"Oldest Run", status.OldestRunTime.Format(statusTimeFormat)},
				[]string{"Commits Walked", humanize.Comma(status.TotalCommits)},
			)
		}
	}
	return renderStatus(w, "Run History", rows)
}

// renderStatus writes a titled two-column table.
func renderStatus(w io.Writer, title string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, contract.HeaderColor.Sprint(title)); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
