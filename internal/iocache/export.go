package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/internal/parquet"
)

// ExecuteHistoryExport exports every recorded run to a Parquet file.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized. Set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	rows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, err = fmt.Fprintf(w, "Exported %d runs from %s backend to: %s\n", len(rows), status.Backend, outputFile)
	return err
}
