// Package parquet provides data structures and functions for exporting locgraph
// series and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/locgraph/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one sample of the cumulative line count series.
type SeriesPoint struct {
	// Time is the commit time (stored as TIMESTAMP with nanosecond precision)
	Time time.Time `parquet:"time,snappy"`

	// UnixSeconds is the raw commit time
	UnixSeconds int64 `parquet:"unix_seconds,snappy"`

	// LOC is the cumulative line count after the commit
	LOC int64 `parquet:"loc,snappy"`
}

// Run represents a single recorded locgraph run.
// This struct maps to the locgraph_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	RepoPath      string     `parquet:"repo_path,snappy"`
	RepoHash      *string    `parquet:"repo_hash,optional,snappy"`
	Ref           string     `parquet:"ref,snappy"`
	OutputMode    string     `parquet:"output_mode,snappy"`
	TotalCommits  int32      `parquet:"total_commits,snappy"`
	TotalSamples  int32      `parquet:"total_samples,snappy"`
	TotalWindows  int32      `parquet:"total_windows,snappy"`
	FinalLOC      *int64     `parquet:"final_loc,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// WriteSeries writes series points as Parquet to w.
func WriteSeries(w io.Writer, data []SeriesPoint) error {
	return writeRows(w, data)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeRows writes rows using a schema derived from the struct tags of T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSeries converts a series to Parquet rows.
func ConvertSeries(s schema.Series) []SeriesPoint {
	result := make([]SeriesPoint, len(s))
	for i, sample := range s {
		result[i] = SeriesPoint{
			Time:        time.Unix(sample.Time, 0).UTC(),
			UnixSeconds: sample.Time,
			LOC:         sample.Value,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord slice to Run slice.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			RepoPath:      r.RepoPath,
			RepoHash:      r.RepoHash,
			Ref:           r.Ref,
			OutputMode:    r.OutputMode,
			TotalCommits:  r.TotalCommits,
			TotalSamples:  r.TotalSamples,
			TotalWindows:  r.TotalWindows,
			FinalLOC:      r.FinalLOC,
			ConfigParams:  r.ConfigParams,
		}
	}
	return result
}
