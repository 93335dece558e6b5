// Package outwriter renders line count series to the terminal and exports them.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/internal/parquet"
	"github.com/huangsam/locgraph/schema"
)

// WriteLocResult outputs the result, dispatching based on the output format configured.
// Chart mode expects cfg.Width and cfg.Height to be resolved already.
func WriteLocResult(result *schema.LocResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeNDJSON(w, result.Series)
		}, "Wrote NDJSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSV(w, result.Series)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteSeries(w, parquet.ConvertSeries(result.Series))
		}, "Wrote Parquet series"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTML(w, result)
		}, "Wrote HTML chart"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	case schema.TableOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWindowTable(w, result)
		}, "Wrote window table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
		if cfg.OutputFile == "" {
			printSummary(os.Stdout, result, cfg, duration)
		}
	default:
		chart, err := RenderChart(result.Windows, ChartOptions{
			Width:   cfg.Width,
			Height:  cfg.Height,
			Caption: chartCaption(result),
			Color:   cfg.UseColors,
		})
		if err != nil {
			return err
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, chart)
			return err
		}, "Wrote chart"); err != nil {
			return fmt.Errorf("error writing chart output: %w", err)
		}
		if cfg.OutputFile == "" {
			printSummary(os.Stdout, result, cfg, duration)
		}
	}
	return nil
}

// printSummary prints a one-line wrap-up after human-readable output.
func printSummary(w io.Writer, result *schema.LocResult, cfg *contract.Config, duration time.Duration) {
	final := result.FinalLOC()
	finalStr := contract.FormatLOC(final)
	if cfg.UseColors {
		if final >= 0 {
			finalStr = contract.GrowthColor.Sprint(finalStr)
		} else {
			finalStr = contract.ShrinkColor.Sprint(finalStr)
		}
	}
	_, _ = fmt.Fprintf(w, "Traced %d commits over %s in %v with %d workers. Final LOC: %s. Cache backend: %s\n",
		result.Commits, contract.FormatSpan(result.Series.Span()), duration.Round(time.Millisecond),
		cfg.Workers, finalStr, cfg.CacheBackend)
}
