package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeNDJSON writes one {"time","loc"} object per line for the full series.
func writeNDJSON(w io.Writer, s schema.Series) error {
	encoder := json.NewEncoder(w)
	for _, rec := range schema.NewSeriesRecords(s) {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	}
	return nil
}

// writeCSV writes the full series with a time,loc header.
func writeCSV(w io.Writer, s schema.Series) error {
	return writeCSVWithHeader(w, []string{"time", "loc"}, func(cw *csv.Writer) error {
		for _, rec := range schema.NewSeriesRecords(s) {
			if err := cw.Write([]string{rec.Time, strconv.FormatInt(rec.LOC, 10)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeWindowTable prints one row per window.
func writeWindowTable(w io.Writer, result *schema.LocResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Start", "End", "Commits", "LOC", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var prev int64
	for i, win := range result.Windows {
		commits := strconv.Itoa(win.Samples)
		if win.Carried {
			commits = "-"
		}
		change := ""
		if i > 0 {
			change = formatChange(win.Value - prev)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatWindowTime(win.Start, result.Duration),
			formatWindowTime(win.End, result.Duration),
			commits,
			contract.FormatLOC(win.Value),
			change,
		})
		prev = win.Value
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// formatChange renders a signed difference between consecutive windows.
func formatChange(delta int64) string {
	if delta > 0 {
		return "+" + contract.FormatLOC(delta)
	}
	return contract.FormatLOC(delta)
}

// formatWindowTime shows dates for day-sized windows and full timestamps for finer ones.
func formatWindowTime(ts, duration int64) string {
	if duration >= 86400 {
		return contract.FormatUnixDate(ts)
	}
	return time.Unix(ts, 0).UTC().Format(time.DateTime)
}

// writeHTML renders the windows as a standalone ECharts line chart page.
func writeHTML(w io.Writer, result *schema.LocResult) error {
	labels := make([]string, len(result.Windows))
	data := make([]opts.LineData, len(result.Windows))
	for i, win := range result.Windows {
		labels[i] = formatWindowTime(win.Start, result.Duration)
		data[i] = opts.LineData{Value: win.Value}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "locgraph",
			Width:     "100%",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Lines of code: %s", result.RepoPath),
			Subtitle: fmt.Sprintf("%s · %d commits", result.Ref, result.Commits),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Window"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "LOC"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("LOC", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}),
	)
	return line.Render(w)
}
