package outwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/huangsam/locgraph/core/series"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
	"golang.org/x/term"
)

// ErrTerminalSize is returned in chart mode when stdout is not a terminal
// and no width and height overrides were given.
var ErrTerminalSize = errors.New("cannot determine terminal size; pass --width and --height")

// Chart layout constants.
const (
	chartLabelMargin  = 14 // Y-axis labels, offset and the axis glyph
	chartReservedRows = 6  // header, caption, summary and the shell prompt
)

// getTerminalSize is swapped out in tests.
var getTerminalSize = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ResolveChartSize returns the chart dimensions. Positive overrides win; any
// dimension left at zero comes from the terminal attached to stdout.
func ResolveChartSize(widthOverride, heightOverride int) (int, int, error) {
	if widthOverride > 0 && heightOverride > 0 {
		return widthOverride, heightOverride, nil
	}

	width, height, err := getTerminalSize()
	if err != nil || width <= 0 || height <= 0 {
		return 0, 0, ErrTerminalSize
	}
	if widthOverride > 0 {
		width = widthOverride
	}
	if heightOverride > 0 {
		height = heightOverride
	}
	return width, height, nil
}

// PlotWidth returns the number of plot columns left after the axis labels.
func PlotWidth(width int) int {
	return max(width-chartLabelMargin, 1)
}

// PlotHeight returns the number of plot rows left after the surrounding text.
func PlotHeight(height int) int {
	return max(height-chartReservedRows, 1)
}

// ChartOptions controls how RenderChart draws a bucketed series.
type ChartOptions struct {
	Width   int // Total columns, labels included
	Height  int // Total rows, surrounding text included
	Caption string
	Color   bool
}

// RenderChart draws one point per window as a line chart.
func RenderChart(windows []schema.Window, opts ChartOptions) (string, error) {
	if len(windows) == 0 {
		return "", series.ErrEmptySeries
	}

	values := series.Floats(windows)
	options := []asciigraph.Option{
		asciigraph.Width(PlotWidth(opts.Width)),
		asciigraph.Height(PlotHeight(opts.Height)),
		asciigraph.Precision(0),
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if opts.Color {
		lineColor := asciigraph.Green
		if values[len(values)-1] < values[0] {
			lineColor = asciigraph.Red
		}
		options = append(options, asciigraph.SeriesColors(lineColor))
	}
	return asciigraph.Plot(values, options...), nil
}

// chartCaption describes the plotted range under the chart.
func chartCaption(result *schema.LocResult) string {
	if len(result.Series) == 0 {
		return ""
	}
	return fmt.Sprintf("%s → %s · %s LOC",
		contract.FormatUnixDate(result.Series.First().Time),
		contract.FormatUnixDate(result.Series.Last().Time),
		contract.FormatLOC(result.FinalLOC()))
}
