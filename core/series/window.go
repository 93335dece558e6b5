package series

import (
	"fmt"
	"math"

	"github.com/huangsam/locgraph/schema"
)

// minWindow is the finest window width in seconds. It is used when there are
// more slices than seconds in the span.
const minWindow int64 = 1

// MaxWindows bounds how many windows a single resample may produce.
const MaxWindows = 10000

// Cursor walks a series once and hands out consecutive windows of a fixed width.
// Samples are consumed in order and never revisited.
type Cursor struct {
	series   schema.Series
	duration int64
	pos      int   // index of the first sample not yet consumed
	start    int64 // start of the next window
	last     int64 // time of the final sample
	prev     int64 // value of the previous window for carry-forward
}

// NewCursor creates a cursor over s with windows of duration seconds.
// A non-positive duration produces a single window holding every sample.
func NewCursor(s schema.Series, duration int64) *Cursor {
	c := &Cursor{series: s, duration: duration}
	if len(s) > 0 {
		c.start = s.First().Time
		c.last = s.Last().Time
	}
	return c
}

// Next returns the next window, or false once every sample has been consumed.
func (c *Cursor) Next() (schema.Window, bool) {
	if c.pos >= len(c.series) {
		return schema.Window{}, false
	}

	w := schema.Window{Start: c.start, End: windowEnd(c.start, c.duration)}

	// The window reaching the last sample closes the series and takes
	// every remaining sample, including one sitting exactly on its end.
	final := c.duration <= 0 || c.duration >= c.last-c.start

	var sum int64
	for c.pos < len(c.series) {
		sample := c.series[c.pos]
		if !final && sample.Time >= w.End {
			break
		}
		sum += sample.Value
		w.Samples++
		c.pos++
	}

	if w.Samples > 0 {
		w.Value = sum / int64(w.Samples)
	} else {
		w.Value = c.prev
		w.Carried = true
	}

	c.prev = w.Value
	c.start = w.End
	return w, true
}

// Resample splits the span of s into slices windows of equal integer width.
// The width is (last-first)/slices; spans shorter than slices seconds fall back
// to one-second windows and a zero span yields a single window.
func Resample(s schema.Series, slices int) ([]schema.Window, error) {
	if len(s) == 0 {
		return nil, ErrEmptySeries
	}
	if slices <= 0 {
		return nil, fmt.Errorf("%w: slice count must be positive (received %d)", ErrInvalidWindow, slices)
	}

	span := s.Span()
	duration := span / int64(slices)
	if duration == 0 && span > 0 {
		duration = minWindow
	}
	return drain(NewCursor(s, duration)), nil
}

// ResampleEvery splits the span of s into windows of duration seconds.
func ResampleEvery(s schema.Series, duration int64) ([]schema.Window, error) {
	if len(s) == 0 {
		return nil, ErrEmptySeries
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: window duration must be positive (received %ds)", ErrInvalidWindow, duration)
	}
	span := s.Span()
	if span <= 0 {
		duration = 0
	} else if n := windowCount(span, duration); n > MaxWindows {
		return nil, fmt.Errorf("%w: a %ds window splits a %ds span into %d windows (at most %d allowed)",
			ErrInvalidWindow, duration, span, n, MaxWindows)
	}
	return drain(NewCursor(s, duration)), nil
}

// windowCount is the number of duration-wide windows needed to cover span.
func windowCount(span, duration int64) int64 {
	n := span / duration
	if span%duration != 0 {
		n++
	}
	return max(n, 1)
}

// windowEnd returns start+duration, saturating at math.MaxInt64.
func windowEnd(start, duration int64) int64 {
	if duration <= 0 {
		return start
	}
	if start > 0 && duration > math.MaxInt64-start {
		return math.MaxInt64
	}
	return start + duration
}

// Values returns the representative value of each window.
func Values(windows []schema.Window) []int64 {
	out := make([]int64, len(windows))
	for i, w := range windows {
		out[i] = w.Value
	}
	return out
}

// Floats returns the representative values as float64 for plotting.
func Floats(windows []schema.Window) []float64 {
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = float64(w.Value)
	}
	return out
}

func drain(c *Cursor) []schema.Window {
	var out []schema.Window
	for {
		w, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}
