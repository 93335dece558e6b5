package series

import (
	"math"
	"testing"

	"github.com/huangsam/locgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(pairs ...[2]int64) schema.Series {
	out := make(schema.Series, len(pairs))
	for i, p := range pairs {
		out[i] = schema.Sample{Time: p[0], Value: p[1]}
	}
	return out
}

func TestResample_WindowCount(t *testing.T) {
	s := samples([2]int64{0, 1}, [2]int64{37, 2}, [2]int64{100, 3})
	windows, err := Resample(s, 10)
	require.NoError(t, err)
	require.Len(t, windows, 10)

	for i, w := range windows {
		assert.Equal(t, int64(10*i), w.Start, "window %d start", i)
		assert.Equal(t, int64(10*i+10), w.End, "window %d end", i)
	}
	assert.Equal(t, []int64{1, 1, 1, 2, 2, 2, 2, 2, 2, 3}, Values(windows))
}

func TestResample_CarryForward(t *testing.T) {
	s := samples([2]int64{0, 5}, [2]int64{25, 9})
	windows, err := Resample(s, 5)
	require.NoError(t, err)
	require.Len(t, windows, 5)

	assert.Equal(t, []int64{5, 5, 5, 5, 9}, Values(windows))

	assert.False(t, windows[0].Carried)
	assert.Equal(t, 1, windows[0].Samples)
	for _, w := range windows[1:4] {
		assert.True(t, w.Carried)
		assert.Zero(t, w.Samples)
	}

	// The trailing sample sits on the end of the last window and still belongs to it
	last := windows[4]
	assert.Equal(t, int64(20), last.Start)
	assert.Equal(t, int64(25), last.End)
	assert.Equal(t, 1, last.Samples)
	assert.False(t, last.Carried)
}

func TestResample_HalfOpenBoundary(t *testing.T) {
	// Time 10 starts the second window, not the end of the first
	s := samples([2]int64{0, 1}, [2]int64{10, 100}, [2]int64{20, 7})
	windows, err := Resample(s, 2)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].Samples)
	assert.Equal(t, 2, windows[1].Samples)
	assert.Equal(t, []int64{1, 53}, Values(windows))
}

func TestResample_MeanTruncation(t *testing.T) {
	tests := []struct {
		name     string
		values   []int64
		expected int64
	}{
		{"positive rounds down", []int64{3, 4}, 3},
		{"negative rounds toward zero", []int64{-3, -4}, -3},
		{"exact mean", []int64{2, 4, 6}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := make(schema.Series, len(tt.values))
			for i, v := range tt.values {
				s[i] = schema.Sample{Time: int64(i), Value: v}
			}
			windows, err := ResampleEvery(s, 100)
			require.NoError(t, err)
			require.Len(t, windows, 1)
			assert.Equal(t, tt.expected, windows[0].Value)
		})
	}
}

func TestResample_TrailingPartialWindow(t *testing.T) {
	s := samples([2]int64{0, 1}, [2]int64{26, 4}, [2]int64{27, 6})
	windows, err := Resample(s, 5)
	require.NoError(t, err)

	// 27/5 = 5 second windows, so [25, 30) is the extra partial window
	require.Len(t, windows, 6)
	last := windows[5]
	assert.Equal(t, int64(25), last.Start)
	assert.Equal(t, 2, last.Samples)
	assert.Equal(t, int64(5), last.Value)
}

func TestResample_EmptySeries(t *testing.T) {
	for _, slices := range []int{1, 10, 0, -1} {
		windows, err := Resample(schema.Series{}, slices)
		assert.ErrorIs(t, err, ErrEmptySeries)
		assert.Nil(t, windows)
	}

	windows, err := ResampleEvery(nil, 60)
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.Nil(t, windows)
	assert.EqualError(t, ErrEmptySeries, "at least one data point is required")
}

func TestResample_InvalidWindow(t *testing.T) {
	s := samples([2]int64{0, 1}, [2]int64{10, 2})

	_, err := Resample(s, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = Resample(s, -3)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = ResampleEvery(s, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = ResampleEvery(s, -60)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestResample_SingleSample(t *testing.T) {
	s := samples([2]int64{1700000000, 42})
	for _, slices := range []int{1, 2, 80, 1000} {
		windows, err := Resample(s, slices)
		require.NoError(t, err)
		require.Len(t, windows, 1, "slices=%d", slices)
		assert.Equal(t, int64(42), windows[0].Value)
		assert.Equal(t, 1, windows[0].Samples)
	}

	windows, err := ResampleEvery(s, 3600)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(42), windows[0].Value)
}

func TestResample_SameSecond(t *testing.T) {
	s := samples([2]int64{50, 1}, [2]int64{50, 2}, [2]int64{50, 6})
	windows, err := Resample(s, 10)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(3), windows[0].Value)
	assert.Equal(t, 3, windows[0].Samples)
}

func TestResample_MoreSlicesThanSeconds(t *testing.T) {
	s := samples([2]int64{0, 1}, [2]int64{3, 4})
	windows, err := Resample(s, 50)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, []int64{1, 1, 4}, Values(windows))
	assert.True(t, windows[1].Carried)
}

func TestResample_MostlyCarried(t *testing.T) {
	s := samples([2]int64{0, 10}, [2]int64{1, 20}, [2]int64{1000, 30})
	windows, err := Resample(s, 100)
	require.NoError(t, err)
	require.Len(t, windows, 100)

	assert.Equal(t, int64(15), windows[0].Value)
	carried := 0
	for _, w := range windows[1:99] {
		assert.Equal(t, int64(15), w.Value)
		if w.Carried {
			carried++
		}
	}
	assert.Equal(t, 98, carried)
	assert.Equal(t, int64(30), windows[99].Value)
}

func TestResampleEvery(t *testing.T) {
	s := samples([2]int64{0, 2}, [2]int64{30, 4}, [2]int64{59, 8}, [2]int64{150, 10})
	windows, err := ResampleEvery(s, 60)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, []int64{4, 4, 10}, Values(windows))
	assert.True(t, windows[1].Carried)
	assert.Equal(t, int64(180), windows[2].End)
}

func TestResampleEvery_HugeDuration(t *testing.T) {
	tests := []struct {
		name     string
		series   schema.Series
		duration int64
		expected int64
	}{
		{"max int64", samples([2]int64{1700000000, 1}, [2]int64{1700000100, 2}), math.MaxInt64, 1},
		{"just past the span", samples([2]int64{1700000000, 1}, [2]int64{1700000100, 2}), 101, 1},
		{"negative start", samples([2]int64{-100, 4}, [2]int64{100, 8}), math.MaxInt64, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := ResampleEvery(tt.series, tt.duration)
			require.NoError(t, err)
			require.Len(t, windows, 1)
			assert.Equal(t, 2, windows[0].Samples)
			assert.Equal(t, tt.expected, windows[0].Value)
			assert.False(t, windows[0].Carried)
			assert.GreaterOrEqual(t, windows[0].End, windows[0].Start)
		})
	}
}

func TestResampleEvery_WindowCountLimit(t *testing.T) {
	twentyYears := int64(20 * 365 * 86400)
	s := samples([2]int64{0, 1}, [2]int64{twentyYears, 2})

	tests := []struct {
		name        string
		duration    int64
		expectError bool
		count       int
	}{
		{"one second over twenty years", 1, true, 0},
		{"one hour over twenty years", 3600, true, 0},
		{"one day over twenty years", 86400, false, 7300},
		{"exactly the limit", twentyYears / MaxWindows, false, MaxWindows},
		{"one past the limit", twentyYears/MaxWindows - 1, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := ResampleEvery(s, tt.duration)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidWindow)
				assert.Nil(t, windows)
				return
			}
			require.NoError(t, err)
			assert.Len(t, windows, tt.count)
		})
	}
}

func TestResample_NegativeValues(t *testing.T) {
	s := samples([2]int64{0, -10}, [2]int64{10, -20})
	windows, err := Resample(s, 1)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, int64(-15), windows[0].Value)
}

func TestCursor_SinglePass(t *testing.T) {
	s := samples([2]int64{0, 1}, [2]int64{5, 2}, [2]int64{12, 3}, [2]int64{20, 4})
	c := NewCursor(s, 10)

	var total int
	var got []schema.Window
	for {
		w, ok := c.Next()
		if !ok {
			break
		}
		total += w.Samples
		got = append(got, w)
	}

	assert.Equal(t, len(s), total, "every sample is consumed exactly once")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Value)
	assert.Equal(t, int64(3), got[1].Value)

	_, ok := c.Next()
	assert.False(t, ok, "cursor stays exhausted")
}

func TestCursor_EmptySeries(t *testing.T) {
	c := NewCursor(nil, 10)
	_, ok := c.Next()
	assert.False(t, ok)
}

func TestFloats(t *testing.T) {
	windows := []schema.Window{{Value: 3}, {Value: -2}}
	assert.Equal(t, []float64{3, -2}, Floats(windows))
	assert.Equal(t, []int64{3, -2}, Values(windows))
}
