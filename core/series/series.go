// Package series turns commit history into a cumulative line count series
// and resamples that series into evenly spaced windows.
package series

import "errors"

// ErrEmptySeries is returned when a series without samples is resampled or charted.
var ErrEmptySeries = errors.New("at least one data point is required")

// ErrInvalidWindow is returned for a non-positive slice count or window duration,
// or a window so narrow it would produce more than MaxWindows windows.
var ErrInvalidWindow = errors.New("invalid window configuration")
