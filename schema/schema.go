// Package schema has the models, enums and status types shared by all parts of locgraph.
package schema

// Sample is one point of the line count series.
type Sample struct {
	Time  int64 `json:"time"` // Unix seconds of the commit
	Value int64 `json:"loc"`  // Cumulative line count, may be negative
}

// Series is an ordered sequence of samples, non-decreasing in Time.
type Series []Sample

// First returns the oldest sample. The series must not be empty.
func (s Series) First() Sample {
	return s[0]
}

// Last returns the newest sample. The series must not be empty.
func (s Series) Last() Sample {
	return s[len(s)-1]
}

// Span returns the number of seconds between the first and last sample.
func (s Series) Span() int64 {
	if len(s) == 0 {
		return 0
	}
	return s.Last().Time - s.First().Time
}

// Window is one resampling bucket covering [Start, End).
// The final window of a bucketed series also includes samples at End.
type Window struct {
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	Samples int   `json:"samples"` // Number of samples that fell into the window
	Value   int64 `json:"loc"`     // Truncated mean, or the previous value when Samples is 0
	Carried bool  `json:"carried"` // True when Value was carried forward
}
