package schema

import "time"

// SeriesRecord is one line of the structured export.
type SeriesRecord struct {
	Time string `json:"time"` // RFC 3339
	LOC  int64  `json:"loc"`
}

// NewSeriesRecords converts a series into export records in UTC.
func NewSeriesRecords(s Series) []SeriesRecord {
	records := make([]SeriesRecord, len(s))
	for i, sample := range s {
		records[i] = SeriesRecord{
			Time: time.Unix(sample.Time, 0).UTC().Format(time.RFC3339),
			LOC:  sample.Value,
		}
	}
	return records
}

// LocResult bundles everything a run produced for the writers.
type LocResult struct {
	RepoPath string   `json:"repo_path"`
	Ref      string   `json:"ref"`
	Commits  int      `json:"commits"`
	Series   Series   `json:"series"`
	Windows  []Window `json:"windows,omitempty"`
	Duration int64    `json:"window_seconds,omitempty"` // Width of each window in seconds
}

// FinalLOC returns the last cumulative line count, or zero for an empty series.
func (r *LocResult) FinalLOC() int64 {
	if len(r.Series) == 0 {
		return 0
	}
	return r.Series.Last().Value
}
