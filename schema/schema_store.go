package schema

import "time"

// RunSummary is what a finished run reports to the history store.
type RunSummary struct {
	RepoHash string
	Commits  int
	Samples  int
	Windows  int
	FinalLOC int64
}

// RunRecord represents a row from the locgraph_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	RepoPath      string
	RepoHash      *string
	Ref           string
	OutputMode    string
	TotalCommits  int32
	TotalSamples  int32
	TotalWindows  int32
	FinalLOC      *int64
	ConfigParams  *string
}
