package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/locgraph/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of type T from a Parquet file.
func readAll[T any](t *testing.T, r io.ReaderAt) []T {
	t.Helper()
	reader := parquet.NewGenericReader[T](r)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSeriesPointStructTags(t *testing.T) {
	s := parquet.SchemaOf(SeriesPoint{})
	for _, col := range []string{"time", "unix_seconds", "loc"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(Run{})
	for _, col := range []string{
		"run_id", "start_time", "end_time", "run_duration_ms", "repo_path", "repo_hash",
		"ref", "output_mode", "total_commits", "total_samples", "total_windows", "final_loc", "config_params",
	} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestConvertSeries(t *testing.T) {
	series := schema.Series{{Time: 1700000000, Value: 10}, {Time: 1700003600, Value: -2}}
	points := ConvertSeries(series)
	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000000), points[0].UnixSeconds)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), points[0].Time)
	assert.Equal(t, int64(-2), points[1].LOC)

	assert.Empty(t, ConvertSeries(nil))
}

func TestWriteSeries(t *testing.T) {
	series := schema.Series{{Time: 100, Value: 5}, {Time: 200, Value: 12}, {Time: 300, Value: 9}}

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, ConvertSeries(series)))
	assert.Positive(t, buf.Len())

	rows := readAll[SeriesPoint](t, bytes.NewReader(buf.Bytes()))
	require.Len(t, rows, 3)
	for i, sample := range series {
		assert.Equal(t, sample.Time, rows[i].UnixSeconds)
		assert.Equal(t, sample.Value, rows[i].LOC)
		assert.True(t, rows[i].Time.Equal(time.Unix(sample.Time, 0)))
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	now := time.Now().UTC()
	end := now.Add(2 * time.Second)
	duration := int32(2000)
	hash := "0123456789abcdef0123456789abcdef01234567"
	finalLOC := int64(4200)
	config := `{"ref":"HEAD"}`

	records := []schema.RunRecord{
		{
			RunID: 1, StartTime: now, EndTime: &end, RunDurationMs: &duration,
			RepoPath: "/repo", RepoHash: &hash, Ref: "HEAD", OutputMode: "chart",
			TotalCommits: 42, TotalSamples: 42, TotalWindows: 80, FinalLOC: &finalLOC, ConfigParams: &config,
		},
		{
			RunID: 2, StartTime: now, RepoPath: "/repo", Ref: "main", OutputMode: "json",
		},
	}

	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows := readAll[Run](t, file)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Microsecond)
	require.NotNil(t, rows[0].RepoHash)
	assert.Equal(t, hash, *rows[0].RepoHash)
	require.NotNil(t, rows[0].FinalLOC)
	assert.Equal(t, finalLOC, *rows[0].FinalLOC)
	assert.Equal(t, int32(80), rows[0].TotalWindows)

	assert.Equal(t, "main", rows[1].Ref)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].RepoHash)
	assert.Nil(t, rows[1].FinalLOC)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteRunsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "an empty Parquet file still has a footer")
}

func TestWriteRunsParquet_InvalidPath(t *testing.T) {
	err := WriteRunsParquet([]Run{}, filepath.Join(t.TempDir(), "missing", "dir", "runs.parquet"))
	assert.Error(t, err)
}
