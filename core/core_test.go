package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/locgraph/core/series"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/internal/iocache"
	"github.com/huangsam/locgraph/internal/outwriter"
	"github.com/huangsam/locgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testRepo = "/repo"

// testCommits returns n commits one day apart.
func testCommits(n int) []schema.CommitRef {
	commits := make([]schema.CommitRef, n)
	for i := range n {
		commits[i] = schema.CommitRef{
			Hash: string(rune('a' + i)),
			Time: 1700000000 + int64(i)*86400,
		}
	}
	return commits
}

// noStoresManager returns a manager with caching and history disabled.
func noStoresManager() *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestGetLocGraphResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	commits := testCommits(3)

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return(commits, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, "", "a", []string(nil)).Return(schema.DiffStat{Insertions: 10}, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, "a", "b", []string(nil)).Return(schema.DiffStat{Insertions: 5, Deletions: 2}, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, "b", "c", []string(nil)).Return(schema.DiffStat{Deletions: 20}, nil)

	cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.JSONOut, Workers: 2}
	result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Commits)
	assert.Equal(t, schema.Series{
		{Time: commits[0].Time, Value: 10},
		{Time: commits[1].Time, Value: 13},
		{Time: commits[2].Time, Value: -7},
	}, result.Series)
	assert.Empty(t, result.Windows, "structured modes carry the full series only")
	assert.Equal(t, int64(-7), result.FinalLOC())
	client.AssertExpectations(t)
}

func TestGetLocGraphResults_Windowed(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	commits := testCommits(5)

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return(commits, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, mock.Anything, mock.Anything, mock.Anything).Return(schema.DiffStat{Insertions: 4}, nil)

	cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.TableOut, Workers: 3, Slices: 2}
	result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
	require.NoError(t, err)

	// Span of 4 days in 2 slices: [d0, d2) holds 4 and 8, the final window holds 12, 16 and 20.
	require.Len(t, result.Windows, 2)
	assert.Equal(t, []int64{6, 16}, series.Values(result.Windows))
	assert.Equal(t, int64(2*86400), result.Duration)
}

func TestGetLocGraphResults_WindowDuration(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	commits := testCommits(3)

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return(commits, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, mock.Anything, mock.Anything, mock.Anything).Return(schema.DiffStat{Insertions: 1}, nil)

	cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.HTMLOut, Workers: 1, Window: 24 * time.Hour}
	result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
	require.NoError(t, err)

	// Two day-wide windows; the final one is closed and holds the last two samples.
	assert.Equal(t, []int64{1, 2}, series.Values(result.Windows))
	assert.Equal(t, int64(86400), result.Duration)
}

func TestGetLocGraphResults_EmptyHistory(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return([]schema.CommitRef{}, nil)

	t.Run("structured output succeeds", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.CSVOut, Workers: 1}
		result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
		require.NoError(t, err)
		assert.Empty(t, result.Series)
	})

	t.Run("windowed output is rejected", func(t *testing.T) {
		cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.TableOut, Workers: 1}
		_, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
		assert.ErrorIs(t, err, series.ErrEmptySeries)
	})
}

func TestGetLocGraphResults_UpstreamError(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	upstream := &contract.UpstreamError{Op: "git diff", Err: errors.New("bad object")}

	t.Run("list commits", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("ListCommits", ctx, testRepo, "HEAD").Return([]schema.CommitRef(nil), upstream)

		cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.JSONOut, Workers: 1}
		_, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
		var ue *contract.UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "git diff", ue.Op)
	})

	t.Run("diff stat", func(t *testing.T) {
		commits := testCommits(4)
		client := &contract.MockGitClient{}
		client.On("ListCommits", ctx, testRepo, "HEAD").Return(commits, nil)
		client.On("GetDiffStat", mock.Anything, testRepo, "b", "c", mock.Anything).Return(schema.DiffStat{}, upstream)
		client.On("GetDiffStat", mock.Anything, testRepo, mock.Anything, mock.Anything, mock.Anything).Return(schema.DiffStat{Insertions: 1}, nil)

		cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.JSONOut, Workers: 4}
		result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
		assert.Nil(t, result)
		assert.ErrorIs(t, err, upstream)
	})
}

func TestGetLocGraphResults_WorkerCountDoesNotChangeResult(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	commits := testCommits(20)

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return(commits, nil)
	for i, c := range commits {
		from := ""
		if i > 0 {
			from = commits[i-1].Hash
		}
		client.On("GetDiffStat", mock.Anything, testRepo, from, c.Hash, mock.Anything).
			Return(schema.DiffStat{Insertions: uint64(i * 3), Deletions: uint64(i % 4)}, nil)
	}

	var results []schema.Series
	for _, workers := range []int{1, 3, 8} {
		cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.JSONOut, Workers: workers}
		result, err := GetLocGraphResults(ctx, cfg, client, noStoresManager())
		require.NoError(t, err)
		results = append(results, result.Series)
	}
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestGetLocGraphResults_HistoryTracking(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	commits := testCommits(2)

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "main").Return(commits, nil)
	client.On("GetDiffStat", mock.Anything, testRepo, mock.Anything, mock.Anything, mock.Anything).Return(schema.DiffStat{Insertions: 7}, nil)
	client.On("GetRepoHash", ctx, testRepo, "main").Return("b", nil)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, testRepo, "main", schema.CSVOut, mock.Anything).Return(int64(42), nil)
	history.On("EndRun", int64(42), mock.Anything, schema.RunSummary{
		RepoHash: "b",
		Commits:  2,
		Samples:  2,
		Windows:  0,
		FinalLOC: 14,
	}).Return(nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	cfg := &contract.Config{RepoPath: testRepo, Ref: "main", Output: schema.CSVOut, Workers: 2}
	_, err := GetLocGraphResults(ctx, cfg, client, mgr)
	require.NoError(t, err)
	history.AssertExpectations(t)
}

func TestGetLocGraphResults_HistoryFailureDoesNotFailRun(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	client := &contract.MockGitClient{}
	client.On("ListCommits", ctx, testRepo, "HEAD").Return(testCommits(1), nil)
	client.On("GetDiffStat", mock.Anything, testRepo, "", "a", mock.Anything).Return(schema.DiffStat{Insertions: 3}, nil)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	cfg := &contract.Config{RepoPath: testRepo, Ref: "HEAD", Output: schema.JSONOut, Workers: 1}
	result, err := GetLocGraphResults(ctx, cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.FinalLOC())
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestResampleForConfig(t *testing.T) {
	s := schema.Series{{Time: 0, Value: 10}, {Time: 100, Value: 20}, {Time: 240, Value: 30}}

	tests := []struct {
		name         string
		cfg          *contract.Config
		wantCount    int
		wantDuration int64
	}{
		{"explicit slices", &contract.Config{Slices: 4}, 4, 60},
		{"window duration", &contract.Config{Window: 2 * time.Minute}, 2, 120},
		{"default slices", &contract.Config{}, contract.DefaultSlices, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, duration, err := ResampleForConfig(s, tt.cfg)
			require.NoError(t, err)
			assert.Len(t, windows, tt.wantCount)
			assert.Equal(t, tt.wantDuration, duration)
		})
	}

	_, _, err := ResampleForConfig(schema.Series{}, &contract.Config{Slices: 3})
	assert.ErrorIs(t, err, series.ErrEmptySeries)
}

func TestResampleForConfig_TooManyWindows(t *testing.T) {
	twentyYears := int64(20 * 365 * 24 * 3600)
	s := schema.Series{{Time: 1000000000, Value: 1}, {Time: 1000000000 + twentyYears, Value: 2}}

	tests := []struct {
		name   string
		window time.Duration
	}{
		{"one second", time.Second},
		{"one minute", time.Minute},
		{"one hour", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, _, err := ResampleForConfig(s, &contract.Config{Window: tt.window})
			assert.ErrorIs(t, err, series.ErrInvalidWindow)
			assert.Nil(t, windows)
		})
	}

	windows, duration, err := ResampleForConfig(s, &contract.Config{Window: 7 * 24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, int64(7*24*3600), duration)
	assert.LessOrEqual(t, len(windows), series.MaxWindows)
}

func TestResolveChartConfig(t *testing.T) {
	t.Run("non-chart modes are untouched", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.TableOut}
		got, err := resolveChartConfig(cfg)
		require.NoError(t, err)
		assert.Same(t, cfg, got)
	})

	t.Run("overrides pick the slice count", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ChartOut, Width: 80, Height: 20}
		got, err := resolveChartConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, 80, got.Width)
		assert.Equal(t, 20, got.Height)
		assert.Equal(t, outwriter.PlotWidth(80), got.Slices)
		assert.Equal(t, 0, cfg.Slices, "the caller's config is not modified")
	})

	t.Run("explicit slices win", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ChartOut, Width: 80, Height: 20, Slices: 5}
		got, err := resolveChartConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Slices)
	})
}
