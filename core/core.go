// Package core orchestrates a run: walk the history, build the series, resample it and write it.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/locgraph/core/series"
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/internal/outwriter"
	"github.com/huangsam/locgraph/schema"
)

// ExecuteLocGraph runs the whole pipeline for cfg and writes the result.
// It serves as the main entry point for the root command.
func ExecuteLocGraph(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	start := time.Now()

	// Chart mode needs the terminal size before resampling; fail before touching git.
	runCfg, err := resolveChartConfig(cfg)
	if err != nil {
		return err
	}

	result, err := GetLocGraphResults(ctx, runCfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteLocResult(result, runCfg, time.Since(start))
}

// resolveChartConfig fixes the chart dimensions and, when no windowing was
// requested, sets one slice per plot column. Other modes are returned as is.
func resolveChartConfig(cfg *contract.Config) (*contract.Config, error) {
	if cfg.Output != schema.ChartOut {
		return cfg, nil
	}
	width, height, err := outwriter.ResolveChartSize(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	runCfg := cfg.Clone()
	runCfg.Width = width
	runCfg.Height = height
	if runCfg.Slices == 0 && runCfg.Window == 0 {
		runCfg.Slices = outwriter.PlotWidth(width)
	}
	return runCfg, nil
}

// GetLocGraphResults walks the history of cfg.Ref and returns the full series,
// plus the resampled windows when cfg.Output renders windows.
func GetLocGraphResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.LocResult, error) {
	if !shouldSuppressHeader(ctx) && contract.ShouldPrintHeader(cfg) {
		contract.LogRunHeader(os.Stdout, cfg)
	}

	tracker := beginRun(ctx, cfg, client, mgr)

	commits, err := client.ListCommits(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return nil, err
	}
	contract.LogDebug("walked history", "ref", cfg.Ref, "commits", len(commits))

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetStatStore()
	}

	s, err := series.BuildSeq(commitRecords(ctx, cfg, client, store, commits))
	if err != nil {
		return nil, err
	}

	result := &schema.LocResult{
		RepoPath: cfg.RepoPath,
		Ref:      cfg.Ref,
		Commits:  len(commits),
		Series:   s,
	}

	if cfg.Output.IsWindowed() {
		windows, duration, err := ResampleForConfig(s, cfg)
		if err != nil {
			return nil, err
		}
		result.Windows = windows
		result.Duration = duration
	}

	tracker.end(result)
	return result, nil
}

// ResampleForConfig buckets s the way cfg asks for: a fixed window duration,
// a slice count, or DefaultSlices when neither is set. It returns the windows
// and the width of each window in seconds.
func ResampleForConfig(s schema.Series, cfg *contract.Config) ([]schema.Window, int64, error) {
	var (
		windows []schema.Window
		err     error
	)
	switch {
	case cfg.Window > 0:
		windows, err = series.ResampleEvery(s, cfg.WindowSeconds())
	case cfg.Slices > 0:
		windows, err = series.Resample(s, cfg.Slices)
	default:
		windows, err = series.Resample(s, contract.DefaultSlices)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resample series: %w", err)
	}
	first := windows[0]
	return windows, first.End - first.Start, nil
}
