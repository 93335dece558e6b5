package core

import (
	"context"
	"time"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
)

// runTracker records one run in the history store. A zero tracker does nothing.
type runTracker struct {
	store    contract.HistoryStore
	runID    int64
	repoHash string
}

// beginRun opens a history entry when a history store is configured.
// Tracking failures are logged and never fail the run.
func beginRun(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) runTracker {
	if mgr == nil {
		return runTracker{}
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return runTracker{}
	}

	configParams := map[string]any{
		"excludes": cfg.Excludes,
		"slices":   cfg.Slices,
		"window":   cfg.Window.String(),
		"workers":  cfg.Workers,
	}
	runID, err := store.BeginRun(time.Now(), cfg.RepoPath, cfg.Ref, cfg.Output, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return runTracker{}
	}
	if runID <= 0 {
		return runTracker{} // tracking disabled
	}

	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		contract.LogWarn("Failed to resolve ref for run tracking", err)
	}
	return runTracker{store: store, runID: runID, repoHash: repoHash}
}

// end finalizes the history entry with the run totals.
func (t runTracker) end(result *schema.LocResult) {
	if t.store == nil || t.runID <= 0 {
		return
	}
	summary := schema.RunSummary{
		RepoHash: t.repoHash,
		Commits:  result.Commits,
		Samples:  len(result.Series),
		Windows:  len(result.Windows),
		FinalLOC: result.FinalLOC(),
	}
	if err := t.store.EndRun(t.runID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
