package core

import (
	"context"
	"iter"
	"sync"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
)

// diffSlot receives the diff stat of one commit. done is closed once stat or err is set.
type diffSlot struct {
	stat schema.DiffStat
	err  error
	done chan struct{}
}

// diffJob asks for the diff between the commit at idx and its predecessor in the walk.
type diffJob struct {
	idx  int
	from string
	to   string
}

// commitRecords streams one record per commit in ancestry order.
//
// Diff stats are computed by a pool of cfg.Workers goroutines, each commit
// against the previous one in the walk and the first against the empty tree.
// Records are yielded in walk order as soon as they are ready. The first
// failure cancels the remaining work and is yielded as the error; jobs that
// were interrupted by that cancellation report the same failure.
func commitRecords(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, commits []schema.CommitRef) iter.Seq2[schema.CommitRecord, error] {
	return func(yield func(schema.CommitRecord, error) bool) {
		var wg sync.WaitGroup
		defer wg.Wait()

		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		slots := make([]diffSlot, len(commits))
		jobCh := make(chan diffJob, len(commits))

		// Start worker pool
		for range max(cfg.Workers, 1) {
			wg.Go(func() {
				for job := range jobCh {
					slot := &slots[job.idx]
					slot.stat, slot.err = diffOne(ctx, cancel, cfg, client, store, job)
					close(slot.done)
				}
			})
		}

		// Send work to the pool
		prev := ""
		for i, c := range commits {
			slots[i].done = make(chan struct{})
			jobCh <- diffJob{idx: i, from: prev, to: c.Hash}
			prev = c.Hash
		}
		close(jobCh)

		for i, c := range commits {
			<-slots[i].done
			if err := slots[i].err; err != nil {
				yield(schema.CommitRecord{}, err)
				return
			}
			if !yield(schema.NewCommitRecord(c, slots[i].stat), nil) {
				return
			}
		}
	}
}

// diffOne runs a single job. Failures after cancellation are reported as the cancellation cause.
func diffOne(ctx context.Context, cancel context.CancelCauseFunc, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, job diffJob) (schema.DiffStat, error) {
	if ctx.Err() != nil {
		return schema.DiffStat{}, context.Cause(ctx)
	}
	stat, err := cachedDiffStat(ctx, client, store, cfg.RepoPath, job.from, job.to, cfg.Excludes)
	if err != nil {
		if ctx.Err() != nil {
			return schema.DiffStat{}, context.Cause(ctx)
		}
		cancel(err)
		return schema.DiffStat{}, err
	}
	return stat, nil
}
