// Package contract provides interfaces and shared utilities for the locgraph internals.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/locgraph/schema"
)

// GitClient defines the version control operations locgraph needs.
// This allows the series pipeline to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the commit hash the given ref resolves to.
	GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error)

	// ListCommits returns the ancestry of ref, oldest first.
	ListCommits(ctx context.Context, repoPath string, ref string) ([]schema.CommitRef, error)

	// GetDiffStat returns line insertions and deletions between two snapshots.
	// An empty fromHash means the empty tree. Paths matching excludes are not counted.
	GetDiffStat(ctx context.Context, repoPath string, fromHash, toHash string, excludes []string) (schema.DiffStat, error)
}

// CacheManager defines the interface for managing the persistent stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetStatStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking runs.
type HistoryStore interface {
	// BeginRun creates a new run entry and returns its unique ID
	BeginRun(startTime time.Time, repoPath, ref string, output schema.OutputMode, configParams map[string]any) (int64, error)

	// EndRun updates the run entry with completion data
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// Close closes the underlying connection
	Close() error
}
