package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
)

// currentCacheVersion defines the version of the cached diff stat encoding.
// Snapshots never change once committed, so entries only expire when this is bumped.
const currentCacheVersion = 1

// cachedDiffStat returns the diff stat between two snapshots, consulting the stat cache first.
func cachedDiffStat(ctx context.Context, client contract.GitClient, store contract.CacheStore, repoPath, from, to string, excludes []string) (schema.DiffStat, error) {
	if store == nil {
		return client.GetDiffStat(ctx, repoPath, from, to, excludes)
	}

	key := generateCacheKey(from, to, excludes)

	// Check for cache hit
	if stat, ok := checkCacheHit(store, key); ok {
		contract.LogDebug("diff stat cache hit", "to", to)
		return stat, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ctx, client, store, key, repoPath, from, to, excludes)
}

// checkCacheHit attempts to retrieve and validate a cached diff stat.
func checkCacheHit(store contract.CacheStore, key string) (schema.DiffStat, bool) {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return schema.DiffStat{}, false
	}

	var stat schema.DiffStat
	if err := json.Unmarshal(data, &stat); err != nil {
		return schema.DiffStat{}, false
	}
	return stat, true
}

// computeAndStore asks git for the diff stat and stores it in cache.
// A failed write is logged and otherwise ignored.
func computeAndStore(ctx context.Context, client contract.GitClient, store contract.CacheStore, key, repoPath, from, to string, excludes []string) (schema.DiffStat, error) {
	stat, err := client.GetDiffStat(ctx, repoPath, from, to, excludes)
	if err != nil {
		return schema.DiffStat{}, err
	}

	if data, err := json.Marshal(stat); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to write diff stat cache", err)
		}
	}
	return stat, nil
}

// generateCacheKey creates a unique key for a snapshot pair and exclude set.
// The exclude order does not affect the key.
func generateCacheKey(from, to string, excludes []string) string {
	sorted := slices.Clone(excludes)
	slices.Sort(sorted)
	key := fmt.Sprintf("%s|%s|%s", from, to, strings.Join(sorted, "\x00"))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
