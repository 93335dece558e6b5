// Package main provides a performance benchmarking tool for the locgraph CLI.
// It measures how long a full history walk takes on repositories of different
// sizes, running each suite several times, treating the first successful cached
// run as cold and averaging the rest as warm, and writes the numbers to CSV.
//
// Prerequisites:
// - locgraph binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Suite       string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkSuite is one locgraph invocation measured on every repository.
type BenchmarkSuite struct {
	Name string
	Args []string
	// Check validates stdout so that a fast failure is never counted.
	Check func(stdout string) bool
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Suites      []BenchmarkSuite
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:    repoBase,
		Timeout:     10 * time.Minute,
		Workers:     14,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		Suites: []BenchmarkSuite{
			{
				Name:  "series",
				Args:  []string{"--output", "json"},
				Check: isSeries,
			},
			{
				Name:  "windows",
				Args:  []string{"--output", "table", "--window", "30 days", "--color", "no"},
				Check: isWindowTable,
			},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that locgraph binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("locgraph"); err != nil {
		return errors.New("locgraph binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// clearCache drops the SQLite diff stat cache so the next cached run is cold.
func clearCache() {
	clearCmd := exec.Command("locgraph", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmarks executes all benchmark suites across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, suite := range config.Suites {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, suite))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a suite
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, suite BenchmarkSuite) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", suite.Name, repo)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, suite, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty cache
	clearCache()
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Suite:       suite.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a suite multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repoPath string, suite BenchmarkSuite, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{
		"--cache-backend", cacheBackend,
		"--workers", strconv.Itoa(config.Workers),
	}, suite.Args...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "locgraph", args...)
		cmd.Dir = repoPath
		output, err := cmd.Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		// Timeouts and failures are left out of the averages
		if err == nil && suite.Check(string(output)) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSeries checks that the output ends with a JSON series record
func isSeries(stdout string) bool {
	trimmed := strings.TrimSpace(stdout)
	return strings.HasSuffix(trimmed, "}") && strings.Contains(trimmed, `"loc":`)
}

// isWindowTable checks that the window table and its summary were printed
func isWindowTable(stdout string) bool {
	return strings.Contains(stdout, "Traced") &&
		strings.Contains(stdout, "Final LOC") &&
		strings.Contains(stdout, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("locgraph_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)

	// Write header
	if err := writer.Write([]string{"repo", "suite", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Suite, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, suite := range config.Suites {
		fmt.Printf("%s:\n", suite.Name)
		for _, result := range results {
			if result.Suite == suite.Name {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
