package contract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor = color.New(color.FgCyan, color.Bold) // HeaderColor highlights section headers.
	GrowthColor = color.New(color.FgGreen)            // GrowthColor marks a series that grew overall.
	ShrinkColor = color.New(color.FgRed)              // ShrinkColor marks a series that shrank overall.
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ReadExcludeFile reads exclusion patterns, one per line.
// Blank lines and lines starting with '#' are ignored.
func ReadExcludeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclude file: %w", err)
	}
	return patterns, nil
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the diff-stat cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".locgraph_cache.db"
	}
	return filepath.Join(homeDir, ".locgraph_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".locgraph_history.db"
	}
	return filepath.Join(homeDir, ".locgraph_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// FormatLOC renders a line count with thousands separators.
func FormatLOC(loc int64) string {
	return humanize.Comma(loc)
}

// FormatUnixDate renders Unix seconds as a UTC calendar date.
func FormatUnixDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.DateOnly)
}

// FormatSpan renders a number of seconds as a coarse human duration.
func FormatSpan(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	end := time.Unix(seconds, 0)
	return strings.TrimSuffix(humanize.RelTime(time.Unix(0, 0), end, "", ""), " ")
}
