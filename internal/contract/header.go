package contract

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/huangsam/locgraph/schema"
)

// LogRunHeader prints a concise, 2-line header describing the run.
func LogRunHeader(w io.Writer, cfg *Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: The repository and ref
	_, _ = fmt.Fprintf(w, "🔎 Repo: %s (Ref: %s)\n", repoName, cfg.Ref)

	// Line 2: How the history is bucketed
	switch {
	case cfg.Window > 0:
		_, _ = fmt.Fprintf(w, "📈 Windows: every %s\n", FormatSpan(cfg.WindowSeconds()))
	case cfg.Slices > 0:
		_, _ = fmt.Fprintf(w, "📈 Windows: %d slices\n", cfg.Slices)
	default:
		_, _ = fmt.Fprintln(w, "📈 Windows: auto")
	}
}

// ShouldPrintHeader reports whether a run header belongs on stdout for cfg.
// Machine-readable modes and file output never get one.
func ShouldPrintHeader(cfg *Config) bool {
	if cfg.OutputFile != "" {
		return false
	}
	return cfg.Output == schema.ChartOut || cfg.Output == schema.TableOut
}
