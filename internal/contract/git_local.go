package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/huangsam/locgraph/schema"
)

// EmptyTreeHash is the object name of the empty tree in every SHA-1 repository.
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()

	op := "git"
	if len(args) > 0 {
		op = "git " + args[0]
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, &UpstreamError{
			Op:  op,
			Err: fmt.Errorf("command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr),
		}
	} else if err != nil {
		return nil, &UpstreamError{
			Op:  op,
			Err: fmt.Errorf("%w. Ensure Git is installed and available on your PATH", err),
		}
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error) {
	if err := ValidateRef(ref); err != nil {
		return "", &UpstreamError{Op: "git rev-parse", Err: err}
	}
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--end-of-options", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListCommits implements the GitClient interface.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath string, ref string) ([]schema.CommitRef, error) {
	if err := ValidateRef(ref); err != nil {
		return nil, &UpstreamError{Op: "git log", Err: err}
	}
	args := []string{
		"log",
		"--reverse",
		"--date-order",
		"--format=%H %ct",
		"--end-of-options",
		ref,
		"--",
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	commits, err := ParseCommitList(out)
	if err != nil {
		return nil, &UpstreamError{Op: "git log", Err: err}
	}
	return commits, nil
}

// GetDiffStat implements the GitClient interface.
func (c *LocalGitClient) GetDiffStat(ctx context.Context, repoPath string, fromHash, toHash string, excludes []string) (schema.DiffStat, error) {
	if fromHash == "" {
		fromHash = EmptyTreeHash
	}
	args := []string{
		"diff",
		"--numstat",
		"--no-renames",
		"--no-ext-diff",
		"--no-textconv",
		fromHash,
		toHash,
		"--",
	}
	args = append(args, ExcludePathspecs(excludes)...)
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return schema.DiffStat{}, err
	}
	return ParseNumstat(out), nil
}

// ExcludePathspecs turns exclusion patterns into git pathspecs.
// The patterns themselves are passed through untouched.
func ExcludePathspecs(excludes []string) []string {
	var specs []string
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		specs = append(specs, ":(exclude)"+ex)
	}
	if len(specs) == 0 {
		return nil
	}
	// An exclude-only pathspec needs a positive match to subtract from
	return append([]string{"."}, specs...)
}

// ParseCommitList parses "<hash> <unix-seconds>" lines.
func ParseCommitList(out []byte) ([]schema.CommitRef, error) {
	var commits []schema.CommitRef
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, ts, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed commit line %q", line)
		}
		t, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed commit time in %q: %w", line, err)
		}
		commits = append(commits, schema.CommitRef{Hash: hash, Time: t})
	}
	return commits, nil
}

// ParseNumstat sums the insertions and deletions of `git diff --numstat` output.
func ParseNumstat(out []byte) schema.DiffStat {
	var stat schema.DiffStat
	for line := range strings.SplitSeq(string(out), "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		stat.Insertions += parseLineCount(parts[0])
		stat.Deletions += parseLineCount(parts[1])
	}
	return stat
}

// parseLineCount converts a numstat count to uint64, handling "-" (binary) as 0.
func parseLineCount(s string) uint64 {
	if s == "-" {
		return 0
	}
	if val, err := strconv.ParseUint(s, 10, 64); err == nil {
		return val
	}
	return 0
}
