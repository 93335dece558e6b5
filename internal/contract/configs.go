package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/locgraph/core/series"
	"github.com/huangsam/locgraph/schema"
)

// Default values for configuration.
const (
	DefaultRef    = "HEAD"
	DefaultSlices = 24
	MaxSlices     = series.MaxWindows
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	RepoPath   string
	Ref        string
	Excludes   []string
	Output     schema.OutputMode
	OutputFile string
	Workers    int

	Width  int // Terminal width override (0 = auto-detect)
	Height int // Terminal height override (0 = auto-detect)

	// Slices and Window are mutually exclusive; both zero means automatic.
	Slices int
	Window time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored headers
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Ref              string   `mapstructure:"ref"`
	Exclude          []string `mapstructure:"exclude"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
	Output           string   `mapstructure:"output"`
	OutputFile       string   `mapstructure:"output-file"`
	Width            int      `mapstructure:"width"`
	Height           int      `mapstructure:"height"`
	Slices           int      `mapstructure:"slices"`
	Window           string   `mapstructure:"window"`
	Workers          int      `mapstructure:"workers"`
	CacheBackend     string   `mapstructure:"cache-backend"`
	CacheDBConnect   string   `mapstructure:"cache-db-connect"`
	HistoryBackend   string   `mapstructure:"history-backend"`
	HistoryDBConnect string   `mapstructure:"history-db-connect"`
	Color            string   `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// WindowSeconds returns the configured window duration in whole seconds.
func (c *Config) WindowSeconds() int64 {
	return int64(c.Window / time.Second)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindowing(cfg, input); err != nil {
		return err
	}
	if err := processExcludes(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveGitPath(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}

	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history backend: %w", err)
	}

	// Both stores may share a server but never a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	cfg.Ref = strings.TrimSpace(input.Ref)
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}
	if err := ValidateRef(cfg.Ref); err != nil {
		return fmt.Errorf("invalid --ref value: %w", err)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.ChartOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be chart, json, csv, table, parquet, html", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", schema.ParquetOut)
	}

	// Size overrides are never replaced by defaults when invalid
	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	if input.Height < 0 {
		return fmt.Errorf("height must not be negative (received %d)", input.Height)
	}
	cfg.Width = input.Width
	cfg.Height = input.Height
	return nil
}

// processWindowing validates --slices and --window.
func processWindowing(cfg *Config, input *ConfigRawInput) error {
	return applyWindowing(cfg, input.Slices, input.Window)
}

// RevalidateWindowing replaces the windowing of an already validated config,
// applying the same rules as the command line. Used by the MCP tools.
func RevalidateWindowing(cfg *Config, slices int, window string) error {
	cfg.Slices = 0
	cfg.Window = 0
	return applyWindowing(cfg, slices, window)
}

// applyWindowing checks that at most one of slices and window is set and stores it.
func applyWindowing(cfg *Config, slices int, window string) error {
	window = strings.TrimSpace(window)
	if slices != 0 && window != "" {
		return fmt.Errorf("%w: --slices and --window are mutually exclusive", series.ErrInvalidWindow)
	}
	if slices < 0 || slices > MaxSlices {
		return fmt.Errorf("%w: --slices must be between 1 and %d (received %d)", series.ErrInvalidWindow, MaxSlices, slices)
	}
	cfg.Slices = slices

	if window != "" {
		d, err := ParseWindowDuration(window)
		if err != nil {
			return fmt.Errorf("%w: %w", series.ErrInvalidWindow, err)
		}
		cfg.Window = d
	}
	return nil
}

// processExcludes collects exclusion patterns from --exclude or --exclude-file.
func processExcludes(cfg *Config, input *ConfigRawInput) error {
	patterns := SplitExcludes(input.Exclude...)

	if input.ExcludeFile != "" {
		if len(patterns) > 0 {
			return fmt.Errorf("--exclude and --exclude-file are mutually exclusive")
		}
		fromFile, err := ReadExcludeFile(input.ExcludeFile)
		if err != nil {
			return err
		}
		patterns = fromFile
	}

	cfg.Excludes = patterns
	return nil
}

// SplitExcludes flattens comma-separated exclusion patterns, dropping blanks.
func SplitExcludes(values ...string) []string {
	var patterns []string
	for _, p := range values {
		for part := range strings.SplitSeq(p, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
	}
	return patterns
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveGitPath resolves the Git repository root from the positional path.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}
