// Package cmd defines the command-line interface for locgraph.
package cmd

import (
	"github.com/huangsam/locgraph/internal/contract"
	"github.com/huangsam/locgraph/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add subcommands to the root command
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("ref", contract.DefaultRef, "Git reference whose history is walked")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Pathspec pattern to leave out of the count (repeatable or comma-separated)")
	rootCmd.PersistentFlags().String("exclude-file", "", "File with one exclusion pattern per line")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Diff stat cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (SQLite path must differ from the cache file)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.MarkFlagsMutuallyExclusive("exclude", "exclude-file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all local flags of rootCmd to Viper
	rootCmd.Flags().String("output", string(schema.ChartOut), "Output format: chart or json or csv or table or parquet or html")
	rootCmd.Flags().Int("width", 0, "Chart width override (0 = auto-detect)")
	rootCmd.Flags().Int("height", 0, "Chart height override (0 = auto-detect)")
	rootCmd.Flags().Int("slices", 0, "Number of windows to split the history into (0 = automatic)")
	rootCmd.Flags().String("window", "", "Width of each window (e.g., '1 week', '30 days', '720h')")
	rootCmd.MarkFlagsMutuallyExclusive("slices", "window")
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		contract.LogFatal("Error binding output flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
