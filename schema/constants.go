package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All output modes supported.
const (
	ChartOut   OutputMode = "chart" // default
	JSONOut    OutputMode = "json"  // newline-delimited records
	CSVOut     OutputMode = "csv"
	TableOut   OutputMode = "table"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	ChartOut:   {},
	JSONOut:    {},
	CSVOut:     {},
	TableOut:   {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsWindowed reports whether the output mode renders resampled windows
// instead of the full series.
func (m OutputMode) IsWindowed() bool {
	switch m {
	case ChartOut, TableOut, HTMLOut:
		return true
	default:
		return false
	}
}
