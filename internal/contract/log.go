package contract

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "warn"

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.WarnLevel,
})

// ConfigureLogging sets the minimum level of diagnostics written to stderr.
func ConfigureLogging(level string) error {
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be debug, info, warn, error", level)
	}
	logger.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects diagnostics, mainly for tests.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.Warn(msg, "err", err)
}

// LogInfo logs an informational message with optional key-value pairs.
func LogInfo(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with optional key-value pairs.
func LogDebug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}
