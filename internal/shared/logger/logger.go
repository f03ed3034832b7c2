package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Setup configures the process-wide default logger.
// level is one of debug, info, warn, error. format is one of text, json, logfmt.
func Setup(level, format string) {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
		Formatter:       parseFormatter(format),
	})
	log.SetDefault(l)
}

// For returns a child of the default logger tagged with a component prefix.
func For(component string) *log.Logger {
	return log.Default().WithPrefix(component)
}

func parseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func parseFormatter(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
