package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates the base logger used by the command.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		TimeFormat:      time.Kitchen,
	})
}

// Factory provides component-aware loggers with consistent field naming.
type Factory struct {
	baseLogger *log.Logger
	levels     map[string]log.Level
}

// NewFactory creates a new logger factory.
func NewFactory(baseLogger *log.Logger) *Factory {
	return &Factory{
		baseLogger: baseLogger,
		levels:     map[string]log.Level{},
	}
}

// ForComponent creates a logger for a specific component.
func (lf *Factory) ForComponent(id string) *log.Logger {
	logger := lf.baseLogger.WithPrefix(id)
	if level, ok := lf.levels[strings.ToLower(id)]; ok {
		logger.SetLevel(level)
	}
	return logger
}

// ForClient creates a logger for client components.
func (lf *Factory) ForClient(id string) *log.Logger {
	return lf.ForComponent(id).With("component_type", "client")
}

// WithError adds error context to a logger.
func (lf *Factory) WithError(logger *log.Logger, err error) *log.Logger {
	if err != nil {
		return logger.With("error", err.Error())
	}
	return logger
}

// WithOperation adds operation context to a logger.
func (lf *Factory) WithOperation(logger *log.Logger, operation string) *log.Logger {
	return logger.With("operation", operation)
}

// LoadLogLevelsFromEnv loads component-specific log levels from LOG_LEVEL_<COMPONENT>
// environment variables.
func (lf *Factory) LoadLogLevelsFromEnv() {
	const prefix = "LOG_LEVEL_"
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		if parsed, err := log.ParseLevel(value); err == nil {
			lf.levels[strings.ToLower(strings.TrimPrefix(key, prefix))] = parsed
		}
	}
}
