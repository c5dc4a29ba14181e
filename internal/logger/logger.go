// Package logger provides centralized logging using arbor.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

var (
	globalLogger arbor.ILogger
	loggerMutex  sync.RWMutex
)

// GetLogger returns the global logger instance.
// If InitLogger() hasn't been called yet, returns a fallback console logger.
func GetLogger() arbor.ILogger {
	loggerMutex.RLock()
	if globalLogger != nil {
		loggerMutex.RUnlock()
		return globalLogger
	}
	loggerMutex.RUnlock()

	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	// Double-check after acquiring write lock
	if globalLogger == nil {
		// WARNING: Using fallback logger - InitLogger() should be called during startup
		globalLogger = arbor.NewLogger().WithConsoleWriter(createWriterConfig("", "", models.LogWriterTypeConsole, ""))
		globalLogger.Warn().Msg("Using fallback logger - InitLogger() should be called during startup")
	}
	return globalLogger
}

// InitLogger stores the provided logger as the global singleton instance.
func InitLogger(logger arbor.ILogger) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = logger
}

// SetupLogger configures and initializes the global logger for one run.
//
// Unlike the service it was adapted from, the operator has no fixed
// "Logging" config block: output selection, level, and format come from
// EngineConfig's "logging.*" keys (set in project.json; environment
// variables are not consulted), and the file writer lands
// under paths.LogsDir(frontend, timestamp) rather than a static service dir.
func SetupLogger(cfg *config.EngineConfig, paths config.Paths, frontend, timestamp string) arbor.ILogger {
	logger := arbor.NewLogger()

	outputs := logOutputs(cfg)
	hasFileOutput := false
	hasStdoutOutput := false
	for _, output := range outputs {
		if output == "file" {
			hasFileOutput = true
		}
		if output == "stdout" || output == "console" {
			hasStdoutOutput = true
		}
	}
	if len(outputs) == 1 && outputs[0] == "both" {
		hasFileOutput = true
		hasStdoutOutput = true
	}

	level := cfg.GetString("logging.level")
	format := cfg.GetString("logging.format")
	timeFormat := cfg.GetString("logging.time_format")

	logsDir := paths.LogsDir(frontend, timestamp)

	if hasFileOutput {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			tempLogger := logger.WithConsoleWriter(createWriterConfig(timeFormat, format, models.LogWriterTypeConsole, ""))
			tempLogger.Warn().Err(err).Str("logs_dir", logsDir).Msg("Failed to create logs directory")
		} else {
			logFile := filepath.Join(logsDir, "operator.log")
			logger = logger.WithFileWriter(createWriterConfig(timeFormat, format, models.LogWriterTypeFile, logFile))
		}
	}

	if hasStdoutOutput {
		logger = logger.WithConsoleWriter(createWriterConfig(timeFormat, format, models.LogWriterTypeConsole, ""))
	}

	if !hasFileOutput && !hasStdoutOutput {
		logger = logger.WithConsoleWriter(createWriterConfig(timeFormat, format, models.LogWriterTypeConsole, ""))
		logger.Warn().Strs("configured_outputs", outputs).Msg("No visible log outputs configured - falling back to console")
	}

	// Always add a memory writer so recent log lines are also held in memory.
	logger = logger.WithMemoryWriter(createWriterConfig(timeFormat, format, models.LogWriterTypeMemory, ""))

	logger = logger.WithLevelFromString(level)

	InitLogger(logger)
	return logger
}

// logOutputs resolves the "logging.output" config key, defaulting to
// ["stdout"] when unset so a bare CLI invocation is never silent.
func logOutputs(cfg *config.EngineConfig) []string {
	raw, ok := cfg.Get("logging.output")
	if !ok {
		return []string{"stdout"}
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return []string{"stdout"}
	}
}

// createWriterConfig creates a standard writer configuration with user preferences.
func createWriterConfig(timeFormat, format string, writerType models.LogWriterType, filename string) models.WriterConfiguration {
	if timeFormat == "" {
		timeFormat = "15:04:05.000"
	}

	outputType := models.OutputFormatJSON
	if format == "text" {
		outputType = models.OutputFormatLogfmt
	}

	return models.WriterConfiguration{
		Type:             writerType,
		FileName:         filename,
		TimeFormat:       timeFormat,
		OutputType:       outputType,
		DisableTimestamp: false,
		MaxSize:          100 * 1024 * 1024,
		MaxBackups:       5,
	}
}

// Stop flushes any remaining context logs before application shutdown.
// Safe to call multiple times (Arbor's Stop is idempotent).
func Stop() {
	arborcommon.Stop()
}
