// Package infra provides shared infrastructure components used across
// the application: logging, rate limiting, and HTTP utilities.
package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"github.com/seenimoa/marketbrief/internal/config"
)

const logTimeFormat = "15:04:05"

func consoleWriter() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       logTimeFormat,
		TextOutput:       true,
		DisableTimestamp: false,
	}
}

// InitLogger builds the application logger from the logging config.
// File output goes to <logDir>/marketbrief.log; an empty logDir uses ./logs.
func InitLogger(cfg config.LoggingConfig, logDir string) arbor.ILogger {
	logger := arbor.NewLogger()

	hasFile, hasConsole := false, false
	for _, output := range cfg.Output {
		switch output {
		case "file":
			hasFile = true
		case "stdout", "console":
			hasConsole = true
		}
	}
	if !hasFile && !hasConsole {
		hasConsole = true
	}

	if hasFile {
		if logDir == "" {
			logDir = "logs"
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create logs directory: %v\n", err)
		} else {
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   filepath.Join(logDir, "marketbrief.log"),
				TimeFormat: logTimeFormat,
				MaxSize:    10 * 1024 * 1024, // 10 MB
				MaxBackups: 3,
				TextOutput: true,
			})
		}
	}

	if hasConsole {
		logger = logger.WithConsoleWriter(consoleWriter())
	}

	return logger.WithLevelFromString(cfg.Level)
}
