package util

import (
	"fmt"
	"io"
	"os"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/config"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger from the log config values and installs
// it as default logger.
func SetupLogger() (*log.Logger, error) {
	return setupLogger(os.Stderr)
}

func setupLogger(out io.Writer) (*log.Logger, error) {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			out,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			out,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		filtered, err := logger.WithFilter(config.LogFilter)
		if err != nil {
			return nil, fmt.Errorf("log filter %q: %w", config.LogFilter, err)
		}
		logger = filtered
	}
	log.ResetDefault(logger)
	return logger, nil
}
