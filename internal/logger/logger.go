package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns the process logger. Production output is JSON at info level;
// dev output is human readable at debug level.
func Setup(dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Caller().Logger()
	}

	return logger
}
