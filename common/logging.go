package common

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide logger used by the loader and the command line tools.
// It is created lazily and writes to stderr at info level until reconfigured.
//
// Returns:
//   - *log.Logger: the shared logger
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "gltf",
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetLogLevel parses level ("debug", "info", "warn", "error", "fatal") and applies it to the shared logger.
//
// Parameters:
//   - level: the textual log level
//
// Returns:
//   - error: error if the level is not recognised
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// SetLogOutput redirects the shared logger, mostly so tests can silence it.
func SetLogOutput(w io.Writer) {
	Logger().SetOutput(w)
}

func LogDebug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

func LogInfo(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

func LogWarn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

func LogError(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}
