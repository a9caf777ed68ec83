package zerolog

import (
	"io"
	stdlog "log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	loglib "github.com/wdm0006/intakegate/pkg/log"
	zerologlib "github.com/wdm0006/intakegate/pkg/log/zerolog"
)

type Config struct {
	LogLevel string
	// JSON writes raw JSON lines instead of console output.
	JSON bool
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.ErrorFieldName = "error.message"
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return path.Base(file) + ":" + strconv.Itoa(line)
	}
}

// SetGlobalLogger sets the log output in the stdlib log package and the
// zerolog global loggers.
func SetGlobalLogger(logger *zerolog.Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger
}

func NewStdLogger(l *zerolog.Logger) loglib.Logger {
	return zerologlib.NewLogger(l)
}

// NewLogger creates a logger writing to stderr with a timestamp and the
// caller's filename. An unknown level falls back to info.
func NewLogger(config *Config) *zerolog.Logger {
	return newLogger(config, os.Stderr)
}

func newLogger(config *Config, w io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || config.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	out := w
	if !config.JSON {
		out = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = time.RFC3339Nano
		})
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
	return &logger
}
