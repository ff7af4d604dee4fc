// Package logger is the collector's process-wide log. Printf, LogIfErr and
// ExitIfErr are what most code calls; the leveled events and component
// loggers carry structured fields for the engine.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func Printf(format string, v ...interface{}) {
	globalLogger.Info().Msg(strings.TrimRight(fmt.Sprintf(format, v...), "\n "))
}

func LogIfErr(err error) {
	if err != nil {
		globalLogger.Error().Err(err).Send()
	}
}

func ExitIfErr(err error, msg string) {
	if err != nil {
		globalLogger.Fatal().Err(err).Msg(msg)
	}
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

type Config struct {
	Level      string
	Debug      bool
	Output     string
	TimeFormat string
}

// DefaultConfig reads LOG_LEVEL, DEBUG, LOG_OUTPUT and LOG_TIME_FORMAT.
func DefaultConfig() Config {
	return Config{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Debug:      getEnvBoolOrDefault("DEBUG", false),
		Output:     getEnvOrDefault("LOG_OUTPUT", "stdout"),
		TimeFormat: os.Getenv("LOG_TIME_FORMAT"),
	}
}

func Init(config Config) error {
	var output io.Writer = os.Stdout
	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		if level, err = zerolog.ParseLevel(config.Level); err != nil {
			return err
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	globalLogger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes" || value == "on"
}
