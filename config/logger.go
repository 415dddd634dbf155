package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger: a console writer for "console"
// format, JSON lines otherwise. Unknown levels fall back to info.
func NewLogger(cfg Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02_15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
}
