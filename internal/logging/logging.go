// Package logging builds the root zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"moodtray/internal/config"
)

// Options select the logger outputs.
type Options struct {
	Config config.LogConfig
	// FilePath is the rotating log file. It is ignored unless Config.File is set.
	FilePath string
	Console  io.Writer
}

// New returns the root logger and a closer for the rotating file, if any.
func New(options Options) (zerolog.Logger, io.Closer) {
	console := options.Console
	if console == nil {
		console = os.Stderr
	}

	var out io.Writer = console
	if strings.EqualFold(options.Config.Format, "text") {
		out = zerolog.ConsoleWriter{Out: console}
	}

	var closer io.Closer = nopCloser{}
	if options.Config.File && options.FilePath != "" {
		rotating := &lumberjack.Logger{
			Filename:   options.FilePath,
			MaxSize:    options.Config.MaxSizeMB,
			MaxBackups: options.Config.MaxBackups,
		}
		// The file always gets JSON lines.
		out = zerolog.MultiLevelWriter(out, rotating)
		closer = rotating
	}

	return zerolog.New(out).Level(ParseLevel(options.Config.Level)).With().Timestamp().Logger(), closer
}

// ParseLevel maps a config level onto zerolog. Unknown levels mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
