package logging

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Settings struct {
	Level string
	// File switches output to a rotated log file.
	File string
}

// New builds the process logger. The returned closer releases the log file,
// if any.
func New(settings Settings, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if settings.Level != "" {
		parsed, err := zerolog.ParseLevel(settings.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", settings.Level, err)
		}
		level = parsed
	}

	var closer io.Closer = nopCloser{}
	if settings.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   settings.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = rotated
		closer = rotated
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
