// Package logging configures the process loggers: console output plus a
// size-rotated log file, with one named entry per subsystem.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level     string // trace|debug|info|warn|error
	File      string // empty disables the file sink
	MaxSizeMB int
}

// Setup builds the root logger. The returned close function flushes and
// closes the rotating file sink, if one was configured.
func Setup(opts Options) (*logrus.Logger, func(), error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})

	closeFn := func() {}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: 1,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, file))
		closeFn = func() { _ = file.Close() }
	}

	return logger, closeFn, nil
}

// Named returns a subsystem entry on the given logger.
func Named(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("name", name)
}
