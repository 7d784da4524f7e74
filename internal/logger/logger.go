package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logging contract shared by every package.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Options selects the sinks of a logger built by New.
type Options struct {
	Level string
	// File enables a rotated log file in addition to the console.
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	JSON       bool
	Console    io.Writer
}

// New builds a zerolog backed logger writing to the console and, when
// configured, to a lumberjack rotated file.
func New(opts Options) (*ZerologAdapter, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if !opts.JSON {
		console = zerolog.ConsoleWriter{Out: console}
	}
	if opts.File == "" {
		return NewZerolog(console, level), nil
	}

	fileLog := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
	}
	return NewZerolog(io.MultiWriter(console, fileLog), level), nil
}

// NewNop returns a logger that drops everything.
func NewNop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

// OrNop substitutes a discarding logger for nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNop()
	}
	return l
}
