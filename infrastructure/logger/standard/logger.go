// ABOUTME: Standard logger implementation backed by logrus
// ABOUTME: Provides structured, leveled logging with text or JSON output and optional file rotation

package standard

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, format and destination
type Config struct {
	Level  string
	Format string
	// File enables a rotating log file in addition to stdout
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// StandardLogger implements the Logger interface on a logrus logger
type StandardLogger struct {
	log *logrus.Logger
}

// NewStandardLogger creates an info-level text logger on stdout
func NewStandardLogger() *StandardLogger {
	return NewLogger(Config{})
}

// NewLogger creates a logger from cfg. Unknown levels fall back to info.
func NewLogger(cfg Config) *StandardLogger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		})
	}
	l.SetOutput(out)

	return &StandardLogger{log: l}
}

// NewWithLogrus wraps an existing logrus logger
func NewWithLogrus(l *logrus.Logger) *StandardLogger {
	return &StandardLogger{log: l}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry(fields).Debug(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.entry(fields).Info(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry(fields).Warn(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.entry(fields).Error(msg)
}

func (l *StandardLogger) entry(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(logrus.Fields(fields))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
