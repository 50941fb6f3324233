package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is structured, leveled logging with key/value fields attached to
// every line — the orchestrator tags its lines with the path or id they
// concern and the pipeline stage (import or propagate) that wrote them,
// since a bare message can't tell a reader which of thousands of assets in
// a batch it's about.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// pipelineLogger is a Logger backed by logrus.
type pipelineLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// New builds a logger at level (debug/info/warn/error/fatal, defaulting to
// info on an unrecognized value) writing format ("json" or text) to stdout.
func New(level, format string) Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	logger.SetOutput(os.Stdout)

	return &pipelineLogger{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

// NewBasic is New("info", "text"), for callers (tests, early startup before
// config loads) that don't need to pick a level or format.
func NewBasic() Logger {
	return New("info", "text")
}

// NewWithOutput is New with the destination overridden, for tests that
// capture log output instead of writing to stdout.
func NewWithOutput(level, format string, output io.Writer) Logger {
	logger := New(level, format)
	if pl, ok := logger.(*pipelineLogger); ok {
		pl.logger.SetOutput(output)
	}
	return logger
}

func (l *pipelineLogger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(parseFields(fields...)).Debug(msg)
}

func (l *pipelineLogger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(parseFields(fields...)).Info(msg)
}

func (l *pipelineLogger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(parseFields(fields...)).Warn(msg)
}

func (l *pipelineLogger) Error(msg string, fields ...interface{}) {
	l.entry.WithFields(parseFields(fields...)).Error(msg)
}

func (l *pipelineLogger) Fatal(msg string, fields ...interface{}) {
	l.entry.WithFields(parseFields(fields...)).Fatal(msg)
}

func (l *pipelineLogger) WithField(key string, value interface{}) Logger {
	return &pipelineLogger{
		logger: l.logger,
		entry:  l.entry.WithField(key, value),
	}
}

func (l *pipelineLogger) WithFields(fields map[string]interface{}) Logger {
	return &pipelineLogger{
		logger: l.logger,
		entry:  l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithStage tags every line the returned logger writes with the pipeline
// stage it came from (import, process, save, propagate), so a log line can
// be traced back to where in a single asset's import sequence it happened.
func WithStage(l Logger, stage string) Logger {
	return l.WithField("stage", stage)
}

// parseFields folds a "key1", val1, "key2", val2, ... variadic list into
// logrus.Fields, dropping a trailing unpaired key and any key that isn't a
// string.
func parseFields(fields ...interface{}) logrus.Fields {
	result := make(logrus.Fields)

	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			result[key] = fields[i+1]
		}
	}

	return result
}
