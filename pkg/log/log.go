package log

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultLoggerFlag is the standard log flag set used by the default logger.
const DefaultLoggerFlag = log.Ldate | log.Ltime

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New(os.Stdout, "", DefaultLoggerFlag, LogLevelInfo))
}

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelNames = map[LogLevel]string{
	LogLevelError: "error",
	LogLevelWarn:  "warn",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
	LogLevelTrace: "trace",
}

func (level LogLevel) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return "unknown"
}

// ParseLogLevel parses a case-insensitive level name. "warning" is accepted for warn.
func ParseLogLevel(level string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		return LogLevelWarn, nil
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return LogLevelError, fmt.Errorf("unknown log level: %s", level)
}

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(l *Logger) {
	defaultLogger.Store(l)
}

func SetLevel(level LogLevel) {
	l := defaultLogger.Load()
	l.SetLevel(level)
	l.Info("Log level set to %s", level)
}

// Fields are extra keys written alongside level and msg.
type Fields map[string]interface{}

type Logger struct {
	lock   sync.RWMutex
	logger *log.Logger
	level  LogLevel
}

func New(out io.Writer, prefix string, flag int, level LogLevel) *Logger {
	return &Logger{
		logger: log.New(out, prefix, flag),
		level:  level,
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.level = level
}

func (l *Logger) Level() LogLevel {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.level
}

// WithFields returns an Entry that adds fields to every line it logs.
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// write emits one JSON object per line. level and msg cannot be overridden by fields.
func (l *Logger) write(level LogLevel, fields Fields, format string, args ...interface{}) {
	if level > l.Level() {
		return
	}
	entry := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["level"] = level.String()
	entry["msg"] = fmt.Sprintf(format, args...)
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]string{
			"level": level.String(),
			"msg":   fmt.Sprintf(format, args...),
			"error": fmt.Sprintf("failed to marshal log fields: %v", err),
		})
	}
	l.logger.Print(string(b))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LogLevelError, nil, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LogLevelWarn, nil, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LogLevelInfo, nil, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LogLevelDebug, nil, format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.write(LogLevelTrace, nil, format, args...)
}

// Entry is a Logger bound to a set of fields.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithFields returns a new Entry holding both sets of fields. The argument wins on conflicts.
func (e *Entry) WithFields(fields Fields) *Entry {
	merged := make(Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{logger: e.logger, fields: merged}
}

func (e *Entry) Error(format string, args ...interface{}) {
	e.logger.write(LogLevelError, e.fields, format, args...)
}

func (e *Entry) Warn(format string, args ...interface{}) {
	e.logger.write(LogLevelWarn, e.fields, format, args...)
}

func (e *Entry) Info(format string, args ...interface{}) {
	e.logger.write(LogLevelInfo, e.fields, format, args...)
}

func (e *Entry) Debug(format string, args ...interface{}) {
	e.logger.write(LogLevelDebug, e.fields, format, args...)
}

func (e *Entry) Trace(format string, args ...interface{}) {
	e.logger.write(LogLevelTrace, e.fields, format, args...)
}

// WithFields binds fields to the default logger.
func WithFields(fields Fields) *Entry {
	return defaultLogger.Load().WithFields(fields)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Load().Info(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Load().Error(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Load().Warn(format, args...)
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Load().Debug(format, args...)
}

func Trace(format string, args ...interface{}) {
	defaultLogger.Load().Trace(format, args...)
}
