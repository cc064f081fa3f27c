package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger provides structured logging capabilities
// This abstraction allows swapping logging implementations
type Logger interface {
	// Error logs an error message
	Error(args ...interface{})

	// Info logs an informational message
	Info(args ...interface{})

	// Debug logs a debug message
	Debug(args ...interface{})

	// WithFields returns a new logger with structured fields
	WithFields(fields map[string]interface{}) Logger

	// WithContext returns a new logger with context values
	// Extracts the request ID from the context automatically
	WithContext(ctx context.Context) Logger
}

// LoggerConfig configures logger behavior
type LoggerConfig struct {
	// JSONOutput enables JSON structured output
	JSONOutput bool
	// Level sets the minimum log level (DEBUG, INFO, ERROR)
	Level string
	// Output overrides the destination of every level.
	// When nil, ERROR goes to stderr and the rest to stdout.
	Output io.Writer
}

// defaultLogger implements Logger using Go's standard log package
type defaultLogger struct {
	errorLogger *log.Logger
	infoLogger  *log.Logger
	debugLogger *log.Logger
	config      LoggerConfig
	fields      map[string]interface{}
}

// NewDefaultLogger creates a new default logger implementation
func NewDefaultLogger() Logger {
	return NewLogger(LoggerConfig{
		JSONOutput: false,
		Level:      "DEBUG",
	})
}

// NewJSONLogger creates a logger with JSON output enabled
func NewJSONLogger() Logger {
	return NewLogger(LoggerConfig{
		JSONOutput: true,
		Level:      "DEBUG",
	})
}

// NewLogger creates a new logger with configuration
func NewLogger(config LoggerConfig) Logger {
	config.Level = strings.ToUpper(config.Level)

	var errOut, stdOut io.Writer = os.Stderr, os.Stdout
	if config.Output != nil {
		errOut, stdOut = config.Output, config.Output
	}

	flags := log.LstdFlags | log.Lshortfile
	errPrefix, infoPrefix, debugPrefix := "[ERROR] ", "[INFO] ", "[DEBUG] "
	if config.JSONOutput {
		// timestamp and level live inside the entry
		flags = 0
		errPrefix, infoPrefix, debugPrefix = "", "", ""
	}

	return &defaultLogger{
		errorLogger: log.New(errOut, errPrefix, flags),
		infoLogger:  log.New(stdOut, infoPrefix, flags),
		debugLogger: log.New(stdOut, debugPrefix, flags),
		config:      config,
		fields:      make(map[string]interface{}),
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return NewLogger(LoggerConfig{Level: "ERROR", Output: io.Discard})
}

type logEntry struct {
	Timestamp string                 `json:"timestamp,omitempty"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// log writes a log entry with structured fields
func (l *defaultLogger) log(level string, logger *log.Logger, message string) {
	if !l.shouldLog(level) {
		return
	}

	if l.config.JSONOutput {
		entry := logEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Level:     level,
			Message:   message,
		}
		if len(l.fields) > 0 {
			entry.Fields = l.fields
		}
		jsonData, err := json.Marshal(entry)
		if err == nil {
			logger.Output(3, string(jsonData))
			return
		}
		// fall through to plain text when a field is not marshalable
	}

	if len(l.fields) > 0 {
		logger.Output(3, message+" "+formatFields(l.fields))
	} else {
		logger.Output(3, message)
	}
}

// formatFields renders fields as sorted key=value pairs so lines are stable.
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, fields[k])
	}
	return b.String()
}

var logLevels = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"ERROR": 2,
}

// shouldLog checks if the log level should be logged based on config
func (l *defaultLogger) shouldLog(level string) bool {
	configLevel, ok := logLevels[l.config.Level]
	if !ok {
		configLevel = 0 // Default to DEBUG if invalid
	}

	logLevel, ok := logLevels[level]
	if !ok {
		return true
	}

	return logLevel >= configLevel
}

// Error logs an error message
func (l *defaultLogger) Error(args ...interface{}) {
	l.log("ERROR", l.errorLogger, sprint(args...))
}

// Info logs an informational message
func (l *defaultLogger) Info(args ...interface{}) {
	l.log("INFO", l.infoLogger, sprint(args...))
}

// Debug logs a debug message
func (l *defaultLogger) Debug(args ...interface{}) {
	l.log("DEBUG", l.debugLogger, sprint(args...))
}

// WithFields returns a new logger with structured fields
// New fields override existing ones with the same key
func (l *defaultLogger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return l.clone(newFields)
}

// WithContext returns a new logger with context values
func (l *defaultLogger) WithContext(ctx context.Context) Logger {
	requestID := GetRequestID(ctx)
	if requestID == "" {
		return l
	}
	return l.WithFields(map[string]interface{}{"request_id": requestID})
}

func (l *defaultLogger) clone(fields map[string]interface{}) *defaultLogger {
	return &defaultLogger{
		errorLogger: l.errorLogger,
		infoLogger:  l.infoLogger,
		debugLogger: l.debugLogger,
		config:      l.config,
		fields:      fields,
	}
}

// Package-level logger instance for convenience functions
var (
	defaultLoggerInstance Logger
	defaultLoggerMu       sync.RWMutex
)

func init() {
	defaultLoggerInstance = NewLogger(LoggerConfig{Level: "INFO"})
}

// SetDefaultLogger replaces the logger used by the package-level helpers.
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultLoggerMu.Lock()
	defaultLoggerInstance = logger
	defaultLoggerMu.Unlock()
}

// DefaultLogger returns the logger used by the package-level helpers.
func DefaultLogger() Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLoggerInstance
}

// hasFormatSpecifiers checks if string contains format specifiers like %s, %d, %v, etc.
func hasFormatSpecifiers(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '%' {
			next := s[i+1]
			if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') || (next >= '0' && next <= '9') || next == '.' || next == '+' || next == '-' || next == '#' {
				return true
			}
		}
	}
	return false
}

// sprint formats args, treating a leading format string as printf-style.
// Supports both: Info("message") and Info("format %s", arg)
func sprint(args ...interface{}) string {
	if len(args) > 1 {
		if format, ok := args[0].(string); ok && hasFormatSpecifiers(format) {
			return fmt.Sprintf(format, args[1:]...)
		}
	}
	return fmt.Sprint(args...)
}

// Error logs an error message on the default logger
func Error(args ...interface{}) {
	if len(args) == 0 {
		return
	}
	DefaultLogger().Error(sprint(args...))
}

// Info logs an informational message on the default logger
func Info(args ...interface{}) {
	if len(args) == 0 {
		return
	}
	DefaultLogger().Info(sprint(args...))
}

// Debug logs a debug message on the default logger
func Debug(args ...interface{}) {
	if len(args) == 0 {
		return
	}
	DefaultLogger().Debug(sprint(args...))
}
