package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

var (
	infoLogger   *log.Logger
	errorLogger  *log.Logger
	currentLevel = LogLevelInfo
)

func init() {
	infoLogger = log.New(os.Stdout, "", 0)
	errorLogger = log.New(os.Stderr, "", 0)
}

// SetLevel sets the minimum log level to display
func SetLevel(level LogLevel) {
	currentLevel = level
}

// Level returns the current minimum log level
func Level() LogLevel {
	return currentLevel
}

// SetOutput sends all log output to w
func SetOutput(w io.Writer) {
	infoLogger.SetOutput(w)
	errorLogger.SetOutput(w)
}

func tagPrefix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf("[%s] ", strings.Join(tags, "]["))
}

func emit(l *log.Logger, level LogLevel, label string, tags []string, format string, v ...interface{}) {
	if currentLevel > level {
		return
	}
	l.Printf(label+tagPrefix(tags)+format, v...)
}

// Debug logs a diagnostic message, shown only with --verbose
func Debug(format string, v ...interface{}) {
	emit(infoLogger, LogLevelDebug, "DEBUG: ", nil, format, v...)
}

// DebugTagged logs a diagnostic message with tags
func DebugTagged(tags []string, format string, v ...interface{}) {
	emit(infoLogger, LogLevelDebug, "DEBUG: ", tags, format, v...)
}

// Info logs an informational message
func Info(format string, v ...interface{}) {
	emit(infoLogger, LogLevelInfo, "", nil, format, v...)
}

// InfoTagged logs an informational message with tags
func InfoTagged(tags []string, format string, v ...interface{}) {
	emit(infoLogger, LogLevelInfo, "", tags, format, v...)
}

// Success logs the successful end of an operation
func Success(format string, v ...interface{}) {
	emit(infoLogger, LogLevelInfo, "OK: ", nil, format, v...)
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	emit(infoLogger, LogLevelWarning, "WARNING: ", nil, format, v...)
}

// WarningTagged logs a warning message with tags
func WarningTagged(tags []string, format string, v ...interface{}) {
	emit(infoLogger, LogLevelWarning, "WARNING: ", tags, format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	emit(errorLogger, LogLevelError, "ERROR: ", nil, format, v...)
}

// ErrorTagged logs an error message with tags
func ErrorTagged(tags []string, format string, v ...interface{}) {
	emit(errorLogger, LogLevelError, "ERROR: ", tags, format, v...)
}

// DryRun logs an action that was simulated. It ignores the level.
func DryRun(format string, v ...interface{}) {
	infoLogger.Printf("[DRY RUN] "+format, v...)
}

// DryRunTagged logs a simulated action with tags
func DryRunTagged(tags []string, format string, v ...interface{}) {
	infoLogger.Printf("[DRY RUN] "+tagPrefix(tags)+format, v...)
}
