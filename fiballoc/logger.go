package fiballoc

import (
	"fmt"
	"log"
	"os"
)

// LogLevel is how verbose fiballoc's own diagnostic logging is.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

var logLevelNames = map[string]LogLevel{
	"none":  LogLevelNone,
	"error": LogLevelError,
	"info":  LogLevelInfo,
	"debug": LogLevelDebug,
}

var currentLogLevel = LogLevelInfo

// loggers holds one *log.Logger per level above LogLevelNone, keyed by
// level so a single helper can pick the right destination and prefix
// instead of duplicating the same output logic per level.
var loggers = map[LogLevel]*log.Logger{
	LogLevelError: log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	LogLevelInfo:  log.New(os.Stdout, "[info]  ", log.Ldate|log.Ltime|log.Lshortfile),
	LogLevelDebug: log.New(os.Stdout, "[debug] ", log.Ldate|log.Ltime|log.Lshortfile),
}

func init() {
	if lvl, ok := logLevelNames[os.Getenv("FIBALLOC_LOG_LEVEL")]; ok {
		currentLogLevel = lvl
	}
}

// SetLogLevel overrides the logging level, primarily for tests.
func SetLogLevel(level LogLevel) {
	currentLogLevel = level
}

// logAt writes a formatted message at level if the current log level
// permits it. Callers sit three frames up (logAt -> Debug/Info/Error ->
// caller), hence the fixed call depth.
func logAt(level LogLevel, format string, v ...interface{}) {
	if currentLogLevel < level {
		return
	}
	loggers[level].Output(3, fmt.Sprintf(format, v...))
}

// Debug logs a diagnostic message visible only at LogLevelDebug.
func Debug(format string, v ...interface{}) { logAt(LogLevelDebug, format, v...) }

// Info logs a message visible at LogLevelInfo and above.
func Info(format string, v ...interface{}) { logAt(LogLevelInfo, format, v...) }

// Error logs a message visible at LogLevelError and above.
func Error(format string, v ...interface{}) { logAt(LogLevelError, format, v...) }
