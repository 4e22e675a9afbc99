package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level, writing
// to the console only. The first call initializes the logger; subsequent calls
// ignore the arguments and return the already initialized instance.
func Get(level string) *Logger {
	return GetWithFile(level, "")
}

// GetWithFile returns the singleton logger, additionally mirroring output to
// the given log file when filePath is non-empty. If the file cannot be opened
// the logger falls back to console-only output.
func GetWithFile(level, filePath string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, filePath)
	})
	return globalLogger
}
