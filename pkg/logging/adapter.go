package logging

// ForComponent returns a child logger tagged with a component name so
// pipe, discovery, and connection logs stay distinguishable on one
// stream.
func ForComponent(logger Logger, component string) Logger {
	if logger == nil {
		logger = GetGlobalLogger()
	}
	return logger.WithFields(String("component", component))
}

// ForOperation returns a child logger tagged with a component and the
// operation running within it.
func ForOperation(logger Logger, component, operation string) Logger {
	if logger == nil {
		logger = GetGlobalLogger()
	}
	return logger.WithFields(
		String("component", component),
		String("operation", operation),
	)
}

// globalLogger is the default logger used when a caller does not supply one
var globalLogger Logger

// init initializes the global logger
func init() {
	globalLogger = New(nil, nil)
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger Logger) {
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	return globalLogger
}

// Debug logs a debug message to the global logger
func Debug(msg string, fields ...Field) {
	globalLogger.Debug(msg, fields...)
}

// Info logs an info message to the global logger
func Info(msg string, fields ...Field) {
	globalLogger.Info(msg, fields...)
}

// Warn logs a warning message to the global logger
func Warn(msg string, fields ...Field) {
	globalLogger.Warn(msg, fields...)
}

// LogError logs an error message to the global logger
func LogError(msg string, fields ...Field) {
	globalLogger.Error(msg, fields...)
}

// Fatal logs a fatal message to the global logger and exits
func Fatal(msg string, fields ...Field) {
	globalLogger.Fatal(msg, fields...)
}
