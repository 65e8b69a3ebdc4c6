package ports

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})

	// SetLogLevel sets the logging level
	SetLogLevel(level LogLevel)

	// GetLogLevel returns the current logging level
	GetLogLevel() LogLevel
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Enabled reports whether a message at level passes a threshold of l
func (l LogLevel) Enabled(level LogLevel) bool {
	return levelRank(level) >= levelRank(l)
}

func levelRank(l LogLevel) int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelInfo:
		return 1
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	default:
		return 1
	}
}

// NopLogger discards every message
type NopLogger struct{}

// Log drops the message
func (NopLogger) Log(LogLevel, string, map[string]interface{}) {}
// LogError drops the error
func (NopLogger) LogError(error, string, map[string]interface{}) {}
// SetLogLevel has no effect
func (NopLogger) SetLogLevel(LogLevel) {}
// GetLogLevel reports the error level
func (NopLogger) GetLogLevel() LogLevel { return LogLevelError }
