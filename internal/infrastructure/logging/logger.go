package logging

import (
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/noar-utils/snapshooter/internal/application/ports"
)

// Name labels every log line
const Name = "snapshooter"

// Logger adapts an hclog logger to the LoggingGateway interface
type Logger struct {
	logger hclog.Logger
}

// NewLogger creates a logger writing to w at the given level
func NewLogger(w io.Writer, level ports.LogLevel) *Logger {
	return Wrap(hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Level:  toHCLevel(level),
		Output: w,
	}))
}

// Wrap adapts an existing hclog logger
func Wrap(logger hclog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Log writes a message when level passes the current threshold
func (l *Logger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	l.logger.Log(toHCLevel(level), message, keyValues(fields)...)
}

// LogError writes an error at error level, the highest threshold the
// gateway can be set to
func (l *Logger) LogError(err error, message string, fields map[string]interface{}) {
	args := keyValues(fields)
	if err != nil {
		args = append([]interface{}{"error", err}, args...)
	}
	l.logger.Error(message, args...)
}

// SetLogLevel sets the logging level
func (l *Logger) SetLogLevel(level ports.LogLevel) {
	l.logger.SetLevel(toHCLevel(level))
}

// GetLogLevel returns the current logging level
func (l *Logger) GetLogLevel() ports.LogLevel {
	switch l.logger.GetLevel() {
	case hclog.Trace, hclog.Debug:
		return ports.LogLevelDebug
	case hclog.Warn:
		return ports.LogLevelWarn
	case hclog.Error, hclog.Off:
		return ports.LogLevelError
	default:
		return ports.LogLevelInfo
	}
}

// ParseLevel maps a configured level name onto a LogLevel. Unknown names
// fall back to info.
func ParseLevel(name string) ports.LogLevel {
	switch ports.LogLevel(strings.ToLower(strings.TrimSpace(name))) {
	case ports.LogLevelDebug:
		return ports.LogLevelDebug
	case ports.LogLevelWarn, "warning":
		return ports.LogLevelWarn
	case ports.LogLevelError:
		return ports.LogLevelError
	default:
		return ports.LogLevelInfo
	}
}

func toHCLevel(level ports.LogLevel) hclog.Level {
	switch level {
	case ports.LogLevelDebug:
		return hclog.Debug
	case ports.LogLevelWarn:
		return hclog.Warn
	case ports.LogLevelError:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// keyValues flattens fields into hclog's alternating key/value arguments,
// sorted by key
func keyValues(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

var _ ports.LoggingGateway = (*Logger)(nil)
