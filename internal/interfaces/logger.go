package interfaces

// Logger defines a generic logging interface.
// keyvals alternate string keys and values, e.g. "user", id, "error", err.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	// SetLevel accepts debug, info, warn, error, fatal or panic in any case.
	SetLevel(level string)
	WithContext(ctx map[string]interface{}) Logger
}
