package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LoggerHelper provides standardized logging for the derivation engine. It
// records parameters, sizes and state transitions; password and secret
// contents are never logged.
type LoggerHelper struct {
	function string
	fields   logrus.Fields
}

// NewLogger creates a new logger helper with standardized fields
func NewLogger(function string) *LoggerHelper {
	return &LoggerHelper{
		function: function,
		fields: logrus.Fields{
			"function": function,
			"package":  "core",
		},
	}
}

// WithField adds a custom field to the logger
func (l *LoggerHelper) WithField(key string, value interface{}) *LoggerHelper {
	l.fields[key] = value
	return l
}

// WithFields adds multiple custom fields to the logger
func (l *LoggerHelper) WithFields(fields logrus.Fields) *LoggerHelper {
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

// WithContext adds the cost parameters of c and the sizes of its buffers.
func (l *LoggerHelper) WithContext(c *Context) *LoggerHelper {
	l.WithFields(logrus.Fields{
		"variant":    c.Variant.Name(),
		"version":    fmt.Sprintf("0x%x", uint32(c.Version)),
		"memory_kib": c.Memory,
		"time":       c.Time,
		"lanes":      c.Lanes,
		"key_length": c.KeyLength,
	})
	l.WithFields(SaltFields(c.Salt))
	l.WithFields(SecretFields("password", c.Password))
	l.WithFields(SecretFields("secret", c.Secret))
	return l.WithField("ad_size", len(c.AssociatedData))
}

// WithState records the derivation state.
func (l *LoggerHelper) WithState(s State) *LoggerHelper {
	return l.WithField("state", s.String())
}

// WithError adds error information to the logger
func (l *LoggerHelper) WithError(err error, operation string) *LoggerHelper {
	l.fields["error"] = err.Error()
	l.fields["error_kind"] = ErrorKind(err)
	l.fields["operation"] = operation
	return l
}

// Entry logs function entry
func (l *LoggerHelper) Entry(message string) {
	logrus.WithFields(l.fields).Debug(fmt.Sprintf("Function entry: %s", message))
}

// Exit logs function exit
func (l *LoggerHelper) Exit() {
	logrus.WithFields(l.fields).Debug(fmt.Sprintf("Function exit: %s", l.function))
}

// Debug logs a debug message
func (l *LoggerHelper) Debug(message string) {
	logrus.WithFields(l.fields).Debug(message)
}

// Warn logs a warning message
func (l *LoggerHelper) Warn(message string) {
	logrus.WithFields(l.fields).Warn(message)
}

// SaltFields returns a preview of the salt: its size and first 8 bytes.
// Salts are public, so a short preview helps correlate log lines.
func SaltFields(salt []byte) logrus.Fields {
	preview := "nil"
	if len(salt) > 0 {
		n := min(len(salt), 8)
		preview = fmt.Sprintf("%x", salt[:n])
		if len(salt) > n {
			preview += "..."
		}
	}
	return logrus.Fields{
		"salt_preview": preview,
		"salt_size":    len(salt),
	}
}

// SecretFields returns the size of a secret buffer under name_size and
// nothing about its contents.
func SecretFields(name string, data []byte) logrus.Fields {
	return logrus.Fields{name + "_size": len(data)}
}

// OperationFields creates standardized operation logging fields
func OperationFields(operation, status string, additional ...logrus.Fields) logrus.Fields {
	fields := logrus.Fields{
		"operation": operation,
		"status":    status,
	}

	for _, extra := range additional {
		for k, v := range extra {
			fields[k] = v
		}
	}

	return fields
}
