// Package logging decouples the conversion pipeline from a concrete logging
// framework. The pipeline logs through the Logger interface; the default
// implementation is backed by logrus, and tests use the in-memory mock.
package logging

// Field is a key-value pair attached to a structured log entry.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the structured logging interface used throughout the pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithField returns a derived logger with the field attached to every
	// subsequent entry.
	WithField(key string, value any) Logger
}

// Standardized field names, so log output stays parseable across packages.
const (
	FieldFileID   = "file_id"
	FieldFilename = "filename"
	FieldFormat   = "format"
	FieldStrategy = "strategy"
	FieldStage    = "stage"
	FieldTables   = "tables"
	FieldRows     = "rows"
	FieldColumns  = "columns"
	FieldDuration = "duration_ms"
	FieldError    = "error"
	FieldWorkers  = "workers"
	FieldWarnings = "warnings"
)
