package model

import (
	"errors"
	"fmt"
)

// Tag classifies a conversion failure. Tags are stable identifiers surfaced
// verbatim in the result's error field; callers branch on them.
type Tag string

const (
	// TagUnsupportedFormat means the file's extension/content type maps to
	// no registered extractor.
	TagUnsupportedFormat Tag = "UnsupportedFormat"

	// TagInvalidImage means the image bytes could not be decoded.
	TagInvalidImage Tag = "InvalidImage"

	// TagMalformedDocument means a document container (DOCX, XLSX, HTML)
	// could not be parsed.
	TagMalformedDocument Tag = "MalformedDocument"

	// TagExtractionFailed means no strategy produced any table.
	TagExtractionFailed Tag = "ExtractionFailed"

	// TagNoTableDetected means neither grid detection nor fallback
	// segmentation found a plausible tabular structure.
	TagNoTableDetected Tag = "NoTableDetected"

	// TagStrategyTimeout marks a single strategy exceeding its deadline.
	// It is recovered inside the cascade and never surfaced as a top-level
	// error on its own.
	TagStrategyTimeout Tag = "StrategyTimeout"

	// TagInternalError covers unexpected faults converted at the
	// orchestrator boundary.
	TagInternalError Tag = "InternalError"
)

// ConversionError is a tagged, human-readable conversion failure. Expected
// conditions (unsupported format, no table found) travel as values of this
// type inside failed results rather than crossing the core boundary as
// panics.
type ConversionError struct {
	Tag     Tag
	Message string
	Err     error
}

// NewError creates a ConversionError with a formatted message.
func NewError(tag Tag, format string, args ...any) *ConversionError {
	return &ConversionError{Tag: tag, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a ConversionError wrapping an underlying cause.
func WrapError(tag Tag, err error, format string, args ...any) *ConversionError {
	return &ConversionError{Tag: tag, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Tag, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is matches another ConversionError by tag, enabling errors.Is checks
// against sentinel-style tagged errors.
func (e *ConversionError) Is(target error) bool {
	t, ok := target.(*ConversionError)
	return ok && t.Tag == e.Tag
}

// TagOf extracts the taxonomy tag from err, or TagInternalError when err is
// not a ConversionError.
func TagOf(err error) Tag {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Tag
	}
	return TagInternalError
}
