package models

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a programming-time mistake in a definition:
// an unknown query identifier, formatter, byte unit or axis mapping.
type ConfigurationError struct {
	Err     error
	Subject string
	Message string
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = e.Subject + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", msg, e.Err)
	}
	return "configuration error: " + msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError for subject.
func NewConfigurationError(subject, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// FetchError is returned by the query executor when a named query cannot be
// resolved, bound or executed.
type FetchError struct {
	Err     error
	QueryID string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.QueryID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DataShapeError reports columns absent from an otherwise successful result.
type DataShapeError struct {
	Subject string
	Columns []string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("missing required columns for %s: %s", e.Subject, strings.Join(e.Columns, ", "))
}

// ValidationError reports rejected user input, such as an inverted date range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
