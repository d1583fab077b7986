package models

import (
	"slices"
	"strings"
)

// ValidationError collects the messages of every invalid field.
type ValidationError struct {
	Fields map[string][]string `json:"error"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field string, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))

	for k := range e.Fields {
		fields = append(fields, k)
	}

	slices.Sort(fields)

	return "Invalid fields: " + strings.Join(fields, ", ")
}
