package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the caller.
var ErrNotFound = errors.New("not found")

// ValidationError lists the problems found per input field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// fromValidation converts ozzo field errors, returning nil when all passed.
func fromValidation(errs validation.Errors) error {
	if errs.Filter() == nil {
		return nil
	}
	out := &ValidationError{Fields: map[string][]string{}}
	for field, err := range errs {
		if err != nil {
			out.Fields[field] = append(out.Fields[field], err.Error())
		}
	}
	return out
}
