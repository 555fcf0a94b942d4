package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/foodgram/backend/internal/validation"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRelationNotFound = fmt.Errorf("relation %w", ErrNotFound)
	ErrConflict         = errors.New("already exists")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	ErrSelfSubscription = errors.New("you cannot subscribe to yourself")

	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports field-level input problems. It is never persisted.
type ValidationError struct {
	Fields validation.FieldErrors
}

func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{Fields: validation.FieldErrors{}}
	v.Fields.Add(field, message)
	return v
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message and returns e for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = validation.FieldErrors{}
	}
	e.Fields.Add(field, message)
	return e
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// validate runs struct-tag validation and converts the result.
func validate(s interface{}) *ValidationError {
	fe := validation.ValidateStruct(s)
	if fe == nil {
		return &ValidationError{Fields: validation.FieldErrors{}}
	}
	return &ValidationError{Fields: fe}
}

// relationError carries a user-facing message while matching a sentinel via errors.Is.
type relationError struct {
	kind error
	msg  string
}

func (e *relationError) Error() string { return e.msg }

func (e *relationError) Unwrap() error { return e.kind }
