package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects user-facing messages keyed by payload field.
// Handlers render it as an HTTP 400 body of {"field": ["message", ...]}.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return strings.Join(parts, ", ")
}

func fieldError(field, message string) ValidationError {
	return ValidationError{field: {message}}
}

// ConflictError reports a duplicate relation or self-subscription.
// Rendered as HTTP 400 with {"errors": message}.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports an absent recipe/user/ingredient. Rendered as
// HTTP 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RelationNotFoundError reports removal of a relation that does not
// exist. Unlike NotFoundError it is rendered as HTTP 400 with an
// explanatory {"errors": message} body.
type RelationNotFoundError struct {
	Message string
}

func (e *RelationNotFoundError) Error() string {
	return e.Message
}
