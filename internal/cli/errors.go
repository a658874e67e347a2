package cli

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a link or folder was not found.
type NotFoundError struct {
	Type string // "link" or "folder"
	ID   string // the ID or name that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// AmbiguousError indicates an ID prefix matched more than one link.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous id %q matches: %s", e.Prefix, strings.Join(e.Matches, ", "))
}

// ValidationError indicates a validation failure.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// DuplicateError indicates a URL is already on the shelf.
type DuplicateError struct {
	URL  string
	Hint string
}

func (e *DuplicateError) Error() string {
	msg := fmt.Sprintf("%s is already on the shelf", e.URL)
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
