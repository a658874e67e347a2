package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when an ID cannot be parsed.
var ErrInvalidID = errors.New("invalid ID format")

// ShortIDLength is the number of characters shown for IDs in list views.
const ShortIDLength = 8

// ParseID parses a full link ID. Case and surrounding space are ignored.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid link ID", ErrInvalidID, s)
	}
	return id, nil
}

// ShortID returns the leading characters of an ID for display.
func ShortID(id uuid.UUID) string {
	return id.String()[:ShortIDLength]
}

// IsIDPrefix reports whether s could be the start of an ID.
func IsIDPrefix(s string) bool {
	if s == "" || len(s) > 36 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') && r != '-' {
			return false
		}
	}
	return true
}
