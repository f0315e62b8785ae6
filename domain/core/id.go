package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a request or load identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// ParseID accepts any well-formed UUID and normalizes it to lower case
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", ErrInvalidInput, s)
	}
	return ID(id.String()), nil
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}
