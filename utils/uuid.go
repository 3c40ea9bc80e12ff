package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseUUID parses a UUID string, wrapping the error with context
func ParseUUID(s string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	return parsed, nil
}
