package middleware

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// ValidateSessionID checks that id is a UUID as issued by the registry.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format")
	}
	return nil
}

// ValidateKind accepts an empty filter or one of the failure kinds.
func ValidateKind(kind string) error {
	switch kind {
	case "", "configuration", "transport", "empty_response", "malformed_response":
		return nil
	}
	return fmt.Errorf("invalid kind: %s (allowed: configuration, transport, empty_response, malformed_response)", kind)
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// QueryLimit reads ?limit= and clamps it.
func QueryLimit(q url.Values) int {
	n, _ := strconv.Atoi(q.Get("limit"))
	return ValidateLimit(n)
}
