// Package uuid issues the time-ordered request IDs used in logs and the
// X-Request-ID header.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7. UUIDv7 is time-ordered, so request IDs sort by
// arrival in log storage.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a canonical UUID.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := googleuuid.Parse(s)
	return err == nil
}
