// Package uuid wraps github.com/google/uuid and makes UUIDv7
// (time-ordered UUIDs) the default for all generated identifiers.
package uuid

import (
	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// New returns a new random UUIDv7. Panics if generation fails.
func New() UUID {
	u, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return u
}

// NewRandom returns a new UUIDv7 and any error encountered during
// generation.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// Parse parses a UUID string into a UUID value.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// MustParse parses a UUID string and panics on invalid input.
func MustParse(s string) UUID {
	return uuid.MustParse(s)
}

// Nil is the zero UUID value.
var Nil = uuid.Nil
