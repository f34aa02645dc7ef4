package uid

import "github.com/google/uuid"

// UUID produces time-ordered UUIDv7 strings with a random v4 fallback for
// the rare case the entropy source fails.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
