// Package idgen generates task identifiers.
package idgen

import (
	"github.com/google/uuid"

	"github.com/runoshun/taskman/internal/domain"
)

// Ensure UUIDv7 implements domain.IDGenerator.
var _ domain.IDGenerator = UUIDv7{}

// UUIDv7 generates time-ordered UUIDs.
type UUIDv7 struct{}

// NewID returns a new version 7 UUID string.
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
