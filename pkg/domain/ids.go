// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "brigade/pkg/domain-errors"
)

// CodeID identifies a check-in credential record. It is distinct from the
// scanned secret: the ID is public and addressable, the code is not.
type CodeID uuid.UUID

// NewCodeID generates a fresh random credential ID.
func NewCodeID() CodeID {
	return CodeID(uuid.New())
}

// ParseCodeID parses a credential ID at trust boundaries (handlers, CLI input).
func ParseCodeID(s string) (CodeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CodeID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid credential ID format")
	}
	return CodeID(id), nil
}

func (id CodeID) String() string { return uuid.UUID(id).String() }

func (id CodeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
