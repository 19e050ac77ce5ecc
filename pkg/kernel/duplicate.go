package kernel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entry is the part of a catalog entry that takes part in duplicate detection.
type Entry struct {
	Name        Name
	MeasureType MeasureType
}

// DuplicatePolicy reports whether candidate duplicates existing.
type DuplicatePolicy func(existing, candidate Entry) bool

// SameNameAndTypeID matches names case-insensitively and measure types by id.
func SameNameAndTypeID(existing, candidate Entry) bool {
	return strings.EqualFold(existing.Name.String(), candidate.Name.String()) &&
		existing.MeasureType.ID() == candidate.MeasureType.ID()
}

// SameNameAndTypeName matches names and measure type names, both case-insensitively.
func SameNameAndTypeName(existing, candidate Entry) bool {
	return strings.EqualFold(existing.Name.String(), candidate.Name.String()) &&
		strings.EqualFold(existing.MeasureType.Name(), candidate.MeasureType.Name())
}

// ContainsDuplicate reports whether any entry duplicates candidate under policy.
// Archived entries are not filtered out; they still block.
func ContainsDuplicate(entries []Entry, candidate Entry, policy DuplicatePolicy) bool {
	for _, e := range entries {
		if policy(e, candidate) {
			return true
		}
	}
	return false
}

// UniqueViolation reports that an entry with the same name and measure type exists.
func UniqueViolation(kind Kind, name Name, mt MeasureType) *Error {
	return NewError(ErrUniqueViolation, kind.Code+".unique.violation",
		fmt.Sprintf("%s with name '%s' and measure type '%s' already exists", kind.Name, name, mt))
}

// IDAlreadyExists reports an entry whose id is already taken. It is a unique
// violation on the identity, not on the name.
func IDAlreadyExists(id uuid.UUID, kind Kind) *Error {
	return NewError(ErrUniqueViolation, kind.Code+".id.already.exists",
		fmt.Sprintf("%s with ID: %s already exists", kind.Name, id))
}
