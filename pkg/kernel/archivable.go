package kernel

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind names a concrete aggregate for error reporting.
// Name is shown to humans ("Item"), Code prefixes error codes ("item").
type Kind struct {
	Name string
	Code string
}

// ArchiveState is the archive lifecycle shared by archivable aggregates.
// The zero value is active. Transitions are strict: archiving an archived
// entity, or unarchiving an active one, is an error and leaves the state as is.
type ArchiveState struct {
	archived bool
}

// RestoreArchiveState rebuilds a persisted state. Only repositories should call it.
func RestoreArchiveState(archived bool) ArchiveState {
	return ArchiveState{archived: archived}
}

// IsArchived reports whether the entity is archived.
func (s ArchiveState) IsArchived() bool { return s.archived }

// Archive moves Active -> Archived.
func (s *ArchiveState) Archive(id uuid.UUID, kind Kind) error {
	if s.archived {
		return AlreadyArchived(id, kind)
	}
	s.archived = true
	return nil
}

// Unarchive moves Archived -> Active.
func (s *ArchiveState) Unarchive(id uuid.UUID, kind Kind) error {
	if !s.archived {
		return AlreadyUnarchived(id, kind)
	}
	s.archived = false
	return nil
}

// AlreadyArchived builds the error for archiving an archived entity.
// It panics on a nil id or an incomplete kind: both are programming errors.
func AlreadyArchived(id uuid.UUID, kind Kind) *Error {
	mustIdentify(id, kind)
	return NewError(ErrAlreadyArchived, kind.Code+".is.already.archived",
		fmt.Sprintf("The %s with ID: %s is already archived", kind.Name, id))
}

// AlreadyUnarchived builds the error for unarchiving an active entity.
// Same preconditions as AlreadyArchived.
func AlreadyUnarchived(id uuid.UUID, kind Kind) *Error {
	mustIdentify(id, kind)
	return NewError(ErrAlreadyUnarchived, kind.Code+".is.already.unarchived",
		fmt.Sprintf("The %s with ID: %s is already unarchived", kind.Name, id))
}

// AlreadyInState reports a transition whose target state, archived or not,
// storage already holds. Repositories use it when a conditional update finds
// the row moved there first.
func AlreadyInState(id uuid.UUID, kind Kind, archived bool) *Error {
	if archived {
		return AlreadyArchived(id, kind)
	}
	return AlreadyUnarchived(id, kind)
}

func mustIdentify(id uuid.UUID, kind Kind) {
	if id == uuid.Nil {
		panic("kernel: entity error for nil id")
	}
	if kind.Name == "" || kind.Code == "" {
		panic("kernel: entity error for unnamed kind")
	}
}

// NotFound reports an id that does not resolve to an entity of kind.
func NotFound(id uuid.UUID, kind Kind) *Error {
	mustIdentify(id, kind)
	return NewError(ErrNotFound, kind.Code+".is.not.exists",
		fmt.Sprintf("The %s with ID: %s is not exists", strings.ToLower(kind.Name), id))
}
