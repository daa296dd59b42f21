package types

import (
	"errors"
	"fmt"
)

// Lifecycle errors. Every lifecycle operation returns one of these (possibly
// wrapped) before any mutation is committed.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidState       = errors.New("invalid lifecycle state")
	ErrPartialPurge       = errors.New("empty trash partially applied")
)

// Entity validation errors.
var (
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidRef    = errors.New("invalid entity reference")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("name already in use")
	ErrInvalidScope  = errors.New("invalid trash scope")
	ErrInvalidRole   = errors.New("invalid member role")
	ErrInvalidActor  = errors.New("actor must not be empty")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// PreconditionError reports a request blocked by the state of another
// entity, usually a trashed ancestor. It matches ErrPreconditionFailed.
type PreconditionError struct {
	Blocker EntityRef
	Reason  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrPreconditionFailed, e.Blocker, e.Reason)
}

// Is makes errors.Is(err, ErrPreconditionFailed) hold.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// ParentInTrash builds the error returned when restoring below a trashed parent.
func ParentInTrash(parent EntityRef) *PreconditionError {
	return &PreconditionError{
		Blocker: parent,
		Reason:  "is in trash; restore the parent first",
	}
}
