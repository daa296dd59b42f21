package types

import (
	"context"
	"time"
)

// Store is the transactional entry point of the entity store. Update runs
// fn in a read-write transaction that commits only if fn returns nil; View
// runs fn in a read-only transaction.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Reader) error) error
}

// Tx is a read-write transaction.
type Tx interface {
	Reader
	Writer
}

// Reader holds the read paths of the entity store. Lookups of a single
// entity return ErrNotFound when no row matches the visibility.
type Reader interface {
	GetProject(id string, vis Visibility) (*Project, error)
	GetList(id string, vis Visibility) (*List, error)
	GetTask(id string, vis Visibility) (*Task, error)

	// ListsInProject returns lists ordered by position.
	ListsInProject(projectID string, vis Visibility) ([]*List, error)
	// TasksInList returns tasks ordered by creation time.
	TasksInList(listID string, vis Visibility) ([]*Task, error)
	// TasksInProject returns tasks ordered by creation time.
	TasksInProject(projectID string, vis Visibility) ([]*Task, error)
	// ProjectsOwnedBy returns the projects owned by ownerID.
	ProjectsOwnedBy(ownerID string, vis Visibility) ([]*Project, error)

	// MemberRole returns the role of userID in the project, RoleOwner for
	// the owner, and RoleNone for non-members.
	MemberRole(projectID, userID string) (Role, error)
	// ActiveListNamed returns the non-trashed list with the given name.
	ActiveListNamed(projectID, name string) (*List, error)
}

// Writer holds the mutation paths of the entity store.
type Writer interface {
	// CreateProject, CreateList and CreateTask insert a new active entity
	// and return its generated ID.
	CreateProject(p *Project) (string, error)
	CreateList(l *List) (string, error)
	CreateTask(t *Task) (string, error)

	// AddMember grants userID a non-owner role on the project.
	AddMember(projectID, userID string, role Role) error

	// SetTrashState overwrites the trash columns of one row. deletedAt must
	// be nil exactly when state is active.
	SetTrashState(ref EntityRef, state TrashState, deletedAt *time.Time) error

	// Purge removes one row. Callers delete children first.
	Purge(ref EntityRef) error
}

// Backend is a Store with an attach/detach lifecycle.
type Backend interface {
	Store

	// Attach opens the backend described by config. Returns
	// ErrAlreadyAttached if called twice without Detach.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error
}
