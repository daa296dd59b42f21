package types

import (
	"context"
	"time"
)

// Role is a user's standing on a project.
type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleNone:   0,
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// AtLeast reports whether r grants at least the rights of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Assignable reports whether r can be stored as a member row. Ownership is
// a project attribute, not a membership.
func (r Role) Assignable() bool {
	return r == RoleViewer || r == RoleEditor
}

// Target describes the entity an authorization decision is about. The
// engine fills ActorRole from the store before asking the Authorizer.
type Target struct {
	Ref       EntityRef
	ProjectID string
	OwnerID   string
	ActorRole Role
}

// Authorizer decides who may act on what. It never touches the store.
type Authorizer interface {
	CanView(ctx context.Context, actor string, t Target) (bool, error)
	CanDelete(ctx context.Context, actor string, t Target) (bool, error)
	CanRestore(ctx context.Context, actor string, t Target) (bool, error)
	CanForceDelete(ctx context.Context, actor string, t Target) (bool, error)
	CanEmptyTrash(ctx context.Context, actor string, scope Scope) (bool, error)
}

// RetentionPolicy supplies how long trashed entities owned by ownerID stay
// restorable.
type RetentionPolicy interface {
	RetentionWindow(ctx context.Context, ownerID string) (time.Duration, error)
}

// EventKind names a successful lifecycle mutation.
type EventKind string

const (
	EventSoftDeleted  EventKind = "soft_deleted"
	EventRestored     EventKind = "restored"
	EventForceDeleted EventKind = "force_deleted"
	EventTrashEmptied EventKind = "trash_emptied"
)

// Event is delivered to the Notifier after a lifecycle transaction commits.
// Ref is zero for EventTrashEmptied; Scope is set only for it.
type Event struct {
	Kind     EventKind `json:"kind"`
	Ref      EntityRef `json:"ref,omitempty"`
	Scope    *Scope    `json:"scope,omitempty"`
	Actor    string    `json:"actor"`
	Affected int       `json:"affected"`
	Promoted bool      `json:"promoted,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier receives lifecycle events. Delivery is fire-and-forget: an error
// is logged by the caller and never undoes the operation.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}
